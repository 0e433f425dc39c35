package cli

import (
	"clients_backend/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the clients table",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		return database.ApplySchema(db, cfg.Database.SchemaPath)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
