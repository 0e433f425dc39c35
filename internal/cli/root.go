package cli

import (
	"fmt"

	"clients_backend/internal/config"
	"clients_backend/pkg/utils"

	"github.com/spf13/cobra"
)

var cfg *config.Config

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clients-api",
	Short: "REST backend for client records and their photos",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		utils.InitLogger(cfg.LogLevel, cfg.LogPretty)
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
