package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clients_backend/internal/database"
	"clients_backend/internal/router"
	"clients_backend/internal/storage"
	"clients_backend/pkg/utils"

	"github.com/spf13/cobra"
)

var applySchema bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if applySchema {
			if err := database.ApplySchema(db, cfg.Database.SchemaPath); err != nil {
				return err
			}
		}

		photos, err := storage.NewPhotoStore(cfg.UploadsDir)
		if err != nil {
			return err
		}

		engine := router.NewEngine(cfg)
		router.Setup(engine, db, photos, cfg.MaxUploadBytes)

		server := &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErr := make(chan error, 1)
		go func() {
			utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "uploads_dir": cfg.UploadsDir})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErr:
			return fmt.Errorf("server error: %w", err)
		case <-sigChan:
			utils.LogInfo("Shutting down gracefully")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		utils.LogInfo("Server stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&applySchema, "migrate", false, "create the clients table before serving")
	rootCmd.AddCommand(serveCmd)
}
