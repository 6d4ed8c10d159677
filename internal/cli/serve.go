package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"expensetracker/internal/backend"
	apphttp "expensetracker/internal/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	LoadEnvFile()
	logger := SetupLogger()
	cfg := LoadAndValidateConfig(logger)

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer setupCancel()

	result, err := backend.Setup(setupCtx, cfg, logger)
	if err != nil {
		logger.Error("Failed to set up backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	server := apphttp.NewServer(":"+cfg.Port, result.Ledger, result.Registry)

	ctx, done := GracefulShutdown(logger, 10*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	go func() {
		logger.Info("Starting server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"store", cfg.StoreName)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	WaitForShutdown(ctx, done)
	return nil
}
