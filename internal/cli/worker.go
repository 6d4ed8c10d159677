package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"expensetracker/internal/amqp"
	"expensetracker/internal/store/sqlite"
	"expensetracker/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume mutation events into the audit log",
	RunE:  runWorker,
}

func init() {
	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, args []string) error {
	LoadEnvFile()
	logger := SetupLogger()
	cfg := LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP broker", "error", err, "exchange", cfg.AMQPExchange)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open audit database", "error", err, "path", cfg.SQLiteDBPath)
		client.Close()
		os.Exit(1)
	}

	auditWorker := worker.NewAuditWorker(client, sqlite.NewAuditLog(db))

	ctx, done := GracefulShutdown(logger, 10*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
		if err := db.Close(); err != nil {
			logger.Error("Database close error", "error", err)
		}
	})

	logger.Info("Audit worker started", "queue", cfg.AMQPQueue, "db", cfg.SQLiteDBPath)

	if err := auditWorker.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("Audit worker stopped with error", "error", err)
	}

	WaitForShutdown(ctx, done)
	return nil
}
