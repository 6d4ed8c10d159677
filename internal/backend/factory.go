// Package backend wires a configured store implementation to the ledger
// and registry services. Selection is by name: sheets, sqlite, or memory.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/config"
	"expensetracker/internal/services"
	"expensetracker/internal/store"
	"expensetracker/internal/store/google"
	"expensetracker/internal/store/memory"
	"expensetracker/internal/store/sqlite"

	"golang.org/x/sync/errgroup"
)

// Result bundles the ready-to-use services with an optional cleanup to
// run at shutdown.
type Result struct {
	Ledger   *services.Ledger
	Registry *services.Registry
	Cleanup  func() error
}

// Setup resolves the configured backend, ensures both tables exist, and
// returns the services. An unreachable sheets backend is fatal; an
// unreachable AMQP broker is not (events are skipped with a warning).
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var events services.EventPublisher
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			amqpClient = client
			events = client
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	st, cleanup, err := openStore(ctx, cfg, logger)
	if err != nil {
		if amqpClient != nil {
			amqpClient.Close()
		}
		return nil, err
	}

	// Both tables are independent; ensure them concurrently.
	var expenses, categories store.Table
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = st.EnsureTable(gctx, store.ExpensesSpec())
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = st.EnsureTable(gctx, store.CategoriesSpec())
		return err
	})
	if err := g.Wait(); err != nil {
		if cleanup != nil {
			cleanup()
		}
		if amqpClient != nil {
			amqpClient.Close()
		}
		return nil, fmt.Errorf("ensure tables: %w", err)
	}

	result := &Result{
		Ledger:   services.NewLedger(expenses, events),
		Registry: services.NewRegistry(categories, events),
	}
	result.Cleanup = func() error {
		var firstErr error
		if cleanup != nil {
			firstErr = cleanup()
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	return result, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Store, func() error, error) {
	switch cfg.DataBackend {
	case "sheets":
		client, err := google.NewClient(ctx, google.Credentials{
			JSON: cfg.GoogleServiceAccountJSON,
			File: cfg.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, nil, err
		}
		sheet, err := client.Open(ctx, cfg.StoreName)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Initialized Google Sheets backend", "store", cfg.StoreName)
		return sheet, nil, nil

	case "sqlite":
		db, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return db, db.Close, nil

	default:
		logger.Info("Initialized memory backend")
		return memory.New(), nil, nil
	}
}
