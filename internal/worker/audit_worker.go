// Package worker consumes mutation events and records them in the local
// SQLite audit log, giving the spreadsheet-backed tracker a durable
// history of what changed and when.
package worker

import (
	"context"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/store/sqlite"
)

// MutationConsumer is the subset of the AMQP client the worker needs.
type MutationConsumer interface {
	ConsumeMutations(ctx context.Context, handler func(amqp.MutationMessage) error) error
}

// AuditRecorder persists consumed mutation events.
type AuditRecorder interface {
	Record(ctx context.Context, e sqlite.AuditEntry) error
}

type AuditWorker struct {
	consumer MutationConsumer
	log      AuditRecorder
}

func NewAuditWorker(consumer MutationConsumer, log AuditRecorder) *AuditWorker {
	return &AuditWorker{consumer: consumer, log: log}
}

// Run consumes events until ctx is cancelled. A failed insert requeues
// the message via the consumer's nack path.
func (w *AuditWorker) Run(ctx context.Context) error {
	return w.consumer.ConsumeMutations(ctx, func(msg amqp.MutationMessage) error {
		entry := sqlite.AuditEntry{
			Entity:     msg.Entity,
			Action:     msg.Action,
			Position:   msg.Position,
			Fields:     msg.Fields,
			OccurredAt: msg.Timestamp,
		}
		if err := w.log.Record(ctx, entry); err != nil {
			return err
		}
		slog.InfoContext(ctx, "Recorded mutation event",
			"entity", msg.Entity,
			"action", msg.Action,
			"position", msg.Position)
		return nil
	})
}
