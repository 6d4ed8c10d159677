// Package services holds the ledger and category registry built on the
// store ports. Services validate before touching the store and publish
// best-effort mutation events afterwards; a failed publish never fails
// the operation.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

// EventPublisher emits mutation events after successful store writes.
// Implemented by *amqp.Client; nil disables publishing.
type EventPublisher interface {
	PublishMutation(ctx context.Context, msg amqp.MutationMessage) error
}

// Ledger is the expense ledger backed by the Expenses table. A row's
// position is its identity for update and delete; every mutation
// invalidates previously read positions.
type Ledger struct {
	table  store.Table
	events EventPublisher
}

func NewLedger(table store.Table, events EventPublisher) *Ledger {
	return &Ledger{table: table, events: events}
}

// List reads a fresh snapshot of all expenses with positions assigned.
// Rows that do not parse (externally edited garbage) are skipped with a
// warning rather than failing the whole read.
func (l *Ledger) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := l.table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := core.ExpenseFromRow(row.Fields, row.Position)
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparsable expense row", "position", row.Position, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Create validates and appends one expense.
func (l *Ledger) Create(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := l.table.AppendRow(ctx, e.Fields()); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	l.publish(ctx, amqp.EntityExpense, amqp.ActionCreated, 0, e.Fields())
	return nil
}

// Update overwrites the full row at position with the new field values.
func (l *Ledger) Update(ctx context.Context, position int, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if err := l.table.OverwriteRow(ctx, position, e.Fields()); err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	l.publish(ctx, amqp.EntityExpense, amqp.ActionUpdated, position, e.Fields())
	return nil
}

// Delete removes the row at position; subsequent positions shift by -1.
func (l *Ledger) Delete(ctx context.Context, position int) error {
	if err := l.table.DeleteRow(ctx, position); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	l.publish(ctx, amqp.EntityExpense, amqp.ActionDeleted, position, nil)
	return nil
}

// Clear wipes every expense, leaving only the header row.
func (l *Ledger) Clear(ctx context.Context) error {
	if err := l.table.Clear(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	l.publish(ctx, amqp.EntityExpense, amqp.ActionCleared, 0, nil)
	return nil
}

func (l *Ledger) publish(ctx context.Context, entity, action string, position int, fields []string) {
	if l.events == nil {
		return
	}
	msg := amqp.NewMutationMessage(entity, action, position, fields)
	if err := l.events.PublishMutation(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish mutation event",
			"entity", entity, "action", action, "error", err)
	}
}
