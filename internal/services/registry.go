package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

var ErrDuplicateCategory = errors.New("category already exists")

// Registry is the ordered list of category labels backed by the
// Categories table. Labels are unique case-sensitively, checked against a
// fresh snapshot before insertion; the store itself enforces nothing.
type Registry struct {
	table  store.Table
	events EventPublisher
}

func NewRegistry(table store.Table, events EventPublisher) *Registry {
	return &Registry{table: table, events: events}
}

// List returns the labels in insertion order from a fresh read.
func (r *Registry) List(ctx context.Context) ([]string, error) {
	rows, err := r.table.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row.Fields) == 0 {
			continue
		}
		label := strings.TrimSpace(row.Fields[0])
		if label == "" {
			continue
		}
		out = append(out, label)
	}
	return out, nil
}

// Add appends a new label, rejecting empty labels and exact duplicates.
func (r *Registry) Add(ctx context.Context, label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return core.ErrEmptyCategory
	}
	existing, err := r.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range existing {
		if c == label {
			return fmt.Errorf("%q: %w", label, ErrDuplicateCategory)
		}
	}
	if err := r.table.AppendRow(ctx, []string{label}); err != nil {
		return fmt.Errorf("add category: %w", err)
	}
	r.publish(ctx, amqp.ActionCreated, 0, []string{label})
	return nil
}

// Remove deletes the first row matching the label exactly. Expenses
// carrying the label keep it; removal never cascades.
func (r *Registry) Remove(ctx context.Context, label string) error {
	position, err := r.table.FindRow(ctx, label)
	if err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	if err := r.table.DeleteRow(ctx, position); err != nil {
		return fmt.Errorf("remove category: %w", err)
	}
	r.publish(ctx, amqp.ActionDeleted, position, []string{label})
	return nil
}

func (r *Registry) publish(ctx context.Context, action string, position int, fields []string) {
	if r.events == nil {
		return
	}
	msg := amqp.NewMutationMessage(amqp.EntityCategory, action, position, fields)
	if err := r.events.PublishMutation(ctx, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish mutation event",
			"entity", amqp.EntityCategory, "action", action, "error", err)
	}
}
