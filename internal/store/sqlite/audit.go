package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AuditEntry is one recorded mutation, as consumed from the event queue.
type AuditEntry struct {
	ID         int64
	Entity     string
	Action     string
	Position   int
	Fields     []string
	OccurredAt time.Time
}

// AuditLog appends mutation events to the audit_log table. It shares the
// database opened by Open.
type AuditLog struct {
	db *sql.DB
}

func NewAuditLog(s *Store) *AuditLog {
	return &AuditLog{db: s.db}
}

func (a *AuditLog) Record(ctx context.Context, e AuditEntry) error {
	_, err := a.db.ExecContext(ctx,
		"INSERT INTO audit_log (entity, action, position, fields, occurred_at) VALUES (?, ?, ?, ?, ?)",
		e.Entity, e.Action, e.Position, strings.Join(e.Fields, "|"), e.OccurredAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

// Recent returns the latest n entries, newest first.
func (a *AuditLog) Recent(ctx context.Context, n int) ([]AuditEntry, error) {
	rows, err := a.db.QueryContext(ctx,
		"SELECT id, entity, action, position, fields, occurred_at FROM audit_log ORDER BY id DESC LIMIT ?", n)
	if err != nil {
		return nil, fmt.Errorf("read audit log: %w", err)
	}
	defer rows.Close()

	var out []AuditEntry
	for rows.Next() {
		var e AuditEntry
		var fields, occurred string
		if err := rows.Scan(&e.ID, &e.Entity, &e.Action, &e.Position, &fields, &occurred); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		if fields != "" {
			e.Fields = strings.Split(fields, "|")
		}
		if t, err := time.Parse(time.RFC3339, occurred); err == nil {
			e.OccurredAt = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
