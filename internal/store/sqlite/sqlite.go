// Package sqlite implements the store ports on a local SQLite database.
// Rows keep their insertion order via the autoincrement id; positions are
// computed on every read the same way the spreadsheet backend assigns
// them, so delete/overwrite semantics match across backends.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"expensetracker/internal/store"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", store.ErrConnection, err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// DB exposes the underlying handle for the audit log, which shares the
// same database file.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EnsureTable maps the table spec onto the migrated schema. The schema is
// created (and categories seeded) by migrations, so this only resolves the
// SQL table and column names.
func (s *Store) EnsureTable(_ context.Context, spec store.TableSpec) (store.Table, error) {
	name := strings.ToLower(spec.Name)
	switch name {
	case "expenses", "categories":
	default:
		return nil, fmt.Errorf("table %s: %w", spec.Name, store.ErrNotFound)
	}
	cols := make([]string, len(spec.Header))
	for i, h := range spec.Header {
		cols[i] = strings.ToLower(h)
	}
	return &Table{db: s.db, name: name, cols: cols}, nil
}

type Table struct {
	db   *sql.DB
	name string
	cols []string
}

var _ store.Table = (*Table)(nil)

func (t *Table) ReadAll(ctx context.Context) ([]store.Row, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(t.cols, ", "), t.name)
	rows, err := t.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []store.Row
	pos := 2
	for rows.Next() {
		fields := make([]string, len(t.cols))
		dest := make([]any, len(t.cols))
		for i := range fields {
			dest[i] = &fields[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", t.name, err)
		}
		out = append(out, store.Row{Position: pos, Fields: fields})
		pos++
	}
	return out, rows.Err()
}

func (t *Table) AppendRow(ctx context.Context, fields []string) error {
	if len(fields) > len(t.cols) {
		fields = fields[:len(t.cols)]
	}
	for len(fields) < len(t.cols) {
		fields = append(fields, "")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.name, strings.Join(t.cols, ", "), placeholders)
	args := make([]any, len(fields))
	for i, f := range fields {
		args[i] = f
	}
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append to %s: %w", t.name, err)
	}
	return nil
}

func (t *Table) OverwriteRow(ctx context.Context, position int, fields []string) error {
	id, err := t.idAtPosition(ctx, position)
	if err != nil {
		return err
	}
	for len(fields) < len(t.cols) {
		fields = append(fields, "")
	}
	sets := make([]string, len(t.cols))
	args := make([]any, 0, len(t.cols)+1)
	for i, c := range t.cols {
		sets[i] = c + " = ?"
		args = append(args, fields[i])
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(sets, ", "))
	if _, err := t.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("overwrite %s row %d: %w", t.name, position, err)
	}
	return nil
}

func (t *Table) DeleteRow(ctx context.Context, position int) error {
	id, err := t.idAtPosition(ctx, position)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", t.name)
	if _, err := t.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s row %d: %w", t.name, position, err)
	}
	return nil
}

func (t *Table) Clear(ctx context.Context) error {
	if _, err := t.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", t.name)); err != nil {
		return fmt.Errorf("clear %s: %w", t.name, err)
	}
	return nil
}

func (t *Table) FindRow(ctx context.Context, value string) (int, error) {
	rows, err := t.ReadAll(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range rows {
		if len(r.Fields) > 0 && r.Fields[0] == value {
			return r.Position, nil
		}
	}
	return 0, fmt.Errorf("value %q in %s: %w", value, t.name, store.ErrNotFound)
}

// idAtPosition resolves a 1-based table position (first data row is 2) to
// the row's primary key.
func (t *Table) idAtPosition(ctx context.Context, position int) (int64, error) {
	if position < 2 {
		return 0, fmt.Errorf("row %d in %s: %w", position, t.name, store.ErrNotFound)
	}
	query := fmt.Sprintf("SELECT id FROM %s ORDER BY id LIMIT 1 OFFSET ?", t.name)
	var id int64
	err := t.db.QueryRowContext(ctx, query, position-2).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("row %d in %s: %w", position, t.name, store.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("locate %s row %d: %w", t.name, position, err)
	}
	return id, nil
}
