// Package memory implements the store ports with in-process tables. It is
// the default backend for local development and the fake used by tests.
package memory

import (
	"context"
	"sync"

	"expensetracker/internal/store"
)

type Store struct {
	mu     sync.Mutex
	tables map[string]*Table
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{tables: make(map[string]*Table)}
}

// EnsureTable returns the named table, creating it with header and seed
// rows on first use. Repeated calls never re-seed.
func (s *Store) EnsureTable(_ context.Context, spec store.TableSpec) (store.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[spec.Name]; ok {
		return t, nil
	}
	t := &Table{header: append([]string(nil), spec.Header...)}
	for _, row := range spec.Seed {
		t.rows = append(t.rows, append([]string(nil), row...))
	}
	s.tables[spec.Name] = t
	return t, nil
}

type Table struct {
	mu     sync.Mutex
	header []string
	rows   [][]string
}

var _ store.Table = (*Table)(nil)

func (t *Table) ReadAll(_ context.Context) ([]store.Row, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]store.Row, 0, len(t.rows))
	for i, fields := range t.rows {
		// Row 1 is the header, data starts at position 2.
		out = append(out, store.Row{Position: i + 2, Fields: append([]string(nil), fields...)})
	}
	return out, nil
}

func (t *Table) AppendRow(_ context.Context, fields []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = append(t.rows, append([]string(nil), fields...))
	return nil
}

func (t *Table) OverwriteRow(_ context.Context, position int, fields []string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := position - 2
	if idx < 0 || idx >= len(t.rows) {
		return store.ErrNotFound
	}
	t.rows[idx] = append([]string(nil), fields...)
	return nil
}

func (t *Table) DeleteRow(_ context.Context, position int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	idx := position - 2
	if idx < 0 || idx >= len(t.rows) {
		return store.ErrNotFound
	}
	t.rows = append(t.rows[:idx], t.rows[idx+1:]...)
	return nil
}

func (t *Table) Clear(_ context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	return nil
}

func (t *Table) FindRow(_ context.Context, value string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, fields := range t.rows {
		if len(fields) > 0 && fields[0] == value {
			return i + 2, nil
		}
	}
	return 0, store.ErrNotFound
}
