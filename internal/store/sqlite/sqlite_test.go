package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"expensetracker/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureTable(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, err := s.EnsureTable(ctx, store.ExpensesSpec()); err != nil {
		t.Fatalf("expenses: %v", err)
	}
	if _, err := s.EnsureTable(ctx, store.CategoriesSpec()); err != nil {
		t.Fatalf("categories: %v", err)
	}
	if _, err := s.EnsureTable(ctx, store.TableSpec{Name: "Unknown"}); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown table, got %v", err)
	}
}

func TestCategoriesSeededByMigration(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tab, err := s.EnsureTable(ctx, store.CategoriesSpec())
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	rows, err := tab.ReadAll(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != len(store.DefaultCategories) {
		t.Fatalf("expected %d seeded labels, got %d", len(store.DefaultCategories), len(rows))
	}
	if rows[0].Fields[0] != "Food & Dining" || rows[0].Position != 2 {
		t.Fatalf("first row: %+v", rows[0])
	}
}

func TestPositionSemantics(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tab, _ := s.EnsureTable(ctx, store.ExpensesSpec())

	for _, r := range [][]string{
		{"2025-01-01", "1.00", "a", ""},
		{"2025-01-02", "2.00", "b", ""},
		{"2025-01-03", "3.00", "c", ""},
	} {
		if err := tab.AppendRow(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows, _ := tab.ReadAll(ctx)
	if len(rows) != 3 || rows[0].Position != 2 || rows[2].Position != 4 {
		t.Fatalf("positions: %+v", rows)
	}

	if err := tab.DeleteRow(ctx, 3); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, _ = tab.ReadAll(ctx)
	if len(rows) != 2 || rows[1].Position != 3 || rows[1].Fields[2] != "c" {
		t.Fatalf("positions after delete: %+v", rows)
	}

	if err := tab.DeleteRow(ctx, 4); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for stale position, got %v", err)
	}

	if err := tab.OverwriteRow(ctx, 2, []string{"2025-02-01", "9.00", "z", "note"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	rows, _ = tab.ReadAll(ctx)
	if rows[0].Fields[2] != "z" || rows[0].Fields[3] != "note" {
		t.Fatalf("overwrite not applied: %+v", rows[0])
	}

	if err := tab.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	rows, _ = tab.ReadAll(ctx)
	if len(rows) != 0 {
		t.Fatalf("expected empty table, got %d rows", len(rows))
	}
}

func TestFindRowSQLite(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	tab, _ := s.EnsureTable(ctx, store.CategoriesSpec())

	pos, err := tab.FindRow(ctx, "Travel")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if pos != 9 {
		t.Fatalf("got position %d", pos)
	}
	if _, err := tab.FindRow(ctx, "Nope"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAuditLog(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	log := NewAuditLog(s)

	at := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)
	entries := []AuditEntry{
		{Entity: "expense", Action: "created", Fields: []string{"2025-03-09", "12.50", "Groceries", ""}, OccurredAt: at},
		{Entity: "expense", Action: "deleted", Position: 2, OccurredAt: at.Add(time.Minute)},
		{Entity: "category", Action: "created", Fields: []string{"Pets"}, OccurredAt: at.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		if err := log.Record(ctx, e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := log.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2, got %d", len(recent))
	}
	// Newest first.
	if recent[0].Entity != "category" || recent[0].Fields[0] != "Pets" {
		t.Fatalf("first entry: %+v", recent[0])
	}
	if recent[1].Action != "deleted" || recent[1].Position != 2 {
		t.Fatalf("second entry: %+v", recent[1])
	}
	if !recent[0].OccurredAt.Equal(at.Add(2 * time.Minute)) {
		t.Fatalf("timestamp: %v", recent[0].OccurredAt)
	}
}
