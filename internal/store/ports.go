// Package store defines the ports for the tabular backing store. The
// spreadsheet (or a stand-in backend) is the sole source of truth; every
// read returns a fresh snapshot with row positions assigned at read time.
package store

import (
	"context"
	"errors"
)

var (
	// ErrConnection wraps authentication or network failures reaching the
	// backing store. Fatal to the session: callers stop and show setup
	// guidance instead of retrying.
	ErrConnection = errors.New("cannot reach backing store")

	// ErrNotFound is returned when a table, row position, or searched
	// value does not exist.
	ErrNotFound = errors.New("not found")
)

// Row is one data row together with its 1-based position in the table.
// Row 1 is always the header, so the first data position is 2. Positions
// are recomputed on every read and invalidated by any mutation.
type Row struct {
	Position int
	Fields   []string
}

// TableSpec describes a table for EnsureTable: its name, fixed header row,
// optional seed rows written only on creation, and sizing hints for
// backends that preallocate grid dimensions.
type TableSpec struct {
	Name   string
	Header []string
	Seed   [][]string
	Rows   int
	Cols   int
}

type (
	// Table exposes row-level operations on one named table. The store
	// layer performs no validation or uniqueness checks; callers validate
	// before mutating.
	Table interface {
		// ReadAll returns every data row in order with positions assigned.
		ReadAll(ctx context.Context) ([]Row, error)
		// AppendRow adds one row at the end of the table.
		AppendRow(ctx context.Context, fields []string) error
		// OverwriteRow replaces all fields of the row at position.
		// Returns ErrNotFound when the position no longer exists.
		OverwriteRow(ctx context.Context, position int, fields []string) error
		// DeleteRow removes the row at position; subsequent rows shift
		// position by -1. Returns ErrNotFound for a missing position.
		DeleteRow(ctx context.Context, position int) error
		// Clear removes all data rows and rewrites only the header.
		Clear(ctx context.Context) error
		// FindRow scans for the first row whose first field equals value
		// exactly. Returns ErrNotFound when absent.
		FindRow(ctx context.Context, value string) (int, error)
	}

	// Store resolves tables within one spreadsheet.
	Store interface {
		// EnsureTable is idempotent: it returns the existing table or
		// creates it with the given header and seed rows. It never
		// duplicates the header on repeated calls.
		EnsureTable(ctx context.Context, spec TableSpec) (Table, error)
	}
)

// DefaultCategories are the seed labels written when the Categories table
// is first created.
var DefaultCategories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Healthcare",
	"Education",
	"Travel",
	"Groceries",
	"Other",
}

// ExpensesSpec describes the Expenses table.
func ExpensesSpec() TableSpec {
	return TableSpec{
		Name:   "Expenses",
		Header: []string{"Date", "Amount", "Category", "Description"},
		Rows:   1000,
		Cols:   10,
	}
}

// CategoriesSpec describes the Categories table with its seed labels.
func CategoriesSpec() TableSpec {
	seed := make([][]string, 0, len(DefaultCategories))
	for _, c := range DefaultCategories {
		seed = append(seed, []string{c})
	}
	return TableSpec{
		Name:   "Categories",
		Header: []string{"Category"},
		Seed:   seed,
		Rows:   100,
		Cols:   1,
	}
}
