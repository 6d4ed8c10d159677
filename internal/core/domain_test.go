package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2025-03-09" {
		t.Fatalf("got %q", d.String())
	}

	bads := []string{"", "09/03/2025", "2025-13-01", "yesterday", "2025-02-30"}
	for i, s := range bads {
		if _, err := ParseDate(s); !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("case %d expected ErrInvalidDate, got %v", i, err)
		}
	}
}

func TestDateValidate(t *testing.T) {
	if err := NewDate(2025, 1, 1).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Date{Time: time.Time{}}).Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
}

func TestDateOrdering(t *testing.T) {
	a := NewDate(2025, 1, 1)
	b := NewDate(2025, 1, 2)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("Before wrong")
	}
	if !b.After(a) || a.After(b) {
		t.Fatalf("After wrong")
	}
	if !a.Equal(NewDate(2025, 1, 1)) {
		t.Fatalf("Equal wrong")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:     NewDate(2025, 1, 1),
		Amount:   Money{Cents: 100},
		Category: "Food & Dining",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		e    Expense
		want error
	}{
		{"zero date", Expense{Amount: Money{Cents: 1}, Category: "c"}, ErrInvalidDate},
		{"zero amount", Expense{Date: NewDate(2025, 1, 1), Category: "c"}, ErrInvalidAmount},
		{"blank category", Expense{Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Category: "   "}, ErrEmptyCategory},
	}
	for _, tc := range cases {
		if err := tc.e.Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	long := good
	long.Description = strings.Repeat("x", 201)
	if err := long.Validate(); err == nil {
		t.Fatalf("expected error for long description")
	}
	long.Description = strings.Repeat("x", 200)
	if err := long.Validate(); err != nil {
		t.Fatalf("200 chars should be fine, got %v", err)
	}
}

func TestExpenseFields(t *testing.T) {
	e := Expense{
		Date:        NewDate(2025, 3, 9),
		Amount:      Money{Cents: 1250},
		Category:    "Groceries",
		Description: "weekly shop",
	}
	got := e.Fields()
	want := []string{"2025-03-09", "12.50", "Groceries", "weekly shop"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("field %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestExpenseFromRow(t *testing.T) {
	e, err := ExpenseFromRow([]string{"2025-03-09", "12.50", "Groceries", "weekly shop"}, 5)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Position != 5 || e.Amount.Cents != 1250 || e.Category != "Groceries" {
		t.Fatalf("unexpected expense: %+v", e)
	}

	// Short rows are padded, so a row without a description still parses.
	e, err = ExpenseFromRow([]string{"2025-03-09", "3.00", "Other"}, 2)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if e.Description != "" {
		t.Fatalf("expected empty description, got %q", e.Description)
	}

	if _, err := ExpenseFromRow([]string{"not-a-date", "3.00", "Other", ""}, 2); err == nil {
		t.Fatalf("expected error for bad date")
	}
	if _, err := ExpenseFromRow([]string{"2025-03-09", "free", "Other", ""}, 2); err == nil {
		t.Fatalf("expected error for bad amount")
	}
}
