package core

import (
	"strings"
	"testing"
	"time"
)

func TestWriteCSV(t *testing.T) {
	exps := []Expense{
		{Date: NewDate(2025, 3, 1), Amount: Money{Cents: 500}, Category: "Food & Dining", Description: "lunch"},
		{Date: NewDate(2025, 3, 2), Amount: Money{Cents: 1000}, Category: "Food & Dining", Description: "dinner, late"},
		{Date: NewDate(2025, 3, 2), Amount: Money{Cents: 2000}, Category: "Transportation", Description: ""},
	}

	var sb strings.Builder
	if err := WriteCSV(&sb, exps); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	want := "date,amount,category,description\n" +
		"2025-03-01,5.00,Food & Dining,lunch\n" +
		"2025-03-02,10.00,Food & Dining,\"dinner, late\"\n" +
		"2025-03-02,20.00,Transportation,\n"
	if sb.String() != want {
		t.Fatalf("csv mismatch:\ngot:\n%s\nwant:\n%s", sb.String(), want)
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var sb strings.Builder
	if err := WriteCSV(&sb, nil); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if sb.String() != "date,amount,category,description\n" {
		t.Fatalf("expected header only, got %q", sb.String())
	}
}

func TestExportFilename(t *testing.T) {
	at := time.Date(2025, 3, 9, 15, 4, 5, 0, time.UTC)
	if got := ExportFilename(at); got != "expenses_20250309.csv" {
		t.Fatalf("got %q", got)
	}
}
