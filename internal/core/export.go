package core

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// WriteCSV writes the expenses as CSV with the header
// date,amount,category,description. Amounts carry two decimals.
func WriteCSV(w io.Writer, expenses []Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "amount", "category", "description"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		rec := []string{e.Date.String(), FormatCents(e.Amount.Cents), e.Category, e.Description}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportFilename returns the download name for an export generated at t,
// e.g. "expenses_20240131.csv".
func ExportFilename(t time.Time) string {
	return "expenses_" + t.Format("20060102") + ".csv"
}
