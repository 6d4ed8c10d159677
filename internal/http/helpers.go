package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"expensetracker/internal/core"
)

// generateRequestID returns a random hex identifier used to correlate
// log lines for a single request.
func generateRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b)
}

// sanitizeInput trims whitespace and strips control characters from
// user-submitted text fields.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' {
			return -1
		}
		return r
	}, s)
}

// formatAmount renders cents as a dollar string for templates, e.g. "$12.34".
func formatAmount(cents int64) string {
	return "$" + core.FormatCents(cents)
}

// parsePosition reads a positive row position from a form value.
func parsePosition(raw string) (int, error) {
	pos, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || pos < 2 {
		return 0, fmt.Errorf("invalid position %q", raw)
	}
	return pos, nil
}

// parseFilter builds an expense filter from query or form values. Empty
// values leave the corresponding criterion unset.
func parseFilter(values url.Values) (core.Filter, error) {
	var f core.Filter

	if raw := strings.TrimSpace(values.Get("from")); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return f, fmt.Errorf("from date: %w", err)
		}
		f.From = d
	}
	if raw := strings.TrimSpace(values.Get("to")); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return f, fmt.Errorf("to date: %w", err)
		}
		f.To = d
	}
	for _, c := range values["category"] {
		c = strings.TrimSpace(c)
		if c != "" && c != "All" {
			f.Categories = append(f.Categories, c)
		}
	}
	if raw := strings.TrimSpace(values.Get("min")); raw != "" {
		cents, err := core.ParseThresholdCents(raw)
		if err != nil {
			return f, fmt.Errorf("minimum amount: %w", err)
		}
		f.MinCents = cents
	}

	return f, nil
}

// expenseFromForm validates and assembles an expense from form fields.
func expenseFromForm(r *http.Request) (core.Expense, error) {
	date, err := core.ParseDate(strings.TrimSpace(r.FormValue("date")))
	if err != nil {
		return core.Expense{}, err
	}

	cents, err := core.ParseDecimalToCents(strings.TrimSpace(r.FormValue("amount")))
	if err != nil {
		return core.Expense{}, err
	}

	exp := core.Expense{
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Category:    sanitizeInput(r.FormValue("category")),
		Description: sanitizeInput(r.FormValue("description")),
	}
	if err := exp.Validate(); err != nil {
		return core.Expense{}, err
	}
	return exp, nil
}
