package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"

	"expensetracker/internal/core"
)

type expenseRow struct {
	Position    int
	Date        string
	Amount      string
	Category    string
	Description string
}

type categoryRow struct {
	Name    string
	Amount  string
	Percent string
	Width   int
}

type dailyRow struct {
	Date   string
	Amount string
	Width  int
}

type frequencyRow struct {
	Name  string
	Count int
}

type dashboardData struct {
	HasExpenses bool

	Total   string
	Count   int
	Average string
	Max     string
	Median  string

	Categories []categoryRow
	Daily      []dailyRow
	Expenses   []expenseRow

	TopByAmount    []categoryRow
	TopByFrequency []frequencyRow
	Recent         []expenseRow
	DailyAverage   string

	FilterFrom       string
	FilterTo         string
	FilterCategories []string
	FilterMin        string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	categories, err := s.registry.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to list categories for index", "error", err)
		categories = nil
	}

	data := struct {
		Today      string
		Categories []string
	}{
		Today:      core.Today().String(),
		Categories: categories,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "index.html")
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="error">Invalid filter: ` + err.Error() + `</div></section>`))
		return
	}

	all, err := s.ledger.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed listing expenses for dashboard", "error", err)
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">Error loading expenses</div></section>`))
		return
	}

	data := buildDashboard(all, filter)
	data.FilterFrom = r.URL.Query().Get("from")
	data.FilterTo = r.URL.Query().Get("to")
	data.FilterCategories = filter.Categories
	data.FilterMin = r.URL.Query().Get("min")

	if err := s.templates.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", "dashboard.html")
		_, _ = w.Write([]byte(`<section id="dashboard"><div class="placeholder">Error rendering dashboard</div></section>`))
	}
}

// buildDashboard assembles all the derived figures from one read of the
// ledger. Filtering and aggregation happen in memory; nothing is cached
// between requests.
func buildDashboard(all []core.Expense, filter core.Filter) dashboardData {
	expenses := core.Apply(all, filter)

	data := dashboardData{HasExpenses: len(expenses) > 0}
	if len(expenses) == 0 {
		return data
	}

	summary := core.Summarize(expenses)
	data.Total = formatAmount(summary.Total.Cents)
	data.Count = summary.Count
	data.Average = formatAmount(summary.Average.Cents)
	data.Max = formatAmount(summary.Max.Cents)
	data.Median = formatAmount(summary.Median.Cents)

	byCategory := core.SumByCategory(expenses)
	var maxCents int64
	for _, c := range byCategory {
		if c.Amount.Cents > maxCents {
			maxCents = c.Amount.Cents
		}
	}
	for _, c := range byCategory {
		data.Categories = append(data.Categories, categoryRow{
			Name:    c.Name,
			Amount:  formatAmount(c.Amount.Cents),
			Percent: sharePercent(c.Amount.Cents, summary.Total.Cents),
			Width:   barWidth(c.Amount.Cents, maxCents),
		})
	}

	daily := core.DailySums(expenses)
	var maxDaily int64
	for _, d := range daily {
		if d.Amount.Cents > maxDaily {
			maxDaily = d.Amount.Cents
		}
	}
	for _, d := range daily {
		data.Daily = append(data.Daily, dailyRow{
			Date:   d.Date.String(),
			Amount: formatAmount(d.Amount.Cents),
			Width:  barWidth(d.Amount.Cents, maxDaily),
		})
	}

	// Table rows newest first, position preserved for row actions.
	sorted := make([]core.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[j].Date.Before(sorted[i].Date)
	})
	for _, e := range sorted {
		data.Expenses = append(data.Expenses, toExpenseRow(e))
	}

	for _, c := range core.TopCategoriesByAmount(expenses, 3) {
		data.TopByAmount = append(data.TopByAmount, categoryRow{
			Name:    c.Name,
			Amount:  formatAmount(c.Amount.Cents),
			Percent: sharePercent(c.Amount.Cents, summary.Total.Cents),
			Width:   barWidth(c.Amount.Cents, maxCents),
		})
	}
	for _, c := range core.TopCategoriesByFrequency(expenses, 3) {
		data.TopByFrequency = append(data.TopByFrequency, frequencyRow{Name: c.Name, Count: c.Count})
	}

	// Most recently recorded entries, by sheet position.
	recent := make([]core.Expense, len(expenses))
	copy(recent, expenses)
	sort.SliceStable(recent, func(i, j int) bool { return recent[i].Position > recent[j].Position })
	for i, e := range recent {
		if i == 5 {
			break
		}
		data.Recent = append(data.Recent, toExpenseRow(e))
	}

	if days := len(daily); days > 0 {
		data.DailyAverage = formatAmount(summary.Total.Cents / int64(days))
	}

	return data
}

func toExpenseRow(e core.Expense) expenseRow {
	return expenseRow{
		Position:    e.Position,
		Date:        e.Date.String(),
		Amount:      formatAmount(e.Amount.Cents),
		Category:    e.Category,
		Description: e.Description,
	}
}

// barWidth scales cents against the largest value to a 0-100 bar width,
// keeping tiny non-zero amounts visible.
func barWidth(cents, maxCents int64) int {
	if maxCents <= 0 || cents <= 0 {
		return 0
	}
	width := int((cents*100 + maxCents/2) / maxCents)
	if width > 0 && width < 2 {
		width = 2
	}
	if width > 100 {
		width = 100
	}
	return width
}

func sharePercent(cents, total int64) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(cents)/float64(total)*100)
}
