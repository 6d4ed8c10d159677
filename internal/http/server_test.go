package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"expensetracker/internal/services"
	"expensetracker/internal/store"
	"expensetracker/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	ms := memory.New()
	expenses, err := ms.EnsureTable(ctx, store.ExpensesSpec())
	if err != nil {
		t.Fatalf("ensure expenses: %v", err)
	}
	categories, err := ms.EnsureTable(ctx, store.CategoriesSpec())
	if err != nil {
		t.Fatalf("ensure categories: %v", err)
	}

	s := NewServer(":0", services.NewLedger(expenses, nil), services.NewRegistry(categories, nil))
	t.Cleanup(func() { s.rateLimiter.stop() })
	return s
}

func postForm(s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func addExpense(t *testing.T, s *Server, date, amount, category, desc string) {
	t.Helper()
	rec := postForm(s, "/expenses", url.Values{
		"date":        {date},
		"amount":      {amount},
		"category":    {category},
		"description": {desc},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create expense: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateExpense(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/expenses", url.Values{
		"date":        {"2025-03-09"},
		"amount":      {"12.50"},
		"category":    {"Groceries"},
		"description": {"weekly shop"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	trigger := rec.Header().Get("HX-Trigger")
	if !strings.Contains(trigger, "ledger:changed") || !strings.Contains(trigger, "form:reset") {
		t.Fatalf("triggers missing: %q", trigger)
	}

	dash := get(s, "/ui/dashboard")
	if dash.Code != http.StatusOK {
		t.Fatalf("dashboard status %d", dash.Code)
	}
	body := dash.Body.String()
	if !strings.Contains(body, "Groceries") || !strings.Contains(body, "$12.50") {
		t.Fatalf("dashboard missing expense: %s", body)
	}
}

func TestCreateExpenseValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []url.Values{
		{"date": {"not-a-date"}, "amount": {"5.00"}, "category": {"Other"}},
		{"date": {"2025-03-09"}, "amount": {"zero"}, "category": {"Other"}},
		{"date": {"2025-03-09"}, "amount": {"-5"}, "category": {"Other"}},
		{"date": {"2025-03-09"}, "amount": {"5.00"}, "category": {"  "}},
	}
	for i, form := range cases {
		rec := postForm(s, "/expenses", form)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("case %d: status %d", i, rec.Code)
		}
	}
}

func TestCreateExpenseMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	rec := get(s, "/expenses")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestUpdateExpense(t *testing.T) {
	s := newTestServer(t)
	addExpense(t, s, "2025-03-09", "12.50", "Groceries", "")

	rec := postForm(s, "/expenses/update", url.Values{
		"position": {"2"},
		"date":     {"2025-03-10"},
		"amount":   {"20.00"},
		"category": {"Travel"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	body := get(s, "/ui/dashboard").Body.String()
	if !strings.Contains(body, "Travel") || !strings.Contains(body, "$20.00") {
		t.Fatalf("update not visible: %s", body)
	}
}

func TestUpdateExpenseStalePosition(t *testing.T) {
	s := newTestServer(t)
	rec := postForm(s, "/expenses/update", url.Values{
		"position": {"5"},
		"date":     {"2025-03-10"},
		"amount":   {"20.00"},
		"category": {"Travel"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestDeleteExpenseTwoStep(t *testing.T) {
	s := newTestServer(t)
	addExpense(t, s, "2025-03-09", "12.50", "Groceries", "")

	form := url.Values{"position": {"2"}}

	// First click arms the confirmation without deleting.
	rec := postForm(s, "/expenses/delete", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("arm status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Confirm") {
		t.Fatalf("expected confirmation prompt, got %s", rec.Body.String())
	}
	if body := get(s, "/ui/dashboard").Body.String(); !strings.Contains(body, "Groceries") {
		t.Fatalf("expense deleted on first click")
	}

	// Second click performs the delete.
	rec = postForm(s, "/expenses/delete", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm status %d: %s", rec.Code, rec.Body.String())
	}
	if body := get(s, "/ui/dashboard").Body.String(); strings.Contains(body, "Groceries") {
		t.Fatalf("expense still present after confirm")
	}
}

func TestDeleteExpenseStalePosition(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"position": {"9"}}

	postForm(s, "/expenses/delete", form) // arm
	rec := postForm(s, "/expenses/delete", form)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}
}

func TestClearExpensesTwoStep(t *testing.T) {
	s := newTestServer(t)
	addExpense(t, s, "2025-03-09", "1.00", "Other", "")
	addExpense(t, s, "2025-03-10", "2.00", "Other", "")

	rec := postForm(s, "/expenses/clear", url.Values{})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Confirm") {
		t.Fatalf("arm: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = postForm(s, "/expenses/clear", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("confirm: status %d", rec.Code)
	}

	if body := get(s, "/ui/dashboard").Body.String(); !strings.Contains(body, "No expenses recorded yet") {
		t.Fatalf("ledger not cleared: %s", body)
	}
}

func TestAddCategory(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/categories", url.Values{"category": {"Pets"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "categories:changed") {
		t.Fatalf("trigger missing")
	}

	// Duplicates are rejected.
	rec = postForm(s, "/categories", url.Values{"category": {"Pets"}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate status %d", rec.Code)
	}

	// Empty labels are rejected.
	rec = postForm(s, "/categories", url.Values{"category": {"   "}})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty status %d", rec.Code)
	}
}

func TestDeleteCategory(t *testing.T) {
	s := newTestServer(t)

	rec := postForm(s, "/categories/delete", url.Values{"category": {"Travel"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	rec = postForm(s, "/categories/delete", url.Values{"category": {"Travel"}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("absent status %d", rec.Code)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	addExpense(t, s, "2025-03-09", "12.50", "Groceries", "weekly shop")
	addExpense(t, s, "2025-03-10", "30.00", "Travel", "")

	rec := get(s, "/export.csv")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") || !strings.Contains(cd, "expenses_") {
		t.Fatalf("content disposition %q", cd)
	}
	body := rec.Body.String()
	if !strings.HasPrefix(body, "date,amount,category,description\n") {
		t.Fatalf("missing header: %s", body)
	}
	if !strings.Contains(body, "2025-03-09,12.50,Groceries,weekly shop") {
		t.Fatalf("missing row: %s", body)
	}

	// Filtered export only includes matching rows.
	rec = get(s, "/export.csv?category=Travel")
	body = rec.Body.String()
	if strings.Contains(body, "Groceries") || !strings.Contains(body, "Travel") {
		t.Fatalf("filter not applied: %s", body)
	}
}

func TestDashboardFilters(t *testing.T) {
	s := newTestServer(t)
	addExpense(t, s, "2025-03-01", "5.00", "Food & Dining", "lunch")
	addExpense(t, s, "2025-03-02", "10.00", "Food & Dining", "dinner")
	addExpense(t, s, "2025-03-02", "20.00", "Transportation", "")

	body := get(s, "/ui/dashboard?category=Food+%26+Dining").Body.String()
	if !strings.Contains(body, "$15.00") {
		t.Fatalf("filtered total missing: %s", body)
	}
	if !strings.Contains(body, `data-tab="table"`) || !strings.Contains(body, `data-tab="insights"`) {
		t.Fatalf("tab panels missing: %s", body)
	}
	if strings.Contains(body, "Transportation") {
		t.Fatalf("filter leaked other category: %s", body)
	}

	body = get(s, "/ui/dashboard?min=10.00").Body.String()
	if strings.Contains(body, "$5.00") || !strings.Contains(body, "$30.00") {
		t.Fatalf("min filter wrong: %s", body)
	}

	// The default threshold shown in the form is 0.00 and must not reject.
	rec := get(s, "/ui/dashboard?min=0.00")
	if rec.Code != http.StatusOK {
		t.Fatalf("zero min status %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "$35.00") {
		t.Fatalf("zero min should include everything: %s", rec.Body.String())
	}

	rec = get(s, "/ui/dashboard?from=never")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad filter status %d", rec.Code)
	}
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	rec := get(s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Food &amp; Dining") {
		t.Fatalf("seed categories missing: %s", body)
	}

	if rec := get(s, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("unknown path status %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := get(s, "/")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing nosniff")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatalf("missing frame options")
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter()
	defer rl.stop()

	for i := 0; i < 60; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Fatalf("61st request should be limited")
	}
	// Other clients are unaffected.
	if !rl.allow("5.6.7.8") {
		t.Fatalf("other client should be allowed")
	}
}
