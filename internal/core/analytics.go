// Package core: pure in-memory filtering and aggregation over ledger
// snapshots. No I/O happens here; callers pass the expenses read from the
// backing store and get derived views back.
package core

import "sort"

// Filter describes the criteria applied to a ledger snapshot. Zero values
// mean "no bound": a zero From/To leaves that side of the date range open,
// a nil Categories set allows every category, and MinCents defaults to 0
// (inclusive threshold).
type Filter struct {
	From       Date
	To         Date
	Categories []string
	MinCents   int64
}

// Match reports whether the expense satisfies every criterion.
func (f Filter) Match(e Expense) bool {
	if !f.From.IsZero() && e.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To) {
		return false
	}
	if f.Categories != nil {
		found := false
		for _, c := range f.Categories {
			if c == e.Category {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return e.Amount.Cents >= f.MinCents
}

// Apply returns the expenses matching the filter, preserving snapshot order.
func Apply(expenses []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// CategoryAmount is an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// CategoryCount is a transaction count aggregated by category name.
type CategoryCount struct {
	Name  string
	Count int
}

// DailyAmount is a total for a single calendar day.
type DailyAmount struct {
	Date   Date
	Amount Money
}

// Summary holds the descriptive statistics of one filtered set.
type Summary struct {
	Total   Money
	Count   int
	Average Money // zero on an empty set, never a division fault
	Max     Money
	Median  Money // mean of the two middle values on even-sized sets
}

// Summarize computes totals and descriptive statistics over a set.
func Summarize(expenses []Expense) Summary {
	s := Summary{Count: len(expenses)}
	if len(expenses) == 0 {
		return s
	}
	cents := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
		if e.Amount.Cents > s.Max.Cents {
			s.Max.Cents = e.Amount.Cents
		}
		cents = append(cents, e.Amount.Cents)
	}
	s.Average.Cents = s.Total.Cents / int64(s.Count)
	sort.Slice(cents, func(i, j int) bool { return cents[i] < cents[j] })
	mid := len(cents) / 2
	if len(cents)%2 == 1 {
		s.Median.Cents = cents[mid]
	} else {
		s.Median.Cents = (cents[mid-1] + cents[mid]) / 2
	}
	return s
}

// SumByCategory aggregates amounts per category, sorted descending by sum
// with ties broken by category label ascending for determinism.
func SumByCategory(expenses []Expense) []CategoryAmount {
	byCat := map[string]int64{}
	for _, e := range expenses {
		byCat[e.Category] += e.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(byCat))
	for name, cents := range byCat {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount.Cents != out[j].Amount.Cents {
			return out[i].Amount.Cents > out[j].Amount.Cents
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// DailySums aggregates amounts per calendar day, sorted ascending by date.
func DailySums(expenses []Expense) []DailyAmount {
	byDay := map[string]int64{}
	dates := map[string]Date{}
	for _, e := range expenses {
		key := e.Date.String()
		byDay[key] += e.Amount.Cents
		dates[key] = e.Date
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]DailyAmount, 0, len(keys))
	for _, k := range keys {
		out = append(out, DailyAmount{Date: dates[k], Amount: Money{Cents: byDay[k]}})
	}
	return out
}

// TopCategoriesByAmount returns the n categories with the highest sums.
func TopCategoriesByAmount(expenses []Expense, n int) []CategoryAmount {
	ranked := SumByCategory(expenses)
	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// TopCategoriesByFrequency returns the n categories with the most
// transactions, descending by count with ties ascending by label.
func TopCategoriesByFrequency(expenses []Expense, n int) []CategoryCount {
	byCat := map[string]int{}
	for _, e := range expenses {
		byCat[e.Category]++
	}
	out := make([]CategoryCount, 0, len(byCat))
	for name, count := range byCat {
		out = append(out, CategoryCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
