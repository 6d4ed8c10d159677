package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day without a time component. The wire format,
	// both in the backing store and in CSV exports, is YYYY-MM-DD.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is one recorded transaction. Position is the 1-based row
	// index in the backing table (first data row is 2, row 1 is the
	// header). It is assigned on read and valid only until the next
	// mutation.
	Expense struct {
		Date        Date
		Amount      Money
		Category    string
		Description string
		Position    int
	}
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
)

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d falls on an earlier calendar day than other.
func (d Date) Before(other Date) bool {
	return d.Time.Before(other.Time)
}

// After reports whether d falls on a later calendar day than other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(other Date) bool {
	return d.Time.Equal(other.Time)
}

func (m Money) Validate() error {
	// Minimum recordable amount is one cent (0.01).
	if m.Cents < 1 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	// Description is free text and may be empty.
	if len(e.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Fields returns the expense as a backing-store row in header order
// (Date, Amount, Category, Description).
func (e Expense) Fields() []string {
	return []string{e.Date.String(), FormatCents(e.Amount.Cents), e.Category, e.Description}
}

// ExpenseFromRow parses a backing-store row into an Expense. Rows with
// fewer than the four schema columns are padded with empty strings so
// partially filled rows still round-trip.
func ExpenseFromRow(fields []string, position int) (Expense, error) {
	for len(fields) < 4 {
		fields = append(fields, "")
	}
	date, err := ParseDate(fields[0])
	if err != nil {
		return Expense{}, err
	}
	cents, err := ParseDecimalToCents(fields[1])
	if err != nil {
		return Expense{}, err
	}
	return Expense{
		Date:        date,
		Amount:      Money{Cents: cents},
		Category:    strings.TrimSpace(fields[2]),
		Description: fields[3],
		Position:    position,
	}, nil
}
