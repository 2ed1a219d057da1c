package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "Income"
	Expense TransactionType = "Expense"
)

const (
	OneTime Frequency = "One-time"
	Weekly  Frequency = "Weekly"
	Monthly Frequency = "Monthly"
	Yearly  Frequency = "Yearly"
)

type (
	// TransactionType tags a transaction as money in or money out.
	TransactionType string

	// Frequency is the recurrence rule attached to a scheduled transaction.
	Frequency string

	// Date is a calendar date with no time component. The embedded time is
	// always midnight UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          int64
		Date        Date
		Category    string // category name, not enforced by foreign key
		Amount      Money
		Description string
		Type        TransactionType
	}

	Category struct {
		ID   int64
		Name string
	}

	Goal struct {
		ID       int64
		Name     string
		Target   Money
		Current  Money
		Deadline Date
	}

	// ScheduledTransaction is a template for future transactions. Date holds
	// the next due date and rolls forward as occurrences materialize.
	ScheduledTransaction struct {
		ID          int64
		Date        Date
		Category    string
		Amount      Money
		Description string
		Type        TransactionType
		Frequency   Frequency
	}

	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyUsername    = errors.New("empty username")
	ErrEmptyPassword    = errors.New("empty password")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses an ISO calendar date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t.UTC()}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// AddDays returns the date shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (t TransactionType) Validate() error {
	switch t {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidType
	}
}

func (f Frequency) Validate() error {
	switch f {
	case OneTime, Weekly, Monthly, Yearly:
		return nil
	default:
		return ErrInvalidFrequency
	}
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Type.Validate()
}

// Remaining is the goal's unmet need, floored at zero.
func (g Goal) Remaining() Money {
	r := g.Target.Cents - g.Current.Cents
	if r < 0 {
		r = 0
	}
	return Money{Cents: r}
}

// Funded reports whether the goal has reached its target.
func (g Goal) Funded() bool {
	return g.Current.Cents >= g.Target.Cents
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Current.Cents < 0 {
		return ErrInvalidAmount
	}
	return g.Deadline.Validate()
}

func (s ScheduledTransaction) Validate() error {
	if err := s.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Category) == "" {
		return ErrEmptyCategory
	}
	if err := s.Amount.Validate(); err != nil {
		return err
	}
	if err := s.Type.Validate(); err != nil {
		return err
	}
	return s.Frequency.Validate()
}

// Transaction builds the concrete transaction this template materializes into.
func (s ScheduledTransaction) Transaction() Transaction {
	return Transaction{
		Date:        s.Date,
		Category:    s.Category,
		Amount:      s.Amount,
		Description: s.Description,
		Type:        s.Type,
	}
}
