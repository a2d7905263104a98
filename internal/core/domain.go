package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	CategoryCoffee        Category = "Coffee/tea"
	CategoryFood          Category = "Food"
	CategoryEntertainment Category = "Entertainment"
	CategoryTransport     Category = "Transport"
	CategoryShopping      Category = "Shopping"
	CategoryHealth        Category = "Health"
	CategorySalary        Category = "Salary"
	CategoryOther         Category = "Other"
)

// MaxTitleLength bounds user-supplied titles.
const MaxTitleLength = 200

type (
	TransactionType string

	// Category is a closed-vocabulary label shared by the entry form
	// and the advice thresholds.
	Category string

	// Money is a monetary amount in whole tenge. Amounts are rounded to
	// whole units at entry time; no sub-unit is tracked.
	Money int64

	// Date is an ISO calendar date (YYYY-MM-DD).
	Date string

	// Transaction is immutable once created. Edits replace the record
	// wholesale; there are no partial updates.
	Transaction struct {
		ID       string          `json:"id"`
		Type     TransactionType `json:"type"`
		Title    string          `json:"title"`
		Amount   Money           `json:"amount"`
		Category Category        `json:"category"`
		Date     Date            `json:"date"`
	}

	// TransactionFields carries the user-supplied values for a new record.
	TransactionFields struct {
		Type     TransactionType
		Title    string
		Amount   Money
		Category Category
		Date     Date
	}
)

// ValidationError names the field that failed creation-time validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Categories returns the full vocabulary in form-presentation order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryCoffee,
		CategoryTransport,
		CategoryEntertainment,
		CategoryShopping,
		CategoryHealth,
		CategorySalary,
		CategoryOther,
	}
}

func (c Category) IsValid() bool {
	switch c {
	case CategoryCoffee, CategoryFood, CategoryEntertainment, CategoryTransport,
		CategoryShopping, CategoryHealth, CategorySalary, CategoryOther:
		return true
	default:
		return false
	}
}

func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

func (m Money) Validate() error {
	if m <= 0 {
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	}
	return nil
}

// Format renders the amount with space-grouped thousands and the tenge
// sign, e.g. 15000 -> "15 000 ₸".
func (m Money) Format() string {
	n := int64(m)
	neg := n < 0
	if neg {
		n = -n
	}
	digits := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String() + " ₸"
	}
	return b.String() + " ₸"
}

func (d Date) Validate() error {
	if d == "" {
		return &ValidationError{Field: "date", Reason: "is required"}
	}
	if _, err := time.Parse(time.DateOnly, string(d)); err != nil {
		return &ValidationError{Field: "date", Reason: "must be YYYY-MM-DD"}
	}
	return nil
}

// MonthKey derives the YYYY-MM month key by prefix truncation.
func (d Date) MonthKey() string {
	s := string(d)
	if len(s) < 7 {
		return s
	}
	return s[:7]
}

// Today returns the current calendar date in the local zone.
func Today(now time.Time) Date {
	return Date(now.Format(time.DateOnly))
}

// CurrentMonthKey returns the month key for now.
func CurrentMonthKey(now time.Time) string {
	return Today(now).MonthKey()
}

func (f TransactionFields) Validate() error {
	if !f.Type.IsValid() {
		return &ValidationError{Field: "type", Reason: "must be income or expense"}
	}
	if strings.TrimSpace(f.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if len(f.Title) > MaxTitleLength {
		return &ValidationError{Field: "title", Reason: fmt.Sprintf("too long (max %d characters)", MaxTitleLength)}
	}
	if err := f.Amount.Validate(); err != nil {
		return err
	}
	if !f.Category.IsValid() {
		return &ValidationError{Field: "category", Reason: "unknown category"}
	}
	return f.Date.Validate()
}

// NewTransaction validates the fields and mints a record with a fresh ID.
// Validation happens here and only here; records loaded from storage are
// trusted as-is.
func NewTransaction(f TransactionFields) (Transaction, error) {
	if err := f.Validate(); err != nil {
		return Transaction{}, err
	}
	return Transaction{
		ID:       uuid.NewString(),
		Type:     f.Type,
		Title:    strings.TrimSpace(f.Title),
		Amount:   f.Amount,
		Category: f.Category,
		Date:     f.Date,
	}, nil
}
