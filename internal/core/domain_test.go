package core

import (
	"errors"
	"testing"
	"time"
)

func validFields() TransactionFields {
	return TransactionFields{
		Type:     Expense,
		Title:    "Coffee",
		Amount:   1500,
		Category: CategoryCoffee,
		Date:     "2026-02-14",
	}
}

func TestTransactionFields_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TransactionFields)
		wantField string
	}{
		{
			name:   "valid fields",
			mutate: func(*TransactionFields) {},
		},
		{
			name:      "empty title",
			mutate:    func(f *TransactionFields) { f.Title = "   " },
			wantField: "title",
		},
		{
			name:      "zero amount",
			mutate:    func(f *TransactionFields) { f.Amount = 0 },
			wantField: "amount",
		},
		{
			name:      "negative amount",
			mutate:    func(f *TransactionFields) { f.Amount = -500 },
			wantField: "amount",
		},
		{
			name:      "missing date",
			mutate:    func(f *TransactionFields) { f.Date = "" },
			wantField: "date",
		},
		{
			name:      "garbage date",
			mutate:    func(f *TransactionFields) { f.Date = "14.02.2026" },
			wantField: "date",
		},
		{
			name:      "unknown category",
			mutate:    func(f *TransactionFields) { f.Category = "Yachts" },
			wantField: "category",
		},
		{
			name:      "unknown type",
			mutate:    func(f *TransactionFields) { f.Type = "transfer" },
			wantField: "type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validFields()
			tt.mutate(&f)
			err := f.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("ValidationError.Field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestNewTransaction(t *testing.T) {
	f := validFields()
	tx, err := NewTransaction(f)
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if tx.ID == "" {
		t.Error("NewTransaction() should assign an id")
	}
	if tx.Title != f.Title || tx.Amount != f.Amount || tx.Category != f.Category || tx.Date != f.Date || tx.Type != f.Type {
		t.Errorf("NewTransaction() fields = %+v, want fields from %+v", tx, f)
	}

	other, err := NewTransaction(f)
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if other.ID == tx.ID {
		t.Error("NewTransaction() should mint distinct ids")
	}
}

func TestNewTransaction_TrimsTitle(t *testing.T) {
	f := validFields()
	f.Title = "  Coffee  "
	tx, err := NewTransaction(f)
	if err != nil {
		t.Fatalf("NewTransaction() error = %v", err)
	}
	if tx.Title != "Coffee" {
		t.Errorf("Title = %q, want %q", tx.Title, "Coffee")
	}
}

func TestDate_MonthKey(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{"2026-02-14", "2026-02"},
		{"1999-12-01", "1999-12"},
		{"2026", "2026"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := tt.date.MonthKey(); got != tt.want {
			t.Errorf("MonthKey(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMoney_Format(t *testing.T) {
	tests := []struct {
		amount Money
		want   string
	}{
		{0, "0 ₸"},
		{500, "500 ₸"},
		{1500, "1 500 ₸"},
		{15000, "15 000 ₸"},
		{1234567, "1 234 567 ₸"},
		{-9000, "-9 000 ₸"},
	}
	for _, tt := range tests {
		if got := tt.amount.Format(); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", int64(tt.amount), got, tt.want)
		}
	}
}

func TestCurrentMonthKey(t *testing.T) {
	now := time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC)
	if got := CurrentMonthKey(now); got != "2026-02" {
		t.Errorf("CurrentMonthKey() = %q, want %q", got, "2026-02")
	}
}

func TestCategories_AllValid(t *testing.T) {
	for _, c := range Categories() {
		if !c.IsValid() {
			t.Errorf("Categories() contains invalid category %q", c)
		}
	}
}
