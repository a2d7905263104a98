package core

import (
	"sort"
	"time"
)

const (
	TypeAll     TypeFilter = "all"
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

const (
	SortNewest   SortOrder = "new"
	SortOldest   SortOrder = "old"
	SortBiggest  SortOrder = "big"
	SortSmallest SortOrder = "small"
)

type (
	// TypeFilter narrows a transaction list by type.
	TypeFilter string

	// SortOrder selects the presentation order of a transaction list.
	SortOrder string

	// Summary holds the monthly totals. Balance = Income - Expense.
	Summary struct {
		Income  Money
		Expense Money
		Balance Money
	}

	// CategoryAmount is one row of the per-category expense breakdown.
	CategoryAmount struct {
		Category Category
		Amount   Money
	}
)

func (f TypeFilter) IsValid() bool {
	return f == TypeAll || f == TypeIncome || f == TypeExpense
}

func (o SortOrder) IsValid() bool {
	return o == SortNewest || o == SortOldest || o == SortBiggest || o == SortSmallest
}

// MonthKeys returns every distinct month key present in txs plus the current
// month, sorted descending for presentation.
func MonthKeys(txs []Transaction, now time.Time) []string {
	seen := map[string]struct{}{}
	var keys []string
	for _, tx := range txs {
		k := tx.Date.MonthKey()
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	current := CurrentMonthKey(now)
	if _, ok := seen[current]; !ok {
		keys = append(keys, current)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}

// FilterByMonth keeps transactions whose derived month key matches exactly.
func FilterByMonth(txs []Transaction, month string) []Transaction {
	var out []Transaction
	for _, tx := range txs {
		if tx.Date.MonthKey() == month {
			out = append(out, tx)
		}
	}
	return out
}

// FilterByType keeps transactions matching the filter; TypeAll is identity.
func FilterByType(txs []Transaction, f TypeFilter) []Transaction {
	if f == TypeAll || f == "" {
		return txs
	}
	var out []Transaction
	for _, tx := range txs {
		if string(tx.Type) == string(f) {
			out = append(out, tx)
		}
	}
	return out
}

// SortTransactions returns a sorted copy of txs. Newest and oldest order by
// date with larger amounts first on equal dates; biggest and smallest order
// by amount alone. Equal keys keep their original relative order.
func SortTransactions(txs []Transaction, order SortOrder) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)

	switch order {
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date > out[j].Date
			}
			return out[i].Amount > out[j].Amount
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Date != out[j].Date {
				return out[i].Date < out[j].Date
			}
			return out[i].Amount > out[j].Amount
		})
	case SortBiggest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount > out[j].Amount
		})
	case SortSmallest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Amount < out[j].Amount
		})
	}
	return out
}

// Summarize totals the given month's transactions. Integer arithmetic only.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			s.Income += tx.Amount
		case Expense:
			s.Expense += tx.Amount
		}
	}
	s.Balance = s.Income - s.Expense
	return s
}

// CategoryTotals sums expense amounts per category, ordered by descending
// total. Categories with equal totals keep encounter order.
func CategoryTotals(txs []Transaction) []CategoryAmount {
	totals := map[Category]Money{}
	var order []Category
	for _, tx := range txs {
		if tx.Type != Expense {
			continue
		}
		if _, ok := totals[tx.Category]; !ok {
			order = append(order, tx.Category)
		}
		totals[tx.Category] += tx.Amount
	}

	out := make([]CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, CategoryAmount{Category: c, Amount: totals[c]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount > out[j].Amount
	})
	return out
}
