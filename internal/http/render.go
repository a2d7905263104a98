package http

import (
	"log/slog"
	"net/http"
	"time"

	"shygyn/internal/core"
	"shygyn/internal/services"
)

type (
	summaryView struct {
		Income   string
		Expense  string
		Balance  string
		Negative bool
	}

	transactionRow struct {
		ID        string
		Title     string
		Type      core.TransactionType
		IsExpense bool
		Sign      string
		Amount    string
		Category  core.Category
		Date      core.Date
	}

	categoryRow struct {
		Name   core.Category
		Amount string
		// Width is the bar length as a percent of the largest category.
		Width int
	}

	monthOption struct {
		Value    string
		Label    string
		Selected bool
	}
)

func newSummaryView(s core.Summary) summaryView {
	return summaryView{
		Income:   s.Income.Format(),
		Expense:  s.Expense.Format(),
		Balance:  s.Balance.Format(),
		Negative: s.Balance < 0,
	}
}

func newTransactionRows(txs []core.Transaction) []transactionRow {
	rows := make([]transactionRow, 0, len(txs))
	for _, tx := range txs {
		sign := "+"
		if tx.Type == core.Expense {
			sign = "-"
		}
		rows = append(rows, transactionRow{
			ID:        tx.ID,
			Title:     tx.Title,
			Type:      tx.Type,
			IsExpense: tx.Type == core.Expense,
			Sign:      sign,
			Amount:    tx.Amount.Format(),
			Category:  tx.Category,
			Date:      tx.Date,
		})
	}
	return rows
}

func newCategoryRows(totals []core.CategoryAmount) []categoryRow {
	rows := make([]categoryRow, 0, len(totals))
	if len(totals) == 0 {
		return rows
	}
	max := totals[0].Amount
	for _, row := range totals {
		width := 0
		if max > 0 && row.Amount > 0 {
			width = int((int64(row.Amount)*100 + int64(max)/2) / int64(max))
			if width > 0 && width < 2 { // keep tiny bars visible
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		rows = append(rows, categoryRow{Name: row.Category, Amount: row.Amount.Format(), Width: width})
	}
	return rows
}

// monthLabel renders a month key for humans, e.g. "2026-02" -> "February 2026".
func monthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}

func (s *Server) monthOptions() []monthOption {
	filters := s.tracker.Filters()
	active := s.tracker.ActiveMonth()

	opts := []monthOption{{
		Value:    services.CurrentMonthSentinel,
		Label:    "This month: " + monthLabel(active),
		Selected: filters.Month == services.CurrentMonthSentinel,
	}}
	for _, m := range s.tracker.AvailableMonths() {
		opts = append(opts, monthOption{
			Value:    m,
			Label:    monthLabel(m),
			Selected: filters.Month == m,
		})
	}
	return opts
}

// renderPartial executes one template, logging failures and answering with a
// plain error fragment so the page never breaks outright.
func (s *Server) renderPartial(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		_, _ = w.Write([]byte(`<div class="error">UI unavailable</div>`))
		return
	}
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		slog.ErrorContext(r.Context(), "Template execution error", "error", err, "template", name)
		_, _ = w.Write([]byte(`<div class="error">Rendering failed</div>`))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "summary.html", newSummaryView(s.tracker.Summary()))
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "transactions.html", struct {
		Transactions []transactionRow
	}{newTransactionRows(s.tracker.FilteredList())})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "categories.html", struct {
		CatRows []categoryRow
	}{newCategoryRows(s.tracker.CategoryTotals())})
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "advice.html", struct {
		Advice string
	}{s.tracker.AdviceMessage()})
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	s.renderPartial(w, r, "months.html", struct {
		Months []monthOption
	}{s.monthOptions()})
}
