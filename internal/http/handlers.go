package http

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shygyn/internal/core"
	applog "shygyn/internal/log"
	"shygyn/internal/services"
)

// Tracker is the inbound port the UI drives. services.Tracker implements it.
type Tracker interface {
	SubmitTransaction(ctx context.Context, fields core.TransactionFields) (core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
	ChangeFilter(kind, value string) error
	ToggleDisplayMode(ctx context.Context, flag bool) error
	ResetAll(ctx context.Context) error

	Summary() core.Summary
	FilteredList() []core.Transaction
	CategoryTotals() []core.CategoryAmount
	AdviceMessage() string
	AvailableMonths() []string
	ActiveMonth() string
	Filters() services.Filters
	DisplayMode() bool
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "path", r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	filters := s.tracker.Filters()
	data := struct {
		Today        core.Date
		Categories   []core.Category
		DisplayMode  bool
		TypeFilter   string
		SortOrder    string
		Months       []monthOption
		Summary      summaryView
		Transactions []transactionRow
		CatRows      []categoryRow
		Advice       string
	}{
		Today:        core.Today(time.Now()),
		Categories:   core.Categories(),
		DisplayMode:  s.tracker.DisplayMode(),
		TypeFilter:   string(filters.Type),
		SortOrder:    string(filters.Sort),
		Months:       s.monthOptions(),
		Summary:      newSummaryView(s.tracker.Summary()),
		Transactions: newTransactionRows(s.tracker.FilteredList()),
		CatRows:      newCategoryRows(s.tracker.CategoryTotals()),
		Advice:       s.tracker.AdviceMessage(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		slog.ErrorContext(r.Context(), "Index template execution failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleSubmitTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		slog.ErrorContext(r.Context(), "Parse form error", "error", err, "path", r.URL.Path)
		BadRequestError("Invalid request format").Write(w)
		return
	}

	fields, verr := parseTransactionForm(r)
	if verr != nil {
		UnprocessableEntityError(verr.Error()).Write(w)
		return
	}

	tx, err := s.tracker.SubmitTransaction(r.Context(), fields)
	if err != nil {
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			UnprocessableEntityError(ve.Error()).Write(w)
			return
		}
		slog.ErrorContext(r.Context(), "Submit transaction error", applog.FieldError, err,
			applog.FieldTitle, fields.Title, applog.FieldAmount, int64(fields.Amount))
		InternalServerError("Could not save the record, nothing was changed").Write(w)
		return
	}

	sign := "+"
	if tx.Type == core.Expense {
		sign = "-"
	}
	NewHTMXResponse().
		TriggerTransactionCreated(tx.Date.MonthKey()).
		BodyHTML(`<div class="success">Recorded: ` +
			template.HTMLEscapeString(tx.Title) + ` ` + sign + tx.Amount.Format() + `</div>`).
		Write(w)
}

// parseTransactionForm turns raw form values into TransactionFields,
// reporting the first bad field the same way creation-time validation does.
func parseTransactionForm(r *http.Request) (core.TransactionFields, *core.ValidationError) {
	amountStr := strings.TrimSpace(r.Form.Get("amount"))
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return core.TransactionFields{}, &core.ValidationError{Field: "amount", Reason: "must be a number"}
	}

	return core.TransactionFields{
		Type:     core.TransactionType(strings.TrimSpace(r.Form.Get("type"))),
		Title:    sanitizeInput(r.Form.Get("title")),
		Amount:   core.Money(math.Round(amount)),
		Category: core.Category(strings.TrimSpace(r.Form.Get("category"))),
		Date:     core.Date(strings.TrimSpace(r.Form.Get("date"))),
	}, nil
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	id := strings.TrimSpace(r.Form.Get("id"))
	if id == "" {
		BadRequestError("Missing transaction id").Write(w)
		return
	}

	if err := s.tracker.DeleteTransaction(r.Context(), id); err != nil {
		slog.ErrorContext(r.Context(), "Delete transaction error", applog.FieldError, err, applog.FieldTransactionID, id)
		InternalServerError("Could not delete the record, nothing was changed").Write(w)
		return
	}

	NewHTMXResponse().TriggerTransactionDeleted(id).Write(w)
}

func (s *Server) handleChangeFilter(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	kind := strings.TrimSpace(r.Form.Get("kind"))
	value := strings.TrimSpace(r.Form.Get("value"))
	if err := s.tracker.ChangeFilter(kind, value); err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}

	NewHTMXResponse().TriggerFiltersChanged().Write(w)
}

func (s *Server) handleToggleMode(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		BadRequestError("Invalid request format").Write(w)
		return
	}

	enabled := formBool(r.Form.Get("enabled"))
	if err := s.tracker.ToggleDisplayMode(r.Context(), enabled); err != nil {
		slog.ErrorContext(r.Context(), "Toggle mode error", "error", err, "enabled", enabled)
		InternalServerError("Could not change the mode").Write(w)
		return
	}

	NewHTMXResponse().TriggerModeChanged(enabled).Write(w)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	if err := s.tracker.ResetAll(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Reset error", "error", err)
		InternalServerError("Could not clear the records").Write(w)
		return
	}

	NewHTMXResponse().TriggerReset().Write(w)
}

// formBool interprets checkbox-ish form values.
func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// sanitizeInput trims whitespace and strips control characters except tab,
// newline, carriage return.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
