// Package services orchestrates state mutations and month-view reads for
// the presentation layer.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"shygyn/internal/advice"
	"shygyn/internal/cache"
	"shygyn/internal/core"
	applog "shygyn/internal/log"
	"shygyn/internal/store"
)

// CurrentMonthSentinel is the session filter value meaning "whatever month
// it is right now".
const CurrentMonthSentinel = "current"

// Filter kinds accepted by ChangeFilter.
const (
	FilterMonth = "month"
	FilterType  = "type"
	FilterSort  = "sort"
)

type (
	// Filters holds the session-scoped view selections. They are never
	// persisted; a restart falls back to the defaults.
	Filters struct {
		Month string
		Type  core.TypeFilter
		Sort  core.SortOrder
	}

	// monthView bundles everything derived from one month's transactions.
	monthView struct {
		Summary core.Summary
		Totals  []core.CategoryAmount
		Advice  string
	}

	// Tracker owns the in-memory state and serializes every operation.
	// Each user action is one complete mutate -> persist -> recompute run.
	Tracker struct {
		mu      sync.Mutex
		store   *store.Store
		state   core.AppState
		filters Filters
		views   *cache.LRUCache[monthView]
		now     func() time.Time
	}

	Option func(*Tracker)
)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithViewCache replaces the default month-view cache.
func WithViewCache(c *cache.LRUCache[monthView]) Option {
	return func(t *Tracker) { t.views = c }
}

// NewViewCache builds a cache suitable for WithViewCache and for
// registration with a cache.Manager.
func NewViewCache(maxEntries int, ttl time.Duration) *cache.LRUCache[monthView] {
	return cache.NewLRUCache[monthView](maxEntries, ttl)
}

func DefaultFilters() Filters {
	return Filters{Month: CurrentMonthSentinel, Type: core.TypeAll, Sort: core.SortNewest}
}

// NewTracker loads the persisted state and returns a ready tracker.
func NewTracker(ctx context.Context, st *store.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:   st,
		filters: DefaultFilters(),
		views:   NewViewCache(24, 5*time.Minute),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = st.Load(ctx)
	slog.InfoContext(ctx, "Tracker initialized",
		"transactions", len(t.state.Transactions),
		"display_mode", t.state.DisplayMode)
	return t
}

// ViewCache exposes the month-view cache for cleanup registration.
func (t *Tracker) ViewCache() cache.Cleaner {
	return t.views
}

// apply persists next and only then commits it in memory, so a failed save
// leaves the previous state current.
func (t *Tracker) apply(ctx context.Context, op string, next core.AppState) error {
	if err := t.store.Save(ctx, next); err != nil {
		slog.ErrorContext(ctx, "State save failed, mutation discarded",
			applog.FieldOperation, op, applog.FieldError, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	t.state = next
	t.views.Purge()
	return nil
}

// SubmitTransaction validates the fields, appends a new record, and
// persists. On validation failure the state is untouched and the error is a
// *core.ValidationError naming the field.
func (t *Tracker) SubmitTransaction(ctx context.Context, fields core.TransactionFields) (core.Transaction, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := core.NewTransaction(fields)
	if err != nil {
		return core.Transaction{}, err
	}
	if err := t.apply(ctx, "submit transaction", t.state.WithTransaction(tx)); err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Transaction recorded",
		applog.FieldTransactionID, tx.ID,
		"type", tx.Type,
		applog.FieldAmount, int64(tx.Amount),
		applog.FieldCategory, tx.Category,
		applog.FieldMonth, tx.Date.MonthKey())
	return tx, nil
}

// DeleteTransaction removes the record by id. An unknown id is a no-op that
// still reports success.
func (t *Tracker) DeleteTransaction(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := t.state.WithoutTransaction(id)
	if len(next.Transactions) == len(t.state.Transactions) {
		slog.DebugContext(ctx, "Delete for unknown transaction id", applog.FieldTransactionID, id)
		return nil
	}
	if err := t.apply(ctx, "delete transaction", next); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction deleted", applog.FieldTransactionID, id)
	return nil
}

// ResetAll clears every transaction, preserving the display mode.
func (t *Tracker) ResetAll(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.apply(ctx, "reset", t.state.Cleared()); err != nil {
		return err
	}
	slog.InfoContext(ctx, "All transactions cleared", "display_mode", t.state.DisplayMode)
	return nil
}

// ToggleDisplayMode sets the advice tone flag and persists.
func (t *Tracker) ToggleDisplayMode(ctx context.Context, flag bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.apply(ctx, "set display mode", t.state.WithDisplayMode(flag)); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Display mode changed", "display_mode", flag)
	return nil
}

// ChangeFilter updates one session filter. Filter changes touch no
// persisted state.
func (t *Tracker) ChangeFilter(kind, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch kind {
	case FilterMonth:
		if value == "" {
			value = CurrentMonthSentinel
		}
		t.filters.Month = value
	case FilterType:
		f := core.TypeFilter(value)
		if !f.IsValid() {
			return fmt.Errorf("unknown type filter %q", value)
		}
		t.filters.Type = f
	case FilterSort:
		o := core.SortOrder(value)
		if !o.IsValid() {
			return fmt.Errorf("unknown sort order %q", value)
		}
		t.filters.Sort = o
	default:
		return fmt.Errorf("unknown filter kind %q", kind)
	}
	return nil
}

// Filters returns the current session selections.
func (t *Tracker) Filters() Filters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.filters
}

// DisplayMode reports the current advice tone flag.
func (t *Tracker) DisplayMode() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.DisplayMode
}

// ActiveMonth resolves the month filter, mapping the sentinel to the
// current calendar month.
func (t *Tracker) ActiveMonth() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activeMonthLocked()
}

func (t *Tracker) activeMonthLocked() string {
	if t.filters.Month == CurrentMonthSentinel {
		return core.CurrentMonthKey(t.now())
	}
	return t.filters.Month
}

// AvailableMonths lists every month present in the data plus the current
// one, newest first.
func (t *Tracker) AvailableMonths() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return core.MonthKeys(t.state.Transactions, t.now())
}

// FilteredList returns the active month's transactions narrowed by the type
// filter and ordered by the sort selection.
func (t *Tracker) FilteredList() []core.Transaction {
	t.mu.Lock()
	defer t.mu.Unlock()

	list := core.FilterByMonth(t.state.Transactions, t.activeMonthLocked())
	list = core.FilterByType(list, t.filters.Type)
	return core.SortTransactions(list, t.filters.Sort)
}

// Summary returns the active month's totals.
func (t *Tracker) Summary() core.Summary {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.monthViewLocked().Summary
}

// CategoryTotals returns the active month's expense breakdown.
func (t *Tracker) CategoryTotals() []core.CategoryAmount {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.monthViewLocked().Totals
}

// AdviceMessage returns the advice line for the active month in the
// current tone.
func (t *Tracker) AdviceMessage() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.monthViewLocked().Advice
}

// monthViewLocked computes (or recalls) every derivation of the active
// month in one pass. The cache key includes the tone flag because advice
// text depends on it.
func (t *Tracker) monthViewLocked() monthView {
	month := t.activeMonthLocked()
	key := fmt.Sprintf("%s|%t", month, t.state.DisplayMode)
	if v, ok := t.views.Get(key); ok {
		return v
	}

	monthTxs := core.FilterByMonth(t.state.Transactions, month)
	v := monthView{
		Summary: core.Summarize(monthTxs),
		Totals:  core.CategoryTotals(monthTxs),
		Advice:  advice.Generate(monthTxs, t.state.DisplayMode),
	}
	t.views.Set(key, v)
	return v
}

// Close releases the underlying storage.
func (t *Tracker) Close() error {
	return t.store.Close()
}
