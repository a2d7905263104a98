package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"shygyn/internal/core"
	"shygyn/internal/kv/memory"
	"shygyn/internal/services"
	"shygyn/internal/store"
)

func newTestServer(t *testing.T) (*Server, *services.Tracker) {
	t.Helper()
	tracker := services.NewTracker(context.Background(), store.New(memory.New()),
		services.WithClock(func() time.Time {
			return time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
		}))
	return NewServer("127.0.0.1:0", tracker, Options{RateLimitPerMinute: 1000}), tracker
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler.ServeHTTP(rec, req)
	return rec
}

func submitForm(title, amount, category, date string) url.Values {
	return url.Values{
		"type":     {"expense"},
		"title":    {title},
		"amount":   {amount},
		"category": {category},
		"date":     {date},
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := get(t, s, path); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
}

func TestIndexPage(t *testing.T) {
	s, _ := newTestServer(t)

	rec := get(t, s, "/")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET / = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Shygyn Detector", "hx-post=\"/transactions\"", "state:changed"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}

	if rec := get(t, s, "/no-such-page"); rec.Code != http.StatusNotFound {
		t.Errorf("GET /no-such-page = %d, want 404", rec.Code)
	}
}

func TestSubmitTransaction(t *testing.T) {
	s, tracker := newTestServer(t)

	t.Run("rejects GET", func(t *testing.T) {
		rec := get(t, s, "/transactions")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET /transactions = %d, want 405", rec.Code)
		}
		if got := rec.Header().Get("Allow"); got != http.MethodPost {
			t.Errorf("Allow = %q, want POST", got)
		}
	})

	t.Run("rejects invalid fields", func(t *testing.T) {
		tests := []struct {
			name string
			form url.Values
		}{
			{"amount not a number", submitForm("Coffee", "lots", "Coffee/tea", "2026-02-10")},
			{"zero amount", submitForm("Coffee", "0", "Coffee/tea", "2026-02-10")},
			{"empty title", submitForm("   ", "500", "Coffee/tea", "2026-02-10")},
			{"bad date", submitForm("Coffee", "500", "Coffee/tea", "tomorrow")},
			{"bad category", submitForm("Coffee", "500", "Fun stuff", "2026-02-10")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rec := postForm(t, s, "/transactions", tt.form)
				if rec.Code != http.StatusUnprocessableEntity {
					t.Errorf("status = %d, want 422", rec.Code)
				}
				if !strings.Contains(rec.Body.String(), `class="error"`) {
					t.Errorf("body = %q, want an error fragment", rec.Body.String())
				}
			})
		}
		if got := len(tracker.FilteredList()); got != 0 {
			t.Errorf("rejected submissions changed state: %d records", got)
		}
	})

	t.Run("records a valid expense", func(t *testing.T) {
		rec := postForm(t, s, "/transactions", submitForm("Coffee", "1600", "Coffee/tea", "2026-02-10"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body %q", rec.Code, rec.Body.String())
		}
		trigger := rec.Header().Get("HX-Trigger")
		if !strings.Contains(trigger, "state:changed") || !strings.Contains(trigger, "transaction:created") {
			t.Errorf("HX-Trigger = %q, want state:changed and transaction:created", trigger)
		}
		if !strings.Contains(rec.Body.String(), "1 600 ₸") {
			t.Errorf("body = %q, want the formatted amount", rec.Body.String())
		}
		if got := len(tracker.FilteredList()); got != 1 {
			t.Errorf("tracker holds %d records, want 1", got)
		}
	})

	t.Run("rounds fractional amounts", func(t *testing.T) {
		rec := postForm(t, s, "/transactions", submitForm("Taxi", "1499.6", "Transport", "2026-02-11"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		list := tracker.FilteredList()
		var taxi core.Money
		for _, tx := range list {
			if tx.Title == "Taxi" {
				taxi = tx.Amount
			}
		}
		if taxi != 1500 {
			t.Errorf("Taxi amount = %d, want 1500", taxi)
		}
	})

	t.Run("escapes the title in the fragment", func(t *testing.T) {
		rec := postForm(t, s, "/transactions", submitForm("<script>alert(1)</script>", "500", "Other", "2026-02-12"))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "<script>") {
			t.Errorf("body leaked raw markup: %q", rec.Body.String())
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	s, tracker := newTestServer(t)
	tx, err := tracker.SubmitTransaction(context.Background(), core.TransactionFields{
		Type: core.Expense, Title: "Coffee", Amount: 1600,
		Category: core.CategoryCoffee, Date: "2026-02-10",
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}

	t.Run("requires an id", func(t *testing.T) {
		rec := postForm(t, s, "/transactions/delete", url.Values{})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("deletes by id", func(t *testing.T) {
		rec := postForm(t, s, "/transactions/delete", url.Values{"id": {tx.ID}})
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if !strings.Contains(rec.Header().Get("HX-Trigger"), "transaction:deleted") {
			t.Errorf("HX-Trigger = %q, want transaction:deleted", rec.Header().Get("HX-Trigger"))
		}
		if got := len(tracker.FilteredList()); got != 0 {
			t.Errorf("tracker holds %d records after delete, want 0", got)
		}
	})

	t.Run("unknown id still succeeds", func(t *testing.T) {
		rec := postForm(t, s, "/transactions/delete", url.Values{"id": {"gone"}})
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}

func TestChangeFilter(t *testing.T) {
	s, tracker := newTestServer(t)

	rec := postForm(t, s, "/filters", url.Values{"kind": {"type"}, "value": {"income"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := tracker.Filters().Type; got != core.TypeIncome {
		t.Errorf("type filter = %q, want income", got)
	}

	rec = postForm(t, s, "/filters", url.Values{"kind": {"sort"}, "value": {"sideways"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad sort value status = %d, want 400", rec.Code)
	}

	rec = postForm(t, s, "/filters", url.Values{"kind": {"color"}, "value": {"red"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad kind status = %d, want 400", rec.Code)
	}
}

func TestToggleModeAndReset(t *testing.T) {
	s, tracker := newTestServer(t)

	rec := postForm(t, s, "/mode", url.Values{"enabled": {"on"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /mode = %d, want 200", rec.Code)
	}
	if !tracker.DisplayMode() {
		t.Error("mode should be enabled after POST /mode enabled=on")
	}

	// Absent checkbox value means off.
	rec = postForm(t, s, "/mode", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /mode = %d, want 200", rec.Code)
	}
	if tracker.DisplayMode() {
		t.Error("mode should be disabled after POST /mode without enabled")
	}

	if _, err := tracker.SubmitTransaction(context.Background(), core.TransactionFields{
		Type: core.Expense, Title: "Coffee", Amount: 1600,
		Category: core.CategoryCoffee, Date: "2026-02-10",
	}); err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
	rec = postForm(t, s, "/reset", url.Values{})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /reset = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("HX-Trigger"), "state:reset") {
		t.Errorf("HX-Trigger = %q, want state:reset", rec.Header().Get("HX-Trigger"))
	}
	if got := len(tracker.FilteredList()); got != 0 {
		t.Errorf("tracker holds %d records after reset, want 0", got)
	}
	if tracker.DisplayMode() {
		t.Error("reset should preserve the disabled mode")
	}
}

func TestPartials(t *testing.T) {
	s, tracker := newTestServer(t)
	ctx := context.Background()
	seed := []core.TransactionFields{
		{Type: core.Expense, Title: "Coffee", Amount: 16000, Category: core.CategoryCoffee, Date: "2026-02-10"},
		{Type: core.Expense, Title: "Tea", Amount: 1000, Category: core.CategoryCoffee, Date: "2026-02-12"},
		{Type: core.Income, Title: "Salary", Amount: 250000, Category: core.CategorySalary, Date: "2026-02-01"},
	}
	for _, f := range seed {
		if _, err := tracker.SubmitTransaction(ctx, f); err != nil {
			t.Fatalf("seed %s: %v", f.Title, err)
		}
	}

	tests := []struct {
		path string
		want string
	}{
		{"/ui/summary", "250 000 ₸"},
		{"/ui/transactions", "Coffee"},
		{"/ui/categories", "Coffee/tea"},
		{"/ui/advice", "17 000 ₸"},
		{"/ui/months", "2026-02"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("GET %s = %d, want 200", tt.path, rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("GET %s body missing %q:\n%s", tt.path, tt.want, rec.Body.String())
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	tracker := services.NewTracker(context.Background(), store.New(memory.New()))
	s := NewServer("127.0.0.1:0", tracker, Options{RateLimitPerMinute: 2})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = postForm(t, s, "/mode", url.Values{"enabled": {"on"}})
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("third POST = %d, want 429", last.Code)
	}
	if got := last.Header().Get("Retry-After"); got != "60" {
		t.Errorf("Retry-After = %q, want 60", got)
	}

	// GETs are never limited.
	if rec := get(t, s, "/"); rec.Code != http.StatusOK {
		t.Errorf("GET / under rate limit = %d, want 200", rec.Code)
	}
}
