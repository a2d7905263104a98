// Package store persists the application state over the kv port.
package store

import (
	"context"
	"errors"
	"log/slog"

	"shygyn/internal/core"
	"shygyn/internal/kv"
	applog "shygyn/internal/log"
)

// StateKey is the fixed key the whole state blob lives under.
const StateKey = "shygyn_detector_v1"

type Store struct {
	kv kv.Store
}

func New(backend kv.Store) *Store {
	return &Store{kv: backend}
}

// Load reads the persisted state. A missing key, an unavailable backend, or
// a corrupt payload all yield the default state; corruption is logged but
// never surfaced to the caller.
func (s *Store) Load(ctx context.Context) core.AppState {
	raw, err := s.kv.Get(ctx, StateKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			slog.InfoContext(ctx, "No persisted state, starting fresh", applog.FieldStateKey, StateKey)
		} else {
			slog.WarnContext(ctx, "State read failed, falling back to default",
				applog.FieldStateKey, StateKey, applog.FieldError, err)
		}
		return core.DefaultState()
	}

	state, err := DecodeState(raw)
	if err != nil {
		slog.WarnContext(ctx, "Persisted state unreadable, falling back to default",
			applog.FieldStateKey, StateKey, "bytes", len(raw), applog.FieldError, err)
		return core.DefaultState()
	}
	return state
}

// Save serializes and writes the state. Failures surface as
// *kv.UnavailableError so the caller can abort the mutation.
func (s *Store) Save(ctx context.Context, state core.AppState) error {
	raw, err := EncodeState(state)
	if err != nil {
		return err
	}
	return s.kv.Put(ctx, StateKey, raw)
}

func (s *Store) Close() error {
	return s.kv.Close()
}
