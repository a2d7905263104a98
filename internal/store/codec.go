package store

import (
	"encoding/json"
	"fmt"

	"shygyn/internal/core"
)

// CorruptDataError reports a payload that could not be decoded into a
// well-shaped state. The store swallows it and substitutes the default
// state; keeping it a distinct type leaves a stricter policy one caller
// change away.
type CorruptDataError struct {
	Reason string
}

func (e *CorruptDataError) Error() string {
	return "corrupt persisted state: " + e.Reason
}

// persistedState is the wire shape of the state blob. Fields beyond the
// top-level shape are trusted as-is; per-record invariants are only checked
// at creation time.
type persistedState struct {
	DisplayMode  *bool              `json:"displayMode"`
	Transactions []core.Transaction `json:"transactions"`
}

// EncodeState serializes the state for storage.
func EncodeState(state core.AppState) ([]byte, error) {
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return raw, nil
}

// DecodeState validates the top-level shape and produces a typed state.
func DecodeState(raw []byte) (core.AppState, error) {
	var p persistedState
	if err := json.Unmarshal(raw, &p); err != nil {
		return core.AppState{}, &CorruptDataError{Reason: err.Error()}
	}
	if p.DisplayMode == nil {
		return core.AppState{}, &CorruptDataError{Reason: "missing displayMode"}
	}
	if p.Transactions == nil {
		return core.AppState{}, &CorruptDataError{Reason: "missing transactions"}
	}
	return core.AppState{
		DisplayMode:  *p.DisplayMode,
		Transactions: p.Transactions,
	}, nil
}
