// Package kv defines the port for the persistent key-value collaborator
// that holds the application state blob.
package kv

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound reports that a key has never been written.
var ErrNotFound = errors.New("key not found")

// Store is the outbound port for state persistence. Implementations must be
// safe for use from a single session; cross-process sharing of the same key
// is out of scope.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	Close() error
}

// UnavailableError reports that the backing store could not serve an
// operation. Callers treat it as non-fatal: reads fall back to the default
// state, writes abort the mutation and leave prior state untouched.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}
