// Package store provides durable client-side storage: a key to string slot
// store that survives process restarts.
package store

import (
	"context"
	"errors"
)

// ErrSlotNotFound is returned by Get when no value is stored under a key.
var ErrSlotNotFound = errors.New("slot not found")

// Store defines the durable slot storage interface.
type Store interface {
	// Get returns the value stored under key, or ErrSlotNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close closes the store.
	Close() error
}
