// Package store persists named process documents.
//
// Three backends implement the same interface:
//   - file: JSON files under ~/.local/share/procflow (default, zero setup)
//   - redis: shared store for teams, entries under a common key prefix
//   - mongo: document store, one record per process
//
// Processes are keyed by name. Names are validated by the caller (see
// pkg/errors.ValidateProcessName) before they reach a backend.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no process with the given name exists.
var ErrNotFound = errors.New("process not found")

// Store is the interface for process persistence backends.
type Store interface {
	// Put saves a process document under its name, overwriting any
	// previous version.
	Put(ctx context.Context, name string, data []byte) error

	// Get retrieves a process document by name.
	// Returns ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns the names of all stored processes, sorted.
	List(ctx context.Context) ([]string, error)

	// Delete removes a stored process.
	// Returns ErrNotFound if it does not exist.
	Delete(ctx context.Context, name string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
