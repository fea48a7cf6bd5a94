// Package store persists the ordered sequence of notes.
//
// The default backend is a single pretty-printed JSON file. SQL backends keep
// the same contract for larger note counts.
package store

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrFileMissing means the backing file has never been written.
	ErrFileMissing = errors.New("store file not found")
	// ErrNotFound means no note carries the requested id.
	ErrNotFound = errors.New("note not found")
	// ErrConflict means a note with the same id is already stored.
	ErrConflict = errors.New("note id already exists")
	// ErrMalformedStore matches any *MalformedStoreError via errors.Is.
	ErrMalformedStore = errors.New("malformed store")
)

// MalformedStoreError reports a backing file that exists but does not decode
// as a list of notes.
type MalformedStoreError struct {
	Path string
	Err  error
}

func (e *MalformedStoreError) Error() string {
	return fmt.Sprintf("malformed store %s: %v", e.Path, e.Err)
}

func (e *MalformedStoreError) Unwrap() error { return e.Err }

func (e *MalformedStoreError) Is(target error) bool { return target == ErrMalformedStore }

// Store is the note persistence contract shared by every backend.
type Store interface {
	// LoadAll returns every note in insertion order. A store that was never
	// written is empty, not an error.
	LoadAll(ctx context.Context) ([]Note, error)
	// Get returns the first note with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (Note, error)
	// Append adds note at the end. It fails with ErrConflict when the id is taken.
	Append(ctx context.Context, note Note) error
	// RemoveByID deletes every note with the given id and reports whether any
	// was removed. The file backend returns ErrFileMissing when it was never written.
	RemoveByID(ctx context.Context, id string) (bool, error)
	Close() error
}
