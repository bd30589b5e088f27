package crontab

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStoreRead is returned when the current table cannot be read.
	ErrStoreRead = errors.New("crontab store read failed")

	// ErrStoreWrite is returned when the store rejects the replacement table.
	ErrStoreWrite = errors.New("crontab store write failed")
)

// Store is the persistent home of a Table. It has no row-level primitives:
// the whole table is read and replaced at once.
type Store interface {
	// Load returns the current table. A store that does not exist yet
	// yields an empty table and no error.
	Load(ctx context.Context) (Table, error)

	// Save atomically replaces the store content with t.
	Save(ctx context.Context, t Table) error

	// Name identifies the backend in logs and messages.
	Name() string
}

// StoreError describes a failed store operation.
type StoreError struct {
	Op      string // "read" или "write"
	Backend string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Backend, e.Op, e.Err)
}

// Unwrap exposes both the operation sentinel and the underlying cause.
func (e *StoreError) Unwrap() []error {
	sentinel := ErrStoreRead
	if e.Op == "write" {
		sentinel = ErrStoreWrite
	}
	return []error{sentinel, e.Err}
}

func readError(backend string, err error) error {
	return &StoreError{Op: "read", Backend: backend, Err: err}
}

func writeError(backend string, err error) error {
	return &StoreError{Op: "write", Backend: backend, Err: err}
}
