package store

import "errors"

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateKey   = errors.New("already exists")
	// ErrStaleTransition means a conditional status update matched no row
	// because another writer got there first or the precondition never held.
	ErrStaleTransition = errors.New("stale job transition")
)
