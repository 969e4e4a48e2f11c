package database

import "errors"

var (
	// ErrNotFound is returned when no document matches.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate document")
	// ErrStatusConflict is returned when a conditional status update matched nothing,
	// either because the document is gone or because its status already moved on.
	ErrStatusConflict = errors.New("status changed concurrently")
)
