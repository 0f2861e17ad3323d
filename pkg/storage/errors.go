package storage

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or belongs to
	// another tenant.
	ErrNotFound = errors.New("completion record not found")

	// ErrConflict is returned when a record with the same ID already exists.
	ErrConflict = errors.New("completion record already exists")
)
