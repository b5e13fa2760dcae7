package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a query matches no rows.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")

	// User inserts report which unique constraint fired so the conflict
	// message stays accurate when the check-then-insert race is lost.
	ErrDuplicateUsername = fmt.Errorf("username: %w", ErrDuplicate)
	ErrDuplicateEmail    = fmt.Errorf("email: %w", ErrDuplicate)
)
