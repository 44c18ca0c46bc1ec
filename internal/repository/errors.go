package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrCorruptState is returned when a stored session record cannot be decoded.
	ErrCorruptState = errors.New("stored session state is corrupt")
)
