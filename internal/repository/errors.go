package repository

import "errors"

// ErrNotFound is returned when a requested record is not found in the repository.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when an insert or update violates a uniqueness
// constraint, such as a second team for the same user.
var ErrDuplicate = errors.New("duplicate record")

// ErrInvalidTable is returned when attempting to clear a table that is not whitelisted.
var ErrInvalidTable = errors.New("invalid table name")
