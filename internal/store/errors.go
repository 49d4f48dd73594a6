package store

import "errors"

// ErrNotFound is returned when a record does not exist or is not visible to
// the caller. Ownership misses map to the same error so that a goal owned by
// someone else is indistinguishable from a missing one.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when an insert violates the unique
// constraint on users.email.
var ErrDuplicateEmail = errors.New("email already registered")
