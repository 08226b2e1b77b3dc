package repository

import "errors"

// ErrNotFound is returned when a lookup matches no document. Callers use
// errors.Is to tell "absent" apart from a real store failure.
var ErrNotFound = errors.New("document not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate document")
