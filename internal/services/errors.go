package services

import "errors"

// Sentinel errors matched with errors.Is at the handler boundary and
// translated to HTTP statuses there. Anything else coming out of a service
// is a store or runtime failure and surfaces as a generic 500.
var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrGameNotFound       = errors.New("game not found")
	ErrBookNotFound       = errors.New("book not found")
	ErrCommunityNotFound  = errors.New("community not found")
	ErrLoanNotFound       = errors.New("loan request not found")
	ErrNoGamesFound       = errors.New("no games found")
	ErrAlreadyLent        = errors.New("game already in lending library")
	ErrAlreadyResponded   = errors.New("loan request already responded to")
	ErrNotAllowed         = errors.New("operation not permitted")
)
