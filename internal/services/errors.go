package services

import "errors"

// Sentinel errors handlers translate to HTTP statuses. Store and network
// failures are returned wrapped and end up as 5xx result envelopes; these
// are the domain outcomes.
var (
	ErrNotAuthenticated = errors.New("authentication required")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidStatus    = errors.New("invalid ticket status")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
)
