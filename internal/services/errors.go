package services

import "errors"

// Sentinel errors the handler layer maps onto envelope error codes and HTTP
// statuses. Services wrap these with context via fmt.Errorf("...: %w", ...).
var (
	ErrNotFound         = errors.New("not found")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotAuthenticated = errors.New("authentication required")
	ErrInvalidSession   = errors.New("invalid session")
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("already exists")
	ErrNotImplemented   = errors.New("not implemented")
)
