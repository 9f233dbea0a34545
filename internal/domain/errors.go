package domain

import "errors"

// Error kinds returned by services. Callers match them with errors.Is.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAlreadySatisfied signals a no-op: the achievement was already active.
	ErrAlreadySatisfied = errors.New("already satisfied")
	ErrStoreFailure     = errors.New("store failure")
)
