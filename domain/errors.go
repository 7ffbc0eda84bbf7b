package domain

import "errors"

var (
	// ErrNotFound marks lookups of unknown tests, ads, brands or products.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks rejected arguments: unknown channel names,
	// negative counters, traffic splits outside (0,1).
	ErrInvalidInput = errors.New("invalid input")
)
