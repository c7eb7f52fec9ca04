package repository

import "errors"

var (
	// ErrClosed is returned when the store has been cleaned up
	ErrClosed = errors.New("store closed")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)
