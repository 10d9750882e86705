package service

import "errors"

var (
	// ErrNotFound means the requested product, brand or company has no records.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned before any work is done on a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)
