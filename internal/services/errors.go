package services

import "errors"

// Comparison service errors
var (
	ErrNoDocuments  = errors.New("no documents supplied")
	ErrTooManyFiles = errors.New("too many files")
)
