package repository

import "errors"

// Sentinel kinds for schedule errors.
var (
	ErrNotFound     = errors.New("workout not found")
	ErrInvalidLimit = errors.New("invalid schedule limit")
)
