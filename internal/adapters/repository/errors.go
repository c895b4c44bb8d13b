package repository

import "errors"

// Sentinel kinds for survey store errors.
var (
	ErrNotFound     = errors.New("survey not found")
	ErrInvalidLimit = errors.New("invalid list limit")
)
