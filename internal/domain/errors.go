package domain

import "errors"

var (
	ErrNotFound   = errors.New("review: not found")
	ErrValidation = errors.New("review: validation failed")
)
