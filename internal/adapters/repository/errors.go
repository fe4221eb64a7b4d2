package repository

import "errors"

// Sentinel kinds for store errors. Callers use errors.Is to tell absence
// apart from infrastructure failure.
var (
	ErrNotFound = errors.New("record not found")
	ErrConnect  = errors.New("store connection failed")
)
