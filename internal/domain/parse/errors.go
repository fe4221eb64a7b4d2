package parse

import "errors"

// Sentinel kinds for parse errors.
var (
	ErrShortLine  = errors.New("attribute line too short")
	ErrBadQuoting = errors.New("malformed attribute line")
	ErrEmptyID    = errors.New("empty record id")
	ErrShortRow   = errors.New("score row too short")
	ErrBadScore   = errors.New("score is not an integer")
)
