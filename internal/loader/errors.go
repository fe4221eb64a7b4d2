package loader

import "errors"

// Sentinel kinds for loader errors.
var (
	ErrRead = errors.New("source read failed")
)
