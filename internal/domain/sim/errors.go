package sim

import "errors"

// Sentinel kinds for simulation errors.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
