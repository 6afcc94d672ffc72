package model

import "errors"

// ErrInvalidRequest marks a request that is malformed before any team or
// tactic is looked up.
var ErrInvalidRequest = errors.New("invalid request")
