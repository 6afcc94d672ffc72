package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already stored")
	ErrInvalidRecord = errors.New("invalid record")
	ErrInvalidLimit  = errors.New("invalid standings limit")
	ErrJobFinished   = errors.New("job already finished")
)
