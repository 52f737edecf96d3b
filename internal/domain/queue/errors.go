package queue

import "errors"

// Sentinel error kinds for this package.
var (
	ErrAlreadyQueued   = errors.New("player is already in the queue")
	ErrNotQueued       = errors.New("player is not in the queue")
	ErrInvalidTeamSize = errors.New("team size must be at least 1")
)
