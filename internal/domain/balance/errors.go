package balance

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidQueueSize = errors.New("balancer needs a non-empty even number of players")
	ErrUnknownPlayer    = errors.New("override references a player outside the queue")
)
