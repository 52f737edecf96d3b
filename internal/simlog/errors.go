package simlog

import "errors"

// Sentinel error kinds for this package.
var (
	ErrPoolTooSmall = errors.New("player pool too small for the team size")
)
