package model

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyRoster   = errors.New("game roster has an empty team")
	ErrRosterOverlap = errors.New("player appears on both teams")
	ErrUnknownResult = errors.New("unknown result code")
)
