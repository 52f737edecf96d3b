package rating

import "errors"

// Sentinel error kinds for this package.
var (
	ErrEmptyTeam = errors.New("team has no players")
)
