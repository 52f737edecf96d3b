package league

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNonMonotonicGameLog = errors.New("game log ids are not strictly increasing")
	ErrInvalidOutcome      = errors.New("game outcome does not affect ratings")
	ErrNoTierConfigured    = errors.New("no rank tier configured")
	ErrTierOrder           = errors.New("rank tier bounds must ascend")
)
