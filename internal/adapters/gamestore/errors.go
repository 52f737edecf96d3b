package gamestore

import "errors"

// Sentinel error kinds for this package.
var (
	ErrGameNotFound     = errors.New("game not found")
	ErrStoreUnavailable = errors.New("game store request failed")
	ErrMalformedRecord  = errors.New("malformed game record")
)
