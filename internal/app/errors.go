package service

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNoStore            = errors.New("no game store configured")
	ErrQueueFrozen        = errors.New("queue is frozen")
	ErrUnknownPlayer      = errors.New("player has no recorded games")
	ErrGameDecided        = errors.New("game is already decided")
	ErrNotParticipant     = errors.New("player is not in the game")
	ErrSameTeam           = errors.New("players are on the same team")
	ErrEstimateOutOfRange = errors.New("estimate outside the allowed range")
)
