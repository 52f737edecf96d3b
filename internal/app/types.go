package service

import (
	"github.com/okian/rondo/internal/domain/league"
	"github.com/okian/rondo/internal/domain/model"
)

// NewGame describes a game the service just created or reshaped: the two
// rosters, the predicted match quality, and whether the quality fell
// below the configured warning threshold.
type NewGame struct {
	ID         int64
	TeamA      []model.PlayerID
	TeamB      []model.PlayerID
	Quality    float64
	LowQuality bool
}

// QueueInfo is a point-in-time view of the queue.
type QueueInfo struct {
	Members  []model.PlayerID
	TeamSize int
	Capacity int
	Frozen   bool
}

// LeaderboardPage is one page of the rating listing.
type LeaderboardPage struct {
	Page         int
	TotalPages   int
	TotalPlayers int
	Entries      []league.Entry
}

// PlayerView is the full rating state of one player.
type PlayerView struct {
	ID      model.PlayerID
	Rating  float64
	Mean    float64
	Spread  float64
	Wins    int
	Losses  int
	Draws   int
	Tier    league.Tier
	History []league.HistoryPoint
}

// GameView is a stored game plus, for decided games, the conservative
// rating change each tracked participant took from it.
type GameView struct {
	Game          model.Game
	RatingChanges map[model.PlayerID]float64
}
