// Package league rebuilds per-player state from the full ordered game log
// and classifies ratings into rank tiers.
//
// Player state is a derived view: it is never persisted and is discarded
// and rebuilt on every refresh. Determinism comes from replaying the log
// strictly in creation order, so there is exactly one valid snapshot per
// log prefix.
package league

import (
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/rating"
)

// HistoryPoint records a player's conservative rating right after a game.
type HistoryPoint struct {
	GameID int64
	Rating float64
}

// Player is the materialized rating state of one player.
type Player struct {
	ID     model.PlayerID
	Belief rating.Belief
	Wins   int
	Losses int
	Draws  int
	// History is append-only and ascending by GameID.
	History []HistoryPoint
}

// Games returns the number of decided games the player took part in.
func (p *Player) Games() int {
	return p.Wins + p.Losses + p.Draws
}

// RatingChange returns the difference between the player's conservative
// rating immediately after gameID and immediately before it. History entries
// are bracketed by the largest recorded id at or below the target; when
// fewer than two qualify, the before-value is the default new-player rating.
func (s *Snapshot) RatingChange(p *Player, gameID int64) float64 {
	before := s.env.Rating(s.env.NewBelief())
	after := before
	for _, h := range p.History {
		if h.GameID > gameID {
			break
		}
		before = after
		after = h.Rating
	}
	return after - before
}
