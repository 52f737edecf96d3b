// Package gamestore is the HTTP client for the external game store, the
// sole source of truth for game records and id assignment.
package gamestore

import (
	"fmt"

	"github.com/okian/rondo/internal/domain/model"
)

// Wire team numbers.
const (
	wireTeam1 = 1
	wireTeam2 = 2
)

// playerEntry is one (player, team) pair of a stored game record.
type playerEntry struct {
	ID   string `json:"id"`
	Team int    `json:"team"`
}

// gameRecord mirrors the store schema: a set of (player, team) pairs plus
// an integer result code and optional id/timestamp. Decoding then encoding
// a record yields the same pairs and result code.
type gameRecord struct {
	Players  []playerEntry `json:"players"`
	Result   int           `json:"result"`
	ID       int64         `json:"id,omitempty"`
	DateTime string        `json:"dateTime,omitempty"`
}

// encodeGame converts a domain game to its wire record, team1 first so the
// display order survives the round trip.
func encodeGame(g model.Game) gameRecord {
	rec := gameRecord{
		Players:  make([]playerEntry, 0, len(g.Team1)+len(g.Team2)),
		Result:   int(g.Result),
		ID:       g.ID,
		DateTime: g.PlayedAt,
	}
	for _, id := range g.Team1 {
		rec.Players = append(rec.Players, playerEntry{ID: string(id), Team: wireTeam1})
	}
	for _, id := range g.Team2 {
		rec.Players = append(rec.Players, playerEntry{ID: string(id), Team: wireTeam2})
	}
	return rec
}

// decodeGame converts a wire record back to a domain game, preserving the
// order players appear in within each team.
func decodeGame(rec gameRecord) (model.Game, error) {
	g := model.Game{
		ID:       rec.ID,
		Result:   model.Result(rec.Result),
		PlayedAt: rec.DateTime,
	}
	if rec.Result < int(model.ResultUndecided) || rec.Result > int(model.ResultCancelled) {
		return model.Game{}, fmt.Errorf("result code %d: %w", rec.Result, model.ErrUnknownResult)
	}
	for _, p := range rec.Players {
		switch p.Team {
		case wireTeam1:
			g.Team1 = append(g.Team1, model.PlayerID(p.ID))
		case wireTeam2:
			g.Team2 = append(g.Team2, model.PlayerID(p.ID))
		default:
			return model.Game{}, fmt.Errorf("player %q on team %d: %w", p.ID, p.Team, ErrMalformedRecord)
		}
	}
	return g, nil
}
