// Package model contains domain models passed between layers.
package model

// PlayerID is the opaque external identity of a player (e.g. a platform
// user id). The service never interprets it.
type PlayerID string

// Result is the outcome code of a game as stored by the game store.
type Result int

// Result codes. The integer values are part of the game store wire format.
const (
	ResultUndecided Result = iota
	ResultTeam1
	ResultTeam2
	ResultDraw
	ResultCancelled
)

// String returns the lowercase label used in API payloads and logs.
func (r Result) String() string {
	switch r {
	case ResultUndecided:
		return "undecided"
	case ResultTeam1:
		return "team1"
	case ResultTeam2:
		return "team2"
	case ResultDraw:
		return "draw"
	case ResultCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Decided reports whether the result affects ratings.
func (r Result) Decided() bool {
	return r == ResultTeam1 || r == ResultTeam2 || r == ResultDraw
}

// ParseResult maps an API label to a Result.
func ParseResult(s string) (Result, error) {
	switch s {
	case "undecided":
		return ResultUndecided, nil
	case "team1", "1":
		return ResultTeam1, nil
	case "team2", "2":
		return ResultTeam2, nil
	case "draw":
		return ResultDraw, nil
	case "cancelled":
		return ResultCancelled, nil
	default:
		return ResultUndecided, ErrUnknownResult
	}
}

// Game is one recorded match. The game store assigns ID and PlayedAt on
// creation; a not-yet-created game carries ID == 0. Roster order within a
// team is insignificant for rating but preserved for display.
type Game struct {
	ID       int64
	Team1    []PlayerID
	Team2    []PlayerID
	Result   Result
	PlayedAt string // opaque timestamp string set by the store
}

// Validate checks the roster invariants: both teams non-empty and no player
// on both sides.
func (g Game) Validate() error {
	if len(g.Team1) == 0 || len(g.Team2) == 0 {
		return ErrEmptyRoster
	}
	seen := make(map[PlayerID]struct{}, len(g.Team1)+len(g.Team2))
	for _, id := range g.Team1 {
		if _, dup := seen[id]; dup {
			return ErrRosterOverlap
		}
		seen[id] = struct{}{}
	}
	for _, id := range g.Team2 {
		if _, dup := seen[id]; dup {
			return ErrRosterOverlap
		}
		seen[id] = struct{}{}
	}
	return nil
}

// Participants returns both rosters in display order, team1 first.
func (g Game) Participants() []PlayerID {
	out := make([]PlayerID, 0, len(g.Team1)+len(g.Team2))
	out = append(out, g.Team1...)
	out = append(out, g.Team2...)
	return out
}

// HasPlayer reports whether id appears on either roster.
func (g Game) HasPlayer(id PlayerID) bool {
	return g.OnTeam1(id) || g.OnTeam2(id)
}

// OnTeam1 reports whether id is on team 1.
func (g Game) OnTeam1(id PlayerID) bool {
	for _, p := range g.Team1 {
		if p == id {
			return true
		}
	}
	return false
}

// OnTeam2 reports whether id is on team 2.
func (g Game) OnTeam2(id PlayerID) bool {
	for _, p := range g.Team2 {
		if p == id {
			return true
		}
	}
	return false
}

// OutcomeFor reports the game's outcome from one player's perspective:
// "win", "loss", "draw", "cancelled" or "undecided".
func (g Game) OutcomeFor(id PlayerID) string {
	switch g.Result {
	case ResultTeam1:
		if g.OnTeam1(id) {
			return "win"
		}
		return "loss"
	case ResultTeam2:
		if g.OnTeam2(id) {
			return "win"
		}
		return "loss"
	default:
		return g.Result.String()
	}
}
