package league

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/rating"
)

// Snapshot is the league state derived from one full replay of the game
// log. It is immutable after Rebuild; callers keep a snapshot and replace
// it wholesale when the log changes.
type Snapshot struct {
	env     *rating.Env
	players map[model.PlayerID]*Player
}

// Rebuild replays games strictly in ascending id order and returns the
// resulting snapshot. Cancelled and undecided games are skipped entirely.
// A listing whose ids are not strictly increasing cannot be interpreted as
// creation order and is rejected with ErrNonMonotonicGameLog.
func Rebuild(ctx context.Context, env *rating.Env, games []model.Game) (*Snapshot, error) {
	s := &Snapshot{
		env:     env,
		players: make(map[model.PlayerID]*Player),
	}

	var prevID int64
	for _, g := range games {
		if g.ID <= prevID {
			return nil, fmt.Errorf("game %d after game %d: %w", g.ID, prevID, ErrNonMonotonicGameLog)
		}
		prevID = g.ID
		if !g.Result.Decided() {
			continue
		}
		if err := s.applyGame(g); err != nil {
			return nil, fmt.Errorf("replaying game %d: %w", g.ID, err)
		}
	}

	return s, nil
}

// applyGame runs the rating update for one decided game and folds the
// result into the running player map: beliefs replaced wholesale, tallies
// incremented exactly once, one history point appended per participant.
func (s *Snapshot) applyGame(g model.Game) error {
	if !g.Result.Decided() {
		return ErrInvalidOutcome
	}
	if err := g.Validate(); err != nil {
		return err
	}

	rank1, rank2 := 0, 0
	switch g.Result {
	case model.ResultTeam1:
		rank2 = 1
	case model.ResultTeam2:
		rank1 = 1
	}

	team1 := make([]rating.Belief, len(g.Team1))
	for i, id := range g.Team1 {
		team1[i] = s.belief(id)
	}
	team2 := make([]rating.Belief, len(g.Team2))
	for i, id := range g.Team2 {
		team2[i] = s.belief(id)
	}

	post1, post2, err := s.env.Rate(team1, team2, rank1, rank2)
	if err != nil {
		return err
	}

	for i, id := range g.Team1 {
		s.record(id, g, post1[i], rank1 < rank2, rank1 > rank2)
	}
	for i, id := range g.Team2 {
		s.record(id, g, post2[i], rank2 < rank1, rank2 > rank1)
	}
	return nil
}

// belief returns the player's current belief, or the prior for a player
// seen for the first time.
func (s *Snapshot) belief(id model.PlayerID) rating.Belief {
	if p, ok := s.players[id]; ok {
		return p.Belief
	}
	return s.env.NewBelief()
}

// record stores the posterior belief and bookkeeping for one participant.
func (s *Snapshot) record(id model.PlayerID, g model.Game, post rating.Belief, won, lost bool) {
	p, ok := s.players[id]
	if !ok {
		p = &Player{ID: id, Belief: s.env.NewBelief()}
		s.players[id] = p
	}
	p.Belief = post
	switch {
	case won:
		p.Wins++
	case lost:
		p.Losses++
	default:
		p.Draws++
	}
	p.History = append(p.History, HistoryPoint{GameID: g.ID, Rating: s.env.Rating(post)})
}

// Player returns the state for id, or nil if the player has no decided game.
func (s *Snapshot) Player(id model.PlayerID) *Player {
	return s.players[id]
}

// Belief returns the stored belief for id, falling back to the prior.
func (s *Snapshot) Belief(id model.PlayerID) rating.Belief {
	return s.belief(id)
}

// Beliefs resolves current beliefs for a set of ids, prior included for
// unknown players. The result is a fresh map safe for the caller to merge
// overrides into.
func (s *Snapshot) Beliefs(ids []model.PlayerID) map[model.PlayerID]rating.Belief {
	out := make(map[model.PlayerID]rating.Belief, len(ids))
	for _, id := range ids {
		out[id] = s.belief(id)
	}
	return out
}

// Rating returns the conservative rating for id (prior-based for unknowns).
func (s *Snapshot) Rating(id model.PlayerID) float64 {
	return s.env.Rating(s.belief(id))
}

// Env exposes the model constants the snapshot was built with.
func (s *Snapshot) Env() *rating.Env {
	return s.env
}

// Size returns the number of tracked players.
func (s *Snapshot) Size() int {
	return len(s.players)
}

// Entry is one leaderboard row.
type Entry struct {
	Rank     int
	PlayerID model.PlayerID
	Rating   float64
	Mean     float64
	Spread   float64
	Wins     int
	Losses   int
	Draws    int
}

// Leaderboard returns every tracked player ordered by conservative rating
// descending. Ties order by id so the listing is stable across rebuilds.
func (s *Snapshot) Leaderboard() []Entry {
	entries := make([]Entry, 0, len(s.players))
	for id, p := range s.players {
		entries = append(entries, Entry{
			PlayerID: id,
			Rating:   s.env.Rating(p.Belief),
			Mean:     s.env.DisplayMean(p.Belief),
			Spread:   s.env.DisplaySpread(p.Belief),
			Wins:     p.Wins,
			Losses:   p.Losses,
			Draws:    p.Draws,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].PlayerID < entries[j].PlayerID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}
