// Package queue tracks the set of players waiting for the next game.
//
// The Queue is a plain value with no locking of its own; the orchestrator
// serializes mutation together with game creation so that a full queue
// starts at most one game.
package queue

import "github.com/okian/rondo/internal/domain/model"

// Default queue configuration constants.
const (
	defaultTeamSize = 4
	playersPerGame  = 2 // two teams per game
)

// Queue holds the waiting players in join order.
type Queue struct {
	teamSize int
	frozen   bool
	members  []model.PlayerID
}

// Option applies a configuration option to the Queue.
type Option func(*Queue)

// WithTeamSize sets the initial players-per-team count.
func WithTeamSize(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.teamSize = n
		}
	}
}

// New creates an empty queue with configuration options.
func New(opts ...Option) *Queue {
	q := &Queue{
		teamSize: defaultTeamSize,
	}

	// Apply all options
	for _, opt := range opts {
		opt(q)
	}

	return q
}

// Join adds a player to the queue.
func (q *Queue) Join(id model.PlayerID) error {
	if q.has(id) {
		return ErrAlreadyQueued
	}
	q.members = append(q.members, id)
	return nil
}

// Leave removes a player from the queue.
func (q *Queue) Leave(id model.PlayerID) error {
	for i, m := range q.members {
		if m == id {
			q.members = append(q.members[:i], q.members[i+1:]...)
			return nil
		}
	}
	return ErrNotQueued
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.members = nil
}

// Size returns the number of waiting players.
func (q *Queue) Size() int {
	return len(q.members)
}

// Capacity returns the number of players needed to start a game.
func (q *Queue) Capacity() int {
	return playersPerGame * q.teamSize
}

// Full reports whether enough players are waiting to start a game.
func (q *Queue) Full() bool {
	return len(q.members) >= q.Capacity()
}

// TeamSize returns the current players-per-team setting.
func (q *Queue) TeamSize() int {
	return q.teamSize
}

// SetTeamSize changes the players-per-team setting.
func (q *Queue) SetTeamSize(n int) error {
	if n < 1 {
		return ErrInvalidTeamSize
	}
	q.teamSize = n
	return nil
}

// Freeze gates admission and removal until Unfreeze.
func (q *Queue) Freeze() { q.frozen = true }

// Unfreeze reopens the queue.
func (q *Queue) Unfreeze() { q.frozen = false }

// Frozen reports whether the queue is frozen.
func (q *Queue) Frozen() bool { return q.frozen }

// Snapshot returns a copy of the waiting players in join order.
func (q *Queue) Snapshot() []model.PlayerID {
	out := make([]model.PlayerID, len(q.members))
	copy(out, q.members)
	return out
}

func (q *Queue) has(id model.PlayerID) bool {
	for _, m := range q.members {
		if m == id {
			return true
		}
	}
	return false
}
