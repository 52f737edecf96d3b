// Package balance splits a full queue into the two most evenly matched
// teams by exhaustive search over bipartitions.
package balance

import (
	"context"

	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/rating"
)

// Result is the winning bipartition and its predicted quality.
type Result struct {
	TeamA   []model.PlayerID
	TeamB   []model.PlayerID
	Quality float64
	// Searched counts the candidate bipartitions evaluated.
	Searched int
}

// SplitTeams partitions the 2n players into two teams of n maximizing
// predicted match quality.
//
// beliefs supplies the current belief per player; players missing from it
// get the environment prior. overrides optionally replaces the mean (only)
// of a player's belief, leaving the stored deviation intact — the what-if
// rebalance must not touch persisted state, so everything here works on
// copies.
//
// The first player is pinned to team A, which halves the search space to
// C(2n-1, n-1) and removes the mirrored duplicate of every partition. Ties
// keep the first-encountered best so the search is deterministic.
func SplitTeams(
	ctx context.Context,
	env *rating.Env,
	players []model.PlayerID,
	beliefs map[model.PlayerID]rating.Belief,
	overrides map[model.PlayerID]float64,
) (Result, error) {
	if len(players) == 0 || len(players)%2 != 0 {
		return Result{}, ErrInvalidQueueSize
	}
	for id := range overrides {
		if !contains(players, id) {
			return Result{}, ErrUnknownPlayer
		}
	}

	resolved := make([]rating.Belief, len(players))
	for i, id := range players {
		b, ok := beliefs[id]
		if !ok {
			b = env.NewBelief()
		}
		if mu, ok := overrides[id]; ok {
			b.Mu = mu
		}
		resolved[i] = b
	}

	half := len(players) / 2
	teamA := make([]rating.Belief, half)
	teamB := make([]rating.Belief, half)
	best := Result{Quality: -1}

	// Choose half-1 teammates for the pinned first player out of the rest.
	picks := make([]int, half-1)
	forEachCombination(len(players)-1, half-1, picks, func(picked []int) {
		inA := make([]bool, len(players))
		inA[0] = true
		for _, p := range picked {
			inA[p+1] = true
		}

		na, nb := 0, 0
		for i := range players {
			if inA[i] {
				teamA[na] = resolved[i]
				na++
			} else {
				teamB[nb] = resolved[i]
				nb++
			}
		}

		q := env.Quality(teamA, teamB)
		best.Searched++
		if q > best.Quality {
			a := make([]model.PlayerID, 0, half)
			b := make([]model.PlayerID, 0, half)
			for i, id := range players {
				if inA[i] {
					a = append(a, id)
				} else {
					b = append(b, id)
				}
			}
			best.TeamA, best.TeamB, best.Quality = a, b, q
		}
	})

	return best, nil
}

// forEachCombination visits every k-combination of {0..n-1} in
// lexicographic order, reusing buf for the indices.
func forEachCombination(n, k int, buf []int, visit func([]int)) {
	if k == 0 {
		visit(buf[:0])
		return
	}
	for i := range buf {
		buf[i] = i
	}
	for {
		visit(buf)
		// Advance to the next combination.
		i := k - 1
		for i >= 0 && buf[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		buf[i]++
		for j := i + 1; j < k; j++ {
			buf[j] = buf[j-1] + 1
		}
	}
}

func contains(ids []model.PlayerID, id model.PlayerID) bool {
	for _, p := range ids {
		if p == id {
			return true
		}
	}
	return false
}
