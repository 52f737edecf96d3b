// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// LeaderboardDependencies defines the interface for leaderboard operations.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, page int) (LeaderboardPage, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type leaderboardEntry struct {
	Rank     int     `json:"rank"`
	PlayerID string  `json:"player_id"`
	Rating   float64 `json:"rating"`
	Mean     float64 `json:"mean"`
	Spread   float64 `json:"spread"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Draws    int     `json:"draws"`
}

type leaderboardResponse struct {
	Page         int                `json:"page"`
	TotalPages   int                `json:"total_pages"`
	TotalPlayers int                `json:"total_players"`
	Entries      []leaderboardEntry `json:"entries"`
}

// HandleGetLeaderboard handles GET /leaderboard?page=N requests.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		page = n
	}

	lb, err := h.deps.Leaderboard(r.Context(), page)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := leaderboardResponse{
		Page:         lb.Page,
		TotalPages:   lb.TotalPages,
		TotalPlayers: lb.TotalPlayers,
		Entries:      make([]leaderboardEntry, len(lb.Entries)),
	}
	for i, e := range lb.Entries {
		resp.Entries[i] = leaderboardEntry{
			Rank:     e.Rank,
			PlayerID: string(e.PlayerID),
			Rating:   e.Rating,
			Mean:     e.Mean,
			Spread:   e.Spread,
			Wins:     e.Wins,
			Losses:   e.Losses,
			Draws:    e.Draws,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
