// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/model"
)

// PlayerDependencies defines the interface for player lookups.
type PlayerDependencies interface {
	PlayerInfo(ctx context.Context, id model.PlayerID) (PlayerView, error)
}

// PlayersHandler handles player info requests.
type PlayersHandler struct {
	deps PlayerDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayerDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

type historyPoint struct {
	GameID int64   `json:"game_id"`
	Rating float64 `json:"rating"`
}

type playerResponse struct {
	ID      string         `json:"id"`
	Rating  float64        `json:"rating"`
	Mean    float64        `json:"mean"`
	Spread  float64        `json:"spread"`
	Tier    string         `json:"tier"`
	RoleID  string         `json:"role_id,omitempty"`
	Wins    int            `json:"wins"`
	Losses  int            `json:"losses"`
	Draws   int            `json:"draws"`
	Games   int            `json:"games"`
	History []historyPoint `json:"history"`
}

// HandleGetPlayer handles GET /players/{id} requests.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/players/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	p, err := h.deps.PlayerInfo(r.Context(), model.PlayerID(id))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := playerResponse{
		ID:      string(p.ID),
		Rating:  p.Rating,
		Mean:    p.Mean,
		Spread:  p.Spread,
		Tier:    p.Tier.Label,
		RoleID:  p.Tier.RoleID,
		Wins:    p.Wins,
		Losses:  p.Losses,
		Draws:   p.Draws,
		Games:   p.Wins + p.Losses + p.Draws,
		History: make([]historyPoint, len(p.History)),
	}
	for i, hp := range p.History {
		resp.History[i] = historyPoint{GameID: hp.GameID, Rating: hp.Rating}
	}
	writeJSON(w, http.StatusOK, resp)
}
