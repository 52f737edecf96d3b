// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/rondo/internal/domain/model"
)

// GameDependencies defines the interface for game operations.
type GameDependencies interface {
	Score(ctx context.Context, gameID int64, result model.Result) error
	Cancel(ctx context.Context, gameID int64) error
	Rebalance(ctx context.Context, estimates map[model.PlayerID]float64) (*NewGame, error)
	Swap(ctx context.Context, a, b model.PlayerID) (*NewGame, error)
	GameInfo(ctx context.Context, id int64) (GameView, error)
	LastGameInfo(ctx context.Context) (GameView, error)
	RecentGames(ctx context.Context, playerID model.PlayerID) ([]GameView, error)
}

// GamesHandler handles game requests.
type GamesHandler struct {
	deps GameDependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps GameDependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

type resultRequest struct {
	Result string `json:"result"`
}

type rebalanceRequest struct {
	// Estimates maps player ids to display-rating skill guesses.
	Estimates map[string]float64 `json:"estimates"`
}

type swapRequest struct {
	PlayerA string `json:"player_a"`
	PlayerB string `json:"player_b"`
}

type gameResponse struct {
	ID            int64              `json:"id"`
	Team1         []string           `json:"team1"`
	Team2         []string           `json:"team2"`
	Result        string             `json:"result"`
	PlayedAt      string             `json:"played_at,omitempty"`
	Outcome       string             `json:"outcome,omitempty"`
	RatingChanges map[string]float64 `json:"rating_changes,omitempty"`
}

func toGameResponse(v GameView, perspective model.PlayerID) gameResponse {
	resp := gameResponse{
		ID:       v.Game.ID,
		Team1:    toStrings(v.Game.Team1),
		Team2:    toStrings(v.Game.Team2),
		Result:   v.Game.Result.String(),
		PlayedAt: v.Game.PlayedAt,
	}
	if perspective != "" {
		resp.Outcome = v.Game.OutcomeFor(perspective)
	}
	if len(v.RatingChanges) > 0 {
		resp.RatingChanges = make(map[string]float64, len(v.RatingChanges))
		for id, delta := range v.RatingChanges {
			resp.RatingChanges[string(id)] = delta
		}
	}
	return resp
}

// HandleListGames handles GET /games?player=ID requests.
func (h *GamesHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	player := model.PlayerID(r.URL.Query().Get("player"))
	views, err := h.deps.RecentGames(r.Context(), player)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	out := make([]gameResponse, len(views))
	for i, v := range views {
		out[i] = toGameResponse(v, player)
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleGamePath dispatches the /games/ subtree:
// GET /games/last, POST /games/last/rebalance, POST /games/last/swap,
// GET /games/{id}, POST /games/{id}/result, POST /games/{id}/cancel.
func (h *GamesHandler) HandleGamePath(w http.ResponseWriter, r *http.Request) {
	const op = "api.games"
	path := strings.TrimPrefix(r.URL.Path, "/games/")
	ctx := r.Context()

	switch {
	case path == "last" && r.Method == http.MethodGet:
		v, err := h.deps.LastGameInfo(ctx)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(v, ""))

	case path == "last/rebalance" && r.Method == http.MethodPost:
		var req rebalanceRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		estimates := make(map[model.PlayerID]float64, len(req.Estimates))
		for id, est := range req.Estimates {
			estimates[model.PlayerID(id)] = est
		}
		ng, err := h.deps.Rebalance(ctx, estimates)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNewGameResponse(ng))

	case path == "last/swap" && r.Method == http.MethodPost:
		var req swapRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if req.PlayerA == "" || req.PlayerB == "" {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		ng, err := h.deps.Swap(ctx, model.PlayerID(req.PlayerA), model.PlayerID(req.PlayerB))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toNewGameResponse(ng))

	default:
		h.handleGameByID(w, r, path)
	}
}

func (h *GamesHandler) handleGameByID(w http.ResponseWriter, r *http.Request, path string) {
	const op = "api.games"
	ctx := r.Context()

	idPart, action, _ := strings.Cut(path, "/")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		v, err := h.deps.GameInfo(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(v, ""))

	case action == "result" && r.Method == http.MethodPost:
		var req resultRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		result, err := model.ParseResult(req.Result)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		if err := h.deps.Score(ctx, id, result); err != nil {
			writeDomainError(w, err)
			return
		}
		v, err := h.deps.GameInfo(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(v, ""))

	case action == "cancel" && r.Method == http.MethodPost:
		if err := h.deps.Cancel(ctx, id); err != nil {
			writeDomainError(w, err)
			return
		}
		v, err := h.deps.GameInfo(ctx, id)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toGameResponse(v, ""))

	default:
		http.NotFound(w, r)
	}
}
