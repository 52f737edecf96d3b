// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rondo/internal/adapters/gamestore"
	service "github.com/okian/rondo/internal/app"
	"github.com/okian/rondo/internal/domain/balance"
	"github.com/okian/rondo/internal/domain/league"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/queue"
)

// Read shapes returned by the orchestration layer.
type (
	NewGame         = service.NewGame
	QueueInfo       = service.QueueInfo
	LeaderboardPage = service.LeaderboardPage
	PlayerView      = service.PlayerView
	GameView        = service.GameView
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Queue operations.
	JoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error)
	ForceJoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error)
	LeaveQueue(ctx context.Context, id model.PlayerID) error
	ForceLeaveQueue(ctx context.Context, id model.PlayerID) error
	ClearQueue(ctx context.Context)
	FreezeQueue(ctx context.Context)
	UnfreezeQueue(ctx context.Context)
	SetTeamSize(ctx context.Context, n int) (*NewGame, error)
	QueueStatus(ctx context.Context) QueueInfo

	// Game operations.
	Score(ctx context.Context, gameID int64, result model.Result) error
	Cancel(ctx context.Context, gameID int64) error
	Rebalance(ctx context.Context, estimates map[model.PlayerID]float64) (*NewGame, error)
	Swap(ctx context.Context, a, b model.PlayerID) (*NewGame, error)

	// Read operations.
	Leaderboard(ctx context.Context, page int) (LeaderboardPage, error)
	PlayerInfo(ctx context.Context, id model.PlayerID) (PlayerView, error)
	GameInfo(ctx context.Context, id int64) (GameView, error)
	LastGameInfo(ctx context.Context) (GameView, error)
	RecentGames(ctx context.Context, playerID model.PlayerID) ([]GameView, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	playersHandler     *PlayersHandler
	queueHandler       *QueueHandler
	gamesHandler       *GamesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		leaderboardHandler: NewLeaderboardHandler(deps),
		playersHandler:     NewPlayersHandler(deps),
		queueHandler:       NewQueueHandler(deps),
		gamesHandler:       NewGamesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/players/", MetricsMiddleware(s.playersHandler.HandleGetPlayer, "players"))
	mux.HandleFunc("/queue", MetricsMiddleware(s.queueHandler.HandleGetQueue, "queue"))
	mux.HandleFunc("/queue/", MetricsMiddleware(s.queueHandler.HandleQueueAction, "queue"))
	mux.HandleFunc("/games", MetricsMiddleware(s.gamesHandler.HandleListGames, "games"))
	mux.HandleFunc("/games/", MetricsMiddleware(s.gamesHandler.HandleGamePath, "games"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError translates sentinel errors from the lower layers into
// the matching HTTP status. Anything unrecognized becomes a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownPlayer),
		errors.Is(err, gamestore.ErrGameNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrQueueFrozen):
		writeError(w, http.StatusConflict, "queue_frozen", err)
	case errors.Is(err, queue.ErrAlreadyQueued):
		writeError(w, http.StatusConflict, "already_queued", err)
	case errors.Is(err, queue.ErrNotQueued):
		writeError(w, http.StatusConflict, "not_queued", err)
	case errors.Is(err, service.ErrGameDecided):
		writeError(w, http.StatusConflict, "game_decided", err)
	case errors.Is(err, queue.ErrInvalidTeamSize),
		errors.Is(err, service.ErrEstimateOutOfRange),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrSameTeam),
		errors.Is(err, balance.ErrUnknownPlayer),
		errors.Is(err, balance.ErrInvalidQueueSize),
		errors.Is(err, league.ErrInvalidOutcome),
		errors.Is(err, model.ErrUnknownResult):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
