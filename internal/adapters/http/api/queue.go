// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/okian/rondo/internal/domain/model"
)

// QueueDependencies defines the interface for queue operations.
type QueueDependencies interface {
	JoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error)
	ForceJoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error)
	LeaveQueue(ctx context.Context, id model.PlayerID) error
	ForceLeaveQueue(ctx context.Context, id model.PlayerID) error
	ClearQueue(ctx context.Context)
	FreezeQueue(ctx context.Context)
	UnfreezeQueue(ctx context.Context)
	SetTeamSize(ctx context.Context, n int) (*NewGame, error)
	QueueStatus(ctx context.Context) QueueInfo
}

// QueueHandler handles queue requests.
type QueueHandler struct {
	deps QueueDependencies
}

// NewQueueHandler creates a new queue handler.
func NewQueueHandler(deps QueueDependencies) *QueueHandler {
	return &QueueHandler{deps: deps}
}

// queueRequest mirrors the body of the player-scoped queue actions.
type queueRequest struct {
	PlayerID string `json:"player_id"`
	// Force bypasses the freeze flag; operator use only.
	Force bool `json:"force"`
}

type teamSizeRequest struct {
	TeamSize int `json:"team_size"`
}

type queueResponse struct {
	Members  []string `json:"members"`
	TeamSize int      `json:"team_size"`
	Capacity int      `json:"capacity"`
	Frozen   bool     `json:"frozen"`
}

// joinResponse reports the queue after a join, plus the game that started
// if the join filled it.
type joinResponse struct {
	Queue queueResponse    `json:"queue"`
	Game  *newGameResponse `json:"game,omitempty"`
}

type newGameResponse struct {
	ID         int64    `json:"id"`
	TeamA      []string `json:"team_a"`
	TeamB      []string `json:"team_b"`
	Quality    float64  `json:"quality"`
	LowQuality bool     `json:"low_quality"`
}

func toNewGameResponse(ng *NewGame) *newGameResponse {
	if ng == nil {
		return nil
	}
	return &newGameResponse{
		ID:         ng.ID,
		TeamA:      toStrings(ng.TeamA),
		TeamB:      toStrings(ng.TeamB),
		Quality:    ng.Quality,
		LowQuality: ng.LowQuality,
	}
}

func toStrings(ids []model.PlayerID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

func (h *QueueHandler) queueResponse(ctx context.Context) queueResponse {
	info := h.deps.QueueStatus(ctx)
	return queueResponse{
		Members:  toStrings(info.Members),
		TeamSize: info.TeamSize,
		Capacity: info.Capacity,
		Frozen:   info.Frozen,
	}
}

// HandleGetQueue handles GET /queue requests.
func (h *QueueHandler) HandleGetQueue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.queueResponse(r.Context()))
}

// HandleQueueAction dispatches the queue mutation endpoints:
// POST /queue/join, POST /queue/leave, POST /queue/clear,
// POST /queue/freeze, POST /queue/unfreeze, PUT /queue/teamsize.
func (h *QueueHandler) HandleQueueAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.queue_action"
	action := strings.TrimPrefix(r.URL.Path, "/queue/")
	ctx := r.Context()

	switch {
	case action == "join" && r.Method == http.MethodPost:
		req, err := decodeQueueRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		join := h.deps.JoinQueue
		if req.Force {
			join = h.deps.ForceJoinQueue
		}
		ng, err := join(ctx, model.PlayerID(req.PlayerID))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, joinResponse{
			Queue: h.queueResponse(ctx),
			Game:  toNewGameResponse(ng),
		})

	case action == "leave" && r.Method == http.MethodPost:
		req, err := decodeQueueRequest(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		leave := h.deps.LeaveQueue
		if req.Force {
			leave = h.deps.ForceLeaveQueue
		}
		if err := leave(ctx, model.PlayerID(req.PlayerID)); err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.queueResponse(ctx))

	case action == "clear" && r.Method == http.MethodPost:
		h.deps.ClearQueue(ctx)
		writeJSON(w, http.StatusOK, h.queueResponse(ctx))

	case action == "freeze" && r.Method == http.MethodPost:
		h.deps.FreezeQueue(ctx)
		writeJSON(w, http.StatusOK, h.queueResponse(ctx))

	case action == "unfreeze" && r.Method == http.MethodPost:
		h.deps.UnfreezeQueue(ctx)
		writeJSON(w, http.StatusOK, h.queueResponse(ctx))

	case action == "teamsize" && r.Method == http.MethodPut:
		var req teamSizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		// Shrinking the team size can leave the queue full enough to play.
		ng, err := h.deps.SetTeamSize(ctx, req.TeamSize)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, joinResponse{
			Queue: h.queueResponse(ctx),
			Game:  toNewGameResponse(ng),
		})

	default:
		http.NotFound(w, r)
	}
}

func decodeQueueRequest(r *http.Request) (queueRequest, error) {
	var req queueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return queueRequest{}, err
	}
	if strings.TrimSpace(req.PlayerID) == "" {
		return queueRequest{}, ErrBadRequest
	}
	return req, nil
}
