package gamestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/pkg/metrics"
)

// Default client configuration constants.
const (
	defaultTimeout = 10 * time.Second
)

// Client talks to the external game store over HTTP.
type Client struct {
	baseURL string
	hc      *http.Client
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.hc.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.hc = hc
		}
	}
}

// New creates a game store client for the given base URL, e.g.
// "http://localhost:5000/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		hc:      &http.Client{Timeout: defaultTimeout},
	}

	// Apply all options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ListGames returns every stored game, optionally filtered to games the
// given player took part in. The store returns games in creation order.
func (c *Client) ListGames(ctx context.Context, playerID model.PlayerID) ([]model.Game, error) {
	endpoint := c.baseURL + "/games"
	if playerID != "" {
		endpoint += "?player=" + url.QueryEscape(string(playerID))
	}

	var recs []gameRecord
	if err := c.do(ctx, "list_games", http.MethodGet, endpoint, nil, &recs); err != nil {
		return nil, err
	}

	games := make([]model.Game, len(recs))
	for i, rec := range recs {
		g, err := decodeGame(rec)
		if err != nil {
			return nil, fmt.Errorf("game %d: %w", rec.ID, err)
		}
		games[i] = g
	}
	return games, nil
}

// GameByID fetches one game. Returns ErrGameNotFound for unknown ids.
func (c *Client) GameByID(ctx context.Context, id int64) (model.Game, error) {
	var rec gameRecord
	endpoint := c.baseURL + "/games/" + strconv.FormatInt(id, 10)
	if err := c.do(ctx, "get_game", http.MethodGet, endpoint, nil, &rec); err != nil {
		return model.Game{}, err
	}
	return decodeGame(rec)
}

// LastGame fetches the most recently created game. Returns ErrGameNotFound
// when no game exists yet.
func (c *Client) LastGame(ctx context.Context) (model.Game, error) {
	var rec gameRecord
	if err := c.do(ctx, "last_game", http.MethodGet, c.baseURL+"/games/last", nil, &rec); err != nil {
		return model.Game{}, err
	}
	return decodeGame(rec)
}

// CreateGame stores a new game. The store assigns id and timestamp.
func (c *Client) CreateGame(ctx context.Context, g model.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}
	return c.do(ctx, "create_game", http.MethodPost, c.baseURL+"/games", encodeGame(g), nil)
}

// UpdateGame replaces the rosters and/or result of an existing game.
func (c *Client) UpdateGame(ctx context.Context, g model.Game) error {
	if err := g.Validate(); err != nil {
		return err
	}
	endpoint := c.baseURL + "/games/" + strconv.FormatInt(g.ID, 10)
	return c.do(ctx, "update_game", http.MethodPut, endpoint, encodeGame(g), nil)
}

// do performs one request, recording latency and outcome metrics. A nil
// out skips body decoding.
func (c *Client) do(ctx context.Context, operation, method, endpoint string, body, out any) error {
	start := time.Now()
	outcome := "ok"
	defer func() {
		metrics.RecordStoreRequestDuration(operation, float64(time.Since(start).Milliseconds()))
		metrics.RecordStoreRequest(operation, outcome)
	}()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			outcome = "error"
			return fmt.Errorf("encoding %s request: %w", operation, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("building %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		outcome = "error"
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		outcome = "not_found"
		return ErrGameNotFound
	case resp.StatusCode >= http.StatusBadRequest:
		outcome = "error"
		return fmt.Errorf("%s: store replied %s: %w", operation, resp.Status, ErrStoreUnavailable)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		outcome = "error"
		return fmt.Errorf("decoding %s response: %w", operation, err)
	}
	return nil
}
