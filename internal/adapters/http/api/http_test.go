package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/rondo/internal/adapters/gamestore"
	"github.com/okian/rondo/internal/adapters/http/api"
	service "github.com/okian/rondo/internal/app"
	"github.com/okian/rondo/internal/domain/league"
	"github.com/okian/rondo/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// fakeStore is an in-memory game store backing the API tests.
type fakeStore struct {
	games []model.Game
}

func (f *fakeStore) ListGames(_ context.Context, playerID model.PlayerID) ([]model.Game, error) {
	if playerID == "" {
		out := make([]model.Game, len(f.games))
		copy(out, f.games)
		return out, nil
	}
	var out []model.Game
	for _, g := range f.games {
		if g.HasPlayer(playerID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeStore) GameByID(_ context.Context, id int64) (model.Game, error) {
	for _, g := range f.games {
		if g.ID == id {
			return g, nil
		}
	}
	return model.Game{}, gamestore.ErrGameNotFound
}

func (f *fakeStore) LastGame(_ context.Context) (model.Game, error) {
	if len(f.games) == 0 {
		return model.Game{}, gamestore.ErrGameNotFound
	}
	return f.games[len(f.games)-1], nil
}

func (f *fakeStore) CreateGame(_ context.Context, g model.Game) error {
	g.ID = 1
	if n := len(f.games); n > 0 {
		g.ID = f.games[n-1].ID + 1
	}
	f.games = append(f.games, g)
	return nil
}

func (f *fakeStore) UpdateGame(_ context.Context, g model.Game) error {
	for i := range f.games {
		if f.games[i].ID == g.ID {
			f.games[i] = g
			return nil
		}
	}
	return gamestore.ErrGameNotFound
}

func newTestServer(t *testing.T, store *fakeStore, opts ...service.Option) (*httptest.Server, *service.Service) {
	t.Helper()

	base := []service.Option{
		service.WithStore(store),
		service.WithTiers([]league.Tier{
			{UpperBound: 1000, Label: "Silver"},
			{UpperBound: 2000, Label: "Gold"},
			{UpperBound: math.Inf(1), Label: "Diamond"},
		}),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("starting service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func doRequest(t *testing.T, method, url string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding request: %v", err)
		}
		reader = bytes.NewReader(buf)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func TestQueueEndpoints(t *testing.T) {
	Convey("Given an API server with team size 1", t, func() {
		srv, _ := newTestServer(t, &fakeStore{}, service.WithTeamSize(1))

		Convey("When fetching the empty queue", func() {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/queue", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["members"], ShouldBeEmpty)
			So(body["team_size"], ShouldEqual, 1)
			So(body["capacity"], ShouldEqual, 2)
			So(body["frozen"], ShouldBeFalse)
		})

		Convey("When a player joins", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
				map[string]any{"player_id": "a"})
			So(status, ShouldEqual, http.StatusOK)
			So(body["game"], ShouldBeNil)

			Convey("Then a duplicate join conflicts", func() {
				status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
					map[string]any{"player_id": "a"})
				So(status, ShouldEqual, http.StatusConflict)
				So(body["code"], ShouldEqual, "already_queued")
			})

			Convey("And a second join starts a game", func() {
				status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
					map[string]any{"player_id": "b"})
				So(status, ShouldEqual, http.StatusOK)
				So(body["game"], ShouldNotBeNil)

				game := body["game"].(map[string]any)
				So(game["id"], ShouldEqual, 1)
				So(game["low_quality"], ShouldBeTrue)

				queueState := body["queue"].(map[string]any)
				So(queueState["members"], ShouldBeEmpty)
			})

			Convey("And the player can leave again", func() {
				status, _ := doRequest(t, http.MethodPost, srv.URL+"/queue/leave",
					map[string]any{"player_id": "a"})
				So(status, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When joining without a player id", func() {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/queue/join", map[string]any{})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the queue is frozen", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/freeze", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["frozen"], ShouldBeTrue)

			Convey("Then a normal join conflicts", func() {
				status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
					map[string]any{"player_id": "a"})
				So(status, ShouldEqual, http.StatusConflict)
				So(body["code"], ShouldEqual, "queue_frozen")
			})

			Convey("And a forced join is admitted", func() {
				status, _ := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
					map[string]any{"player_id": "a", "force": true})
				So(status, ShouldEqual, http.StatusOK)
			})

			Convey("And unfreezing reopens it", func() {
				status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/unfreeze", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["frozen"], ShouldBeFalse)
			})
		})

		Convey("When changing the team size", func() {
			status, body := doRequest(t, http.MethodPut, srv.URL+"/queue/teamsize",
				map[string]any{"team_size": 3})
			So(status, ShouldEqual, http.StatusOK)
			So(body["game"], ShouldBeNil)
			queueState := body["queue"].(map[string]any)
			So(queueState["capacity"], ShouldEqual, 6)

			Convey("Then an invalid size is rejected", func() {
				status, _ := doRequest(t, http.MethodPut, srv.URL+"/queue/teamsize",
					map[string]any{"team_size": 0})
				So(status, ShouldEqual, http.StatusBadRequest)
			})

			Convey("And shrinking it back with a full queue starts a game", func() {
				for _, id := range []string{"a", "b"} {
					status, _ := doRequest(t, http.MethodPost, srv.URL+"/queue/join",
						map[string]any{"player_id": id})
					So(status, ShouldEqual, http.StatusOK)
				}

				status, body := doRequest(t, http.MethodPut, srv.URL+"/queue/teamsize",
					map[string]any{"team_size": 1})
				So(status, ShouldEqual, http.StatusOK)
				So(body["game"], ShouldNotBeNil)
				game := body["game"].(map[string]any)
				So(game["id"], ShouldEqual, 1)
				queueState := body["queue"].(map[string]any)
				So(queueState["members"], ShouldBeEmpty)
			})
		})

		Convey("When clearing the queue", func() {
			_, _ = doRequest(t, http.MethodPost, srv.URL+"/queue/join", map[string]any{"player_id": "a"})
			status, body := doRequest(t, http.MethodPost, srv.URL+"/queue/clear", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["members"], ShouldBeEmpty)
		})

		Convey("When hitting an unknown queue action", func() {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/queue/explode", nil)
			So(status, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestGameEndpoints(t *testing.T) {
	Convey("Given an API server with an undecided game", t, func() {
		store := &fakeStore{games: []model.Game{
			{
				ID:     1,
				Team1:  []model.PlayerID{"a", "d"},
				Team2:  []model.PlayerID{"b", "c"},
				Result: model.ResultUndecided,
			},
		}}
		srv, _ := newTestServer(t, store)

		Convey("When fetching the last game", func() {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/games/last", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["id"], ShouldEqual, 1)
			So(body["result"], ShouldEqual, "undecided")
			So(body["rating_changes"], ShouldBeNil)
		})

		Convey("When fetching a missing game", func() {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/games/99", nil)
			So(status, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "not_found")
		})

		Convey("When fetching a malformed game id", func() {
			status, _ := doRequest(t, http.MethodGet, srv.URL+"/games/zero", nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When posting a result", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/games/1/result",
				map[string]any{"result": "team1"})
			So(status, ShouldEqual, http.StatusOK)
			So(body["result"], ShouldEqual, "team1")

			Convey("Then rating changes are exposed on the game", func() {
				changes := body["rating_changes"].(map[string]any)
				So(changes["a"].(float64), ShouldBeGreaterThan, 0)
				So(changes["b"].(float64), ShouldBeLessThan, 0)
			})

			Convey("And the winners appear on the leaderboard", func() {
				status, body := doRequest(t, http.MethodGet, srv.URL+"/leaderboard", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["total_players"], ShouldEqual, 4)
				entries := body["entries"].([]any)
				top := entries[0].(map[string]any)
				So(top["rank"], ShouldEqual, 1)
				So(top["wins"], ShouldEqual, 1)
			})

			Convey("And player info reflects the win", func() {
				status, body := doRequest(t, http.MethodGet, srv.URL+"/players/a", nil)
				So(status, ShouldEqual, http.StatusOK)
				So(body["wins"], ShouldEqual, 1)
				So(body["tier"], ShouldEqual, "Gold")
				So(body["history"], ShouldHaveLength, 1)
			})
		})

		Convey("When posting an unknown result label", func() {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/games/1/result",
				map[string]any{"result": "alien"})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When cancelling the game", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/games/1/cancel", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["result"], ShouldEqual, "cancelled")
		})

		Convey("When swapping players across teams", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/games/last/swap",
				map[string]any{"player_a": "d", "player_b": "c"})
			So(status, ShouldEqual, http.StatusOK)
			So(body["team_a"], ShouldResemble, []any{"a", "c"})
			So(body["team_b"], ShouldResemble, []any{"b", "d"})
		})

		Convey("When swapping with a missing body field", func() {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/games/last/swap",
				map[string]any{"player_a": "d"})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When rebalancing with estimates", func() {
			status, body := doRequest(t, http.MethodPost, srv.URL+"/games/last/rebalance",
				map[string]any{"estimates": map[string]any{
					"a": 4000, "d": 4000, "b": 1000, "c": 1000,
				}})
			So(status, ShouldEqual, http.StatusOK)
			So(body["quality"].(float64), ShouldBeGreaterThan, 0)
		})

		Convey("When rebalancing with an out-of-range estimate", func() {
			status, _ := doRequest(t, http.MethodPost, srv.URL+"/games/last/rebalance",
				map[string]any{"estimates": map[string]any{"a": 9000}})
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When listing games for a player", func() {
			status, _ := doRequest(t, http.MethodGet, srv.URL+"/games?player=a", nil)
			So(status, ShouldEqual, http.StatusOK)
		})
	})
}

func TestInfoEndpoints(t *testing.T) {
	Convey("Given an API server with a decided history", t, func() {
		store := &fakeStore{games: []model.Game{
			{ID: 1, Team1: []model.PlayerID{"a"}, Team2: []model.PlayerID{"b"}, Result: model.ResultTeam1},
		}}
		srv, _ := newTestServer(t, store)

		Convey("When requesting an unknown player", func() {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/players/ghost", nil)
			So(status, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "not_found")
		})

		Convey("When requesting the leaderboard with a bad page", func() {
			status, _ := doRequest(t, http.MethodGet, srv.URL+"/leaderboard?page=zero", nil)
			So(status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When requesting stats", func() {
			status, body := doRequest(t, http.MethodGet, srv.URL+"/stats", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(body["started"], ShouldBeTrue)
			So(body["totalGames"], ShouldEqual, 1)
		})

		Convey("When requesting health", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)

			payload, err := io.ReadAll(resp.Body)
			So(err, ShouldBeNil)
			So(string(payload), ShouldContainSubstring, "rondo_matchmaking")
		})

		Convey("When a request carries no request id", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)
			defer func() { _ = resp.Body.Close() }()

			Convey("Then one is assigned", func() {
				So(resp.Header.Get("X-Request-ID"), ShouldNotBeEmpty)
			})
		})
	})
}
