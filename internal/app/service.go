// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/rondo/internal/domain/balance"
	"github.com/okian/rondo/internal/domain/league"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/internal/domain/queue"
	"github.com/okian/rondo/internal/domain/rating"
	"github.com/okian/rondo/pkg/logger"
	"github.com/okian/rondo/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultPageSize         = 20
	defaultRecentGames      = 20
	defaultQualityThreshold = 0.8

	// Estimate bounds for what-if rebalancing, in display-rating units.
	minEstimate = 0
	maxEstimate = 5000
)

// Store is the persistence boundary of the service: the external game
// store owns every game record and assigns ids.
type Store interface {
	ListGames(ctx context.Context, playerID model.PlayerID) ([]model.Game, error)
	GameByID(ctx context.Context, id int64) (model.Game, error)
	LastGame(ctx context.Context) (model.Game, error)
	CreateGame(ctx context.Context, g model.Game) error
	UpdateGame(ctx context.Context, g model.Game) error
}

// Service implements the API dependencies for the matchmaking system.
// A single mutex serializes queue mutation and game creation so a full
// queue starts exactly one game.
type Service struct {
	mu sync.RWMutex

	// Core components
	store    Store
	env      *rating.Env
	queue    *queue.Queue
	snapshot *league.Snapshot

	// Configuration
	tiers            []league.Tier
	pageSize         int
	recentGames      int
	qualityThreshold float64

	// Derived counters from the last refresh
	totalGames     int
	cancelledGames int
	undecidedGames int

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the game store client.
func WithStore(store Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithEnv sets the rating environment shared by replays and balancing.
func WithEnv(env *rating.Env) Option {
	return func(s *Service) {
		if env != nil {
			s.env = env
		}
	}
}

// WithTeamSize sets the initial players-per-team count.
func WithTeamSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.queue = queue.New(queue.WithTeamSize(n))
		}
	}
}

// WithTiers sets the rank tier table.
func WithTiers(tiers []league.Tier) Option {
	return func(s *Service) {
		s.tiers = tiers
	}
}

// WithLeaderboardPageSize caps one leaderboard page.
func WithLeaderboardPageSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithRecentGamesLimit caps the recent-games listing.
func WithRecentGamesLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.recentGames = n
		}
	}
}

// WithQualityWarnThreshold flags created games whose predicted quality
// falls below the threshold.
func WithQualityWarnThreshold(q float64) Option {
	return func(s *Service) {
		if q > 0 && q <= 1 {
			s.qualityThreshold = q
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		env:              rating.NewEnv(),
		queue:            queue.New(),
		pageSize:         defaultPageSize,
		recentGames:      defaultRecentGames,
		qualityThreshold: defaultQualityThreshold,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start validates configuration and performs the initial replay.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		s.mu.Unlock()
		return ErrNoStore
	}
	if err := league.ValidateTiers(s.tiers); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("rank tiers: %w", err)
	}
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "starting matchmaking service...")

	if err := s.Refresh(ctx); err != nil {
		s.mu.Lock()
		s.started = false
		s.mu.Unlock()
		return fmt.Errorf("initial replay: %w", err)
	}

	s.logger.Info(ctx, "matchmaking service started",
		logger.Int("trackedPlayers", s.snapshotRef().Size()),
		logger.Int("teamSize", s.queue.TeamSize()),
	)
	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "matchmaking service stopped")
}

// Refresh replays the full game log and swaps in the resulting snapshot.
// On any error the previous snapshot stays in place.
func (s *Service) Refresh(ctx context.Context) error {
	start := time.Now()

	games, err := s.store.ListGames(ctx, "")
	if err != nil {
		metrics.RecordReplayError()
		return fmt.Errorf("listing games: %w", err)
	}

	snap, err := league.Rebuild(ctx, s.env, games)
	if err != nil {
		metrics.RecordReplayError()
		return err
	}

	var cancelled, undecided int
	for _, g := range games {
		switch g.Result {
		case model.ResultCancelled:
			cancelled++
		case model.ResultUndecided:
			undecided++
		}
	}

	s.mu.Lock()
	s.snapshot = snap
	s.totalGames = len(games)
	s.cancelledGames = cancelled
	s.undecidedGames = undecided
	s.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordReplay(float64(elapsed.Milliseconds()))
	metrics.UpdateGamesReplayed(len(games))
	metrics.UpdateTrackedPlayers(snap.Size())

	s.logger.Info(ctx, "replayed game log",
		logger.Int("games", len(games)),
		logger.Int("players", snap.Size()),
		logger.Int64("elapsedMs", elapsed.Milliseconds()),
	)
	return nil
}

// snapshotRef returns the current snapshot, never nil.
func (s *Service) snapshotRef() *league.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		snap, _ := league.Rebuild(context.Background(), s.env, nil)
		return snap
	}
	return s.snapshot
}

// JoinQueue adds a player to the queue. When the queue fills, a balanced
// game is created in the store and the cleared queue's rosters are
// returned; otherwise the returned game is nil.
func (s *Service) JoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error) {
	return s.join(ctx, id, false)
}

// ForceJoinQueue adds a player regardless of the freeze flag. Used by
// operators seeding a lobby.
func (s *Service) ForceJoinQueue(ctx context.Context, id model.PlayerID) (*NewGame, error) {
	return s.join(ctx, id, true)
}

func (s *Service) join(ctx context.Context, id model.PlayerID, force bool) (*NewGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Frozen() && !force {
		return nil, ErrQueueFrozen
	}
	if err := s.queue.Join(id); err != nil {
		return nil, err
	}
	metrics.RecordQueueJoin()
	metrics.UpdateQueueOccupancy(s.queue.Size())
	s.logger.Info(ctx, "player joined queue",
		logger.String("player", string(id)),
		logger.Int("size", s.queue.Size()),
	)

	if !s.queue.Full() {
		return nil, nil
	}
	return s.startGameLocked(ctx)
}

// startGameLocked balances the waiting players into a game, persists it,
// and removes the seated players from the queue. Caller holds s.mu.
func (s *Service) startGameLocked(ctx context.Context) (*NewGame, error) {
	players := s.queue.Snapshot()
	if n := s.queue.Capacity(); len(players) > n {
		players = players[:n]
	}
	snap := s.snapshot
	var beliefs map[model.PlayerID]rating.Belief
	if snap != nil {
		beliefs = snap.Beliefs(players)
	}

	start := time.Now()
	res, err := balance.SplitTeams(ctx, s.env, players, beliefs, nil)
	if err != nil {
		return nil, err
	}
	metrics.RecordBalance(float64(time.Since(start).Milliseconds()), res.Searched)

	g := model.Game{
		Team1:  res.TeamA,
		Team2:  res.TeamB,
		Result: model.ResultUndecided,
	}
	if err := s.store.CreateGame(ctx, g); err != nil {
		return nil, fmt.Errorf("creating game: %w", err)
	}
	metrics.RecordGameCreated()

	for _, id := range players {
		_ = s.queue.Leave(id)
	}
	metrics.UpdateQueueOccupancy(s.queue.Size())

	// The store assigns the id; read it back off the newest record.
	created, err := s.store.LastGame(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading created game: %w", err)
	}
	s.totalGames++
	s.undecidedGames++

	ng := &NewGame{
		ID:         created.ID,
		TeamA:      res.TeamA,
		TeamB:      res.TeamB,
		Quality:    res.Quality,
		LowQuality: res.Quality < s.qualityThreshold,
	}
	s.logger.Info(ctx, "game created",
		logger.Int64("game", ng.ID),
		logger.Float64("quality", ng.Quality),
		logger.Bool("lowQuality", ng.LowQuality),
	)
	if ng.LowQuality {
		s.logger.Warn(ctx, "low predicted match quality",
			logger.Int64("game", ng.ID),
			logger.Float64("quality", ng.Quality),
		)
	}
	return ng, nil
}

// LeaveQueue removes a player from the queue.
func (s *Service) LeaveQueue(ctx context.Context, id model.PlayerID) error {
	return s.leave(ctx, id, false)
}

// ForceLeaveQueue removes a player regardless of the freeze flag.
func (s *Service) ForceLeaveQueue(ctx context.Context, id model.PlayerID) error {
	return s.leave(ctx, id, true)
}

func (s *Service) leave(ctx context.Context, id model.PlayerID, force bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Frozen() && !force {
		return ErrQueueFrozen
	}
	if err := s.queue.Leave(id); err != nil {
		return err
	}
	metrics.RecordQueueLeave()
	metrics.UpdateQueueOccupancy(s.queue.Size())
	s.logger.Info(ctx, "player left queue",
		logger.String("player", string(id)),
		logger.Int("size", s.queue.Size()),
	)
	return nil
}

// ClearQueue drops every waiting player.
func (s *Service) ClearQueue(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Clear()
	metrics.UpdateQueueOccupancy(0)
	s.logger.Info(ctx, "queue cleared")
}

// FreezeQueue gates joins and leaves until UnfreezeQueue.
func (s *Service) FreezeQueue(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Freeze()
	s.logger.Info(ctx, "queue frozen")
}

// UnfreezeQueue reopens the queue.
func (s *Service) UnfreezeQueue(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue.Unfreeze()
	s.logger.Info(ctx, "queue unfrozen")
}

// SetTeamSize changes the players-per-team count. A change that leaves
// the queue at or over its new capacity starts a game immediately.
func (s *Service) SetTeamSize(ctx context.Context, n int) (*NewGame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.queue.SetTeamSize(n); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "team size changed", logger.Int("teamSize", n))
	if !s.queue.Full() {
		return nil, nil
	}
	return s.startGameLocked(ctx)
}

// QueueStatus reports the waiting players and queue configuration.
func (s *Service) QueueStatus(ctx context.Context) QueueInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return QueueInfo{
		Members:  s.queue.Snapshot(),
		TeamSize: s.queue.TeamSize(),
		Capacity: s.queue.Capacity(),
		Frozen:   s.queue.Frozen(),
	}
}

// Score records a decided result for a game and refreshes the league.
// Rescoring an already decided game is allowed; the replay makes the
// correction retroactive.
func (s *Service) Score(ctx context.Context, gameID int64, result model.Result) error {
	if !result.Decided() {
		return league.ErrInvalidOutcome
	}
	g, err := s.store.GameByID(ctx, gameID)
	if err != nil {
		return err
	}
	g.Result = result
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return err
	}
	s.logger.Info(ctx, "game scored",
		logger.Int64("game", gameID),
		logger.String("result", result.String()),
	)
	return s.Refresh(ctx)
}

// Cancel marks a game cancelled so the replay skips it.
func (s *Service) Cancel(ctx context.Context, gameID int64) error {
	g, err := s.store.GameByID(ctx, gameID)
	if err != nil {
		return err
	}
	g.Result = model.ResultCancelled
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return err
	}
	s.logger.Info(ctx, "game cancelled", logger.Int64("game", gameID))
	return s.Refresh(ctx)
}

// Rebalance re-splits the last game's participants, optionally overriding
// some players' skill estimates (display-rating units, mapped back to the
// model mean). Stored beliefs are never modified. Only an undecided game
// can be rebalanced.
func (s *Service) Rebalance(ctx context.Context, estimates map[model.PlayerID]float64) (*NewGame, error) {
	g, err := s.store.LastGame(ctx)
	if err != nil {
		return nil, err
	}
	if g.Result != model.ResultUndecided {
		return nil, ErrGameDecided
	}

	overrides := make(map[model.PlayerID]float64, len(estimates))
	for id, est := range estimates {
		if est < minEstimate || est > maxEstimate {
			return nil, fmt.Errorf("estimate %.0f for %q: %w", est, id, ErrEstimateOutOfRange)
		}
		overrides[id] = est / s.env.RatingScale()
	}

	players := g.Participants()
	snap := s.snapshotRef()

	start := time.Now()
	res, err := balance.SplitTeams(ctx, s.env, players, snap.Beliefs(players), overrides)
	if err != nil {
		return nil, err
	}
	metrics.RecordBalance(float64(time.Since(start).Milliseconds()), res.Searched)

	g.Team1, g.Team2 = res.TeamA, res.TeamB
	if err := s.store.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "game rebalanced",
		logger.Int64("game", g.ID),
		logger.Float64("quality", res.Quality),
	)
	return &NewGame{
		ID:         g.ID,
		TeamA:      res.TeamA,
		TeamB:      res.TeamB,
		Quality:    res.Quality,
		LowQuality: res.Quality < s.qualityThreshold,
	}, nil
}

// Swap exchanges two players across the last game's teams. Both must be
// participants and on opposite sides. Swapping a decided game changes
// who won, so the league is replayed afterwards.
func (s *Service) Swap(ctx context.Context, a, b model.PlayerID) (*NewGame, error) {
	g, err := s.store.LastGame(ctx)
	if err != nil {
		return nil, err
	}
	if !g.HasPlayer(a) || !g.HasPlayer(b) {
		return nil, ErrNotParticipant
	}
	if g.OnTeam1(a) == g.OnTeam1(b) {
		return nil, ErrSameTeam
	}

	replace := func(team []model.PlayerID, from, to model.PlayerID) {
		for i, id := range team {
			if id == from {
				team[i] = to
			}
		}
	}
	if g.OnTeam1(a) {
		replace(g.Team1, a, b)
		replace(g.Team2, b, a)
	} else {
		replace(g.Team1, b, a)
		replace(g.Team2, a, b)
	}

	if err := s.store.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	if g.Result.Decided() {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
	}

	snap := s.snapshotRef()
	team1 := make([]rating.Belief, len(g.Team1))
	for i, id := range g.Team1 {
		team1[i] = snap.Belief(id)
	}
	team2 := make([]rating.Belief, len(g.Team2))
	for i, id := range g.Team2 {
		team2[i] = snap.Belief(id)
	}
	q := s.env.Quality(team1, team2)

	s.logger.Info(ctx, "players swapped",
		logger.Int64("game", g.ID),
		logger.String("playerA", string(a)),
		logger.String("playerB", string(b)),
		logger.Float64("quality", q),
	)
	return &NewGame{
		ID:         g.ID,
		TeamA:      g.Team1,
		TeamB:      g.Team2,
		Quality:    q,
		LowQuality: q < s.qualityThreshold,
	}, nil
}

// Leaderboard returns one page of the rating listing, pages starting at 1.
func (s *Service) Leaderboard(ctx context.Context, page int) (LeaderboardPage, error) {
	if page < 1 {
		page = 1
	}
	snap := s.snapshotRef()
	all := snap.Leaderboard()

	totalPages := (len(all) + s.pageSize - 1) / s.pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	lo := (page - 1) * s.pageSize
	hi := lo + s.pageSize
	if hi > len(all) {
		hi = len(all)
	}

	return LeaderboardPage{
		Page:         page,
		TotalPages:   totalPages,
		TotalPlayers: len(all),
		Entries:      all[lo:hi],
	}, nil
}

// PlayerInfo returns the rating state and tier of one tracked player.
func (s *Service) PlayerInfo(ctx context.Context, id model.PlayerID) (PlayerView, error) {
	snap := s.snapshotRef()
	p := snap.Player(id)
	if p == nil {
		return PlayerView{}, ErrUnknownPlayer
	}

	tier, err := league.Classify(snap.Rating(id), s.tiers)
	if err != nil {
		return PlayerView{}, err
	}

	history := make([]league.HistoryPoint, len(p.History))
	copy(history, p.History)

	return PlayerView{
		ID:      id,
		Rating:  snap.Rating(id),
		Mean:    snap.Env().DisplayMean(p.Belief),
		Spread:  snap.Env().DisplaySpread(p.Belief),
		Wins:    p.Wins,
		Losses:  p.Losses,
		Draws:   p.Draws,
		Tier:    tier,
		History: history,
	}, nil
}

// GameInfo returns one game together with the rating change each
// participant took from it (decided games only).
func (s *Service) GameInfo(ctx context.Context, id int64) (GameView, error) {
	g, err := s.store.GameByID(ctx, id)
	if err != nil {
		return GameView{}, err
	}
	return s.gameView(g), nil
}

// LastGameInfo returns the most recently created game.
func (s *Service) LastGameInfo(ctx context.Context) (GameView, error) {
	g, err := s.store.LastGame(ctx)
	if err != nil {
		return GameView{}, err
	}
	return s.gameView(g), nil
}

func (s *Service) gameView(g model.Game) GameView {
	view := GameView{Game: g}
	if !g.Result.Decided() {
		return view
	}
	snap := s.snapshotRef()
	view.RatingChanges = make(map[model.PlayerID]float64, len(g.Team1)+len(g.Team2))
	for _, id := range g.Participants() {
		if p := snap.Player(id); p != nil {
			view.RatingChanges[id] = snap.RatingChange(p, g.ID)
		}
	}
	return view
}

// RecentGames returns the newest games first, capped by configuration.
// A non-empty playerID restricts the listing to that player's games.
func (s *Service) RecentGames(ctx context.Context, playerID model.PlayerID) ([]GameView, error) {
	games, err := s.store.ListGames(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if len(games) > s.recentGames {
		games = games[len(games)-s.recentGames:]
	}
	out := make([]GameView, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		out = append(out, s.gameView(games[i]))
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"teamSize": s.queue.TeamSize(),
	}
	if !s.started {
		return stats
	}

	decided := s.totalGames - s.cancelledGames - s.undecidedGames
	stats["queueSize"] = s.queue.Size()
	stats["queueFrozen"] = s.queue.Frozen()
	stats["totalGames"] = s.totalGames
	stats["decidedGames"] = decided
	stats["cancelledGames"] = s.cancelledGames
	stats["undecidedGames"] = s.undecidedGames
	if s.snapshot != nil {
		stats["trackedPlayers"] = s.snapshot.Size()
	}

	metrics.UpdateQueueOccupancy(s.queue.Size())
	return stats
}
