// Package simlog generates a plausible synthetic game history and seeds
// it into a game store, for demos and load checks. Each simulated player
// carries a hidden true skill; outcomes are biased by the skill gap so a
// replay of the generated log produces a believable ladder.
package simlog

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/rondo/internal/adapters/gamestore"
	"github.com/okian/rondo/internal/domain/model"
	"github.com/okian/rondo/pkg/logger"
)

// Config holds configuration for one simulation run.
type Config struct {
	StoreURL   string        // Base URL of the game store API
	NumPlayers int           // Size of the simulated player pool
	NumGames   int           // Number of games to generate
	TeamSize   int           // Players per team
	DrawRate   float64       // Fraction of decided games that end drawn
	CancelRate float64       // Fraction of games that get cancelled
	Seed       int64         // RNG seed; 0 picks one from the clock
	Timeout    time.Duration // HTTP request timeout
}

// Stats holds the counters of one run.
type Stats struct {
	GamesCreated   int
	GamesDecided   int
	GamesDrawn     int
	GamesCancelled int
	Duration       time.Duration
}

// Run generates the configured history and pushes it through the store
// client game by game: create, then score.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.NumPlayers < 2*cfg.TeamSize {
		return nil, fmt.Errorf("%w: %d players cannot fill two teams of %d",
			ErrPoolTooSmall, cfg.NumPlayers, cfg.TeamSize)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := newGenerator(seed, cfg)
	client := gamestore.New(cfg.StoreURL, gamestore.WithTimeout(cfg.Timeout))
	log := logger.Named("simlog")

	log.Info(ctx, "seeding synthetic game log",
		logger.Int("players", cfg.NumPlayers),
		logger.Int("games", cfg.NumGames),
		logger.Int64("seed", seed),
	)

	stats := &Stats{}
	start := time.Now()
	for i := 0; i < cfg.NumGames; i++ {
		select {
		case <-ctx.Done():
			return stats, fmt.Errorf("simulation interrupted: %w", ctx.Err())
		default:
		}

		g := gen.nextGame()
		if err := client.CreateGame(ctx, model.Game{
			Team1:  g.Team1,
			Team2:  g.Team2,
			Result: model.ResultUndecided,
		}); err != nil {
			return stats, fmt.Errorf("creating game %d: %w", i+1, err)
		}
		stats.GamesCreated++

		created, err := client.LastGame(ctx)
		if err != nil {
			return stats, fmt.Errorf("reading back game %d: %w", i+1, err)
		}
		created.Result = g.Result
		if err := client.UpdateGame(ctx, created); err != nil {
			return stats, fmt.Errorf("scoring game %d: %w", created.ID, err)
		}

		switch g.Result {
		case model.ResultCancelled:
			stats.GamesCancelled++
		case model.ResultDraw:
			stats.GamesDecided++
			stats.GamesDrawn++
		default:
			stats.GamesDecided++
		}
	}
	stats.Duration = time.Since(start)

	log.Info(ctx, "simulation complete",
		logger.Int("created", stats.GamesCreated),
		logger.Int("decided", stats.GamesDecided),
		logger.Int("drawn", stats.GamesDrawn),
		logger.Int("cancelled", stats.GamesCancelled),
		logger.Int64("elapsedMs", stats.Duration.Milliseconds()),
	)
	return stats, nil
}

// simPlayer pairs a public id with the hidden skill driving outcomes.
type simPlayer struct {
	id    model.PlayerID
	skill float64
}

// generator produces biased random games over a fixed player pool.
type generator struct {
	rng      *rand.Rand
	players  []simPlayer
	teamSize int
	draw     float64
	cancel   float64
}

func newGenerator(seed int64, cfg *Config) *generator {
	rng := rand.New(rand.NewSource(seed))
	players := make([]simPlayer, cfg.NumPlayers)
	for i := range players {
		players[i] = simPlayer{
			id: model.PlayerID(uuid.New().String()),
			// Hidden skills spread like the rating prior.
			skill: 25 + rng.NormFloat64()*25/3,
		}
	}
	return &generator{
		rng:      rng,
		players:  players,
		teamSize: cfg.TeamSize,
		draw:     cfg.DrawRate,
		cancel:   cfg.CancelRate,
	}
}

// nextGame draws a roster and an outcome. The stronger side wins more
// often; the winner is decided by comparing noisy team performances.
func (g *generator) nextGame() model.Game {
	need := 2 * g.teamSize
	picked := g.rng.Perm(len(g.players))[:need]

	team1 := make([]model.PlayerID, g.teamSize)
	team2 := make([]model.PlayerID, g.teamSize)
	var skill1, skill2 float64
	for i, idx := range picked {
		p := g.players[idx]
		if i < g.teamSize {
			team1[i] = p.id
			skill1 += p.skill
		} else {
			team2[i-g.teamSize] = p.id
			skill2 += p.skill
		}
	}

	result := model.ResultTeam2
	switch {
	case g.rng.Float64() < g.cancel:
		result = model.ResultCancelled
	case g.rng.Float64() < g.draw:
		result = model.ResultDraw
	default:
		// Per-team performance noise on top of the summed skills.
		noise := 25.0 / 6.0 * float64(g.teamSize)
		perf1 := skill1 + g.rng.NormFloat64()*noise
		perf2 := skill2 + g.rng.NormFloat64()*noise
		if perf1 > perf2 {
			result = model.ResultTeam1
		}
	}

	return model.Game{Team1: team1, Team2: team2, Result: result}
}
