package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/rondo/internal/simlog"
	"github.com/okian/rondo/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumPlayers = 20
	defaultNumGames   = 100
	defaultTeamSize   = 4
	defaultDrawRate   = 0.08
	defaultCancelRate = 0.05
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		storeURL   = flag.String("store", "http://localhost:5000/api", "Base URL of the game store API")
		numPlayers = flag.Int("players", defaultNumPlayers, "Size of the simulated player pool")
		numGames   = flag.Int("games", defaultNumGames, "Number of games to generate")
		teamSize   = flag.Int("teamsize", defaultTeamSize, "Players per team")
		drawRate   = flag.Float64("draws", defaultDrawRate, "Fraction of games that end drawn")
		cancelRate = flag.Float64("cancels", defaultCancelRate, "Fraction of games that get cancelled")
		seed       = flag.Int64("seed", 0, "RNG seed (0 picks one from the clock)")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &simlog.Config{
		StoreURL:   *storeURL,
		NumPlayers: *numPlayers,
		NumGames:   *numGames,
		TeamSize:   *teamSize,
		DrawRate:   *drawRate,
		CancelRate: *cancelRate,
		Seed:       *seed,
		Timeout:    *timeout,
	}

	if _, err := simlog.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("simulation failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
