package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/rondo/internal/adapters/gamestore"
	"github.com/okian/rondo/internal/adapters/http/api"
	app "github.com/okian/rondo/internal/app"
	"github.com/okian/rondo/internal/config"
	"github.com/okian/rondo/internal/domain/league"
	"github.com/okian/rondo/internal/domain/rating"
	"github.com/okian/rondo/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second

	// refreshInterval bounds how stale the league snapshot can get when
	// games are written to the store by someone else.
	refreshInterval = 60 * time.Second
)

func main() {
	// Initialize logging
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	env := rating.NewEnv(
		rating.WithInitialMean(cfg.InitialMean),
		rating.WithInitialStddev(cfg.InitialStddev),
		rating.WithBeta(cfg.Beta),
		rating.WithTau(cfg.Tau),
		rating.WithDrawProbability(cfg.DrawProbability),
		rating.WithConservativeK(cfg.ConservativeK),
		rating.WithRatingScale(cfg.RatingScale),
	)

	tiers := make([]league.Tier, len(cfg.RankTiers))
	for i, t := range cfg.RankTiers {
		tiers[i] = league.Tier{UpperBound: t.UpperBound, Label: t.Label, RoleID: t.RoleID}
	}

	store := gamestore.New(cfg.StoreBaseURL,
		gamestore.WithTimeout(time.Duration(cfg.StoreTimeoutMS)*time.Millisecond),
	)

	// Create and start the service with configuration options
	svc := app.New(
		app.WithLogger(log),
		app.WithStore(store),
		app.WithEnv(env),
		app.WithTiers(tiers),
		app.WithTeamSize(cfg.TeamSize),
		app.WithLeaderboardPageSize(cfg.LeaderboardPageSize),
		app.WithRecentGamesLimit(cfg.RecentGamesLimit),
		app.WithQualityWarnThreshold(cfg.QualityWarnThreshold),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Keep the snapshot current against out-of-band store writes.
	go startRefreshLoop(ctx, svc, log)

	// HTTP mux and routes.
	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// startRefreshLoop periodically replays the game log.
func startRefreshLoop(ctx context.Context, svc *app.Service, log logger.Logger) {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := svc.Refresh(ctx); err != nil {
				log.Warn(ctx, "periodic refresh failed", logger.Error(err))
			}
		}
	}
}
