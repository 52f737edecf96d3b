// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults, Load(ctx) to layer
//   defaults, optional file, and environment variables.
// - External errors must be wrapped via this package's error helpers.
package config

import "math"

// TierConfig describes one rank tier boundary.
type TierConfig struct {
	// UpperBound is the exclusive conservative-rating bound of the tier.
	// The last tier ignores its bound and catches everything above.
	UpperBound float64 `koanf:"upper_bound"`

	// Label is the human-readable tier name.
	Label string `koanf:"label"`

	// RoleID is an optional external role identifier attached to the tier.
	RoleID string `koanf:"role_id"`
}

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StoreBaseURL points at the external game store API root.
	StoreBaseURL string `koanf:"store_base_url"`

	// StoreTimeoutMS bounds each game store request.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// TeamSize is the number of players per team when a queue fills.
	TeamSize int `koanf:"team_size"`

	// InitialMean and InitialStddev parameterize the prior belief for
	// players with no recorded games.
	InitialMean   float64 `koanf:"initial_mean"`
	InitialStddev float64 `koanf:"initial_stddev"`

	// Beta is the per-player performance variability.
	Beta float64 `koanf:"beta"`

	// Tau is the additive dynamics factor applied before each update.
	Tau float64 `koanf:"tau"`

	// DrawProbability is the prior chance of a drawn game.
	DrawProbability float64 `koanf:"draw_probability"`

	// ConservativeK sets how many standard deviations below the mean the
	// displayed rating sits.
	ConservativeK float64 `koanf:"conservative_k"`

	// RatingScale multiplies the conservative rating for display.
	RatingScale float64 `koanf:"rating_scale"`

	// LeaderboardPageSize caps one page of GET /leaderboard.
	LeaderboardPageSize int `koanf:"leaderboard_page_size"`

	// RecentGamesLimit caps GET /games.
	RecentGamesLimit int `koanf:"recent_games_limit"`

	// QualityWarnThreshold flags newly created games whose predicted
	// match quality falls below it.
	QualityWarnThreshold float64 `koanf:"quality_warn_threshold"`

	// RankTiers lists tier boundaries in ascending bound order.
	RankTiers []TierConfig `koanf:"rank_tiers"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		StoreBaseURL:         "http://localhost:5000/api",
		StoreTimeoutMS:       10_000,
		TeamSize:             4,
		InitialMean:          25.0,
		InitialStddev:        25.0 / 3.0,
		Beta:                 25.0 / 6.0,
		Tau:                  25.0 / 300.0,
		DrawProbability:      0.10,
		ConservativeK:        2.0,
		RatingScale:          100.0,
		LeaderboardPageSize:  20,
		RecentGamesLimit:     20,
		QualityWarnThreshold: 0.8,
		RankTiers: []TierConfig{
			{UpperBound: 1000, Label: "Silver"},
			{UpperBound: 2000, Label: "Gold"},
			{UpperBound: math.Inf(1), Label: "Diamond"},
		},
	}
}
