package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New())
//  2. file (YAML) if RONDO_CONFIG is set
//  3. env (prefix RONDO_)
func Load(_ context.Context) (*Config, error) {
	// Start with defaults
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("RONDO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: RONDO_ADDR, RONDO_TEAM_SIZE, ...
	// Map env keys like RONDO_TEAM_SIZE -> team_size (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("RONDO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "rondo_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects configurations the service cannot run with.
func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreBaseURL == "":
		return fmt.Errorf("%w: store_base_url must not be empty", ErrInvalidConfig)
	case c.TeamSize < 1:
		return fmt.Errorf("%w: team_size must be positive", ErrInvalidConfig)
	case c.InitialStddev <= 0:
		return fmt.Errorf("%w: initial_stddev must be positive", ErrInvalidConfig)
	case c.Beta <= 0:
		return fmt.Errorf("%w: beta must be positive", ErrInvalidConfig)
	case c.DrawProbability < 0 || c.DrawProbability >= 1:
		return fmt.Errorf("%w: draw_probability must be in [0, 1)", ErrInvalidConfig)
	case c.RatingScale <= 0:
		return fmt.Errorf("%w: rating_scale must be positive", ErrInvalidConfig)
	case c.LeaderboardPageSize < 1:
		return fmt.Errorf("%w: leaderboard_page_size must be positive", ErrInvalidConfig)
	}

	for i, tier := range c.RankTiers {
		if tier.Label == "" {
			return fmt.Errorf("%w: rank tier %d has no label", ErrInvalidConfig, i)
		}
		if i > 0 && tier.UpperBound <= c.RankTiers[i-1].UpperBound {
			return fmt.Errorf("%w: rank tier bounds must ascend (tier %d)", ErrInvalidConfig, i)
		}
	}
	return nil
}
