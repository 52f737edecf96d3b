// Package rating implements the Bayesian skill model used to rate players
// and to judge how evenly matched two teams are.
//
// A player's skill is a Gaussian belief (Mu, Sigma). Team performance adds
// per-player performance noise Beta on top of skill, and every rated game
// inflates skill variance by the drift Tau so long-inactive players stay
// movable. The two-team update is the closed form over truncated Gaussian
// moments; see gaussian.go.
package rating

import "math"

// Default model constants. The prior follows the convention that a new
// player's mean sits mu0 and the scale is chosen so mu0 = 3*sigma0.
const (
	defaultInitialMean   = 25.0
	defaultInitialStddev = defaultInitialMean / 3.0
	defaultBeta          = defaultInitialStddev / 2.0
	defaultTau           = defaultInitialStddev / 100.0
	defaultDrawProb      = 0.10
	defaultConservativeK = 2.0
	defaultRatingScale   = 100.0
)

// Belief is a Gaussian estimate of a player's latent skill.
type Belief struct {
	Mu    float64
	Sigma float64
}

// Env bundles the tunable constants of the skill model. A single Env is
// shared by every rating computation so replays stay deterministic.
type Env struct {
	initialMean   float64
	initialStddev float64
	beta          float64
	tau           float64
	drawProb      float64
	conservativeK float64
	ratingScale   float64
}

// Option applies a configuration option to the Env.
type Option func(*Env)

// WithInitialMean sets the prior mean for unrated players.
func WithInitialMean(mu float64) Option {
	return func(e *Env) {
		if mu > 0 {
			e.initialMean = mu
		}
	}
}

// WithInitialStddev sets the prior standard deviation for unrated players.
func WithInitialStddev(sigma float64) Option {
	return func(e *Env) {
		if sigma > 0 {
			e.initialStddev = sigma
		}
	}
}

// WithBeta sets the per-game performance noise.
func WithBeta(beta float64) Option {
	return func(e *Env) {
		if beta > 0 {
			e.beta = beta
		}
	}
}

// WithTau sets the per-game skill drift.
func WithTau(tau float64) Option {
	return func(e *Env) {
		if tau >= 0 {
			e.tau = tau
		}
	}
}

// WithDrawProbability sets the modeled probability of a draw.
func WithDrawProbability(p float64) Option {
	return func(e *Env) {
		if p >= 0 && p < 1 {
			e.drawProb = p
		}
	}
}

// WithConservativeK sets the number of deviations subtracted from the mean
// when computing the conservative rating.
func WithConservativeK(k float64) Option {
	return func(e *Env) {
		if k >= 0 {
			e.conservativeK = k
		}
	}
}

// WithRatingScale sets the display multiplier applied to conservative ratings.
func WithRatingScale(scale float64) Option {
	return func(e *Env) {
		if scale > 0 {
			e.ratingScale = scale
		}
	}
}

// NewEnv creates an Env with default constants and applies options.
func NewEnv(opts ...Option) *Env {
	e := &Env{
		initialMean:   defaultInitialMean,
		initialStddev: defaultInitialStddev,
		beta:          defaultBeta,
		tau:           defaultTau,
		drawProb:      defaultDrawProb,
		conservativeK: defaultConservativeK,
		ratingScale:   defaultRatingScale,
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// NewBelief returns the prior belief assigned to an unrated player.
func (e *Env) NewBelief() Belief {
	return Belief{Mu: e.initialMean, Sigma: e.initialStddev}
}

// Rating collapses a belief into the single conservative scalar used for
// leaderboard ordering and tier classification. Low-uncertainty high-mean
// beliefs score best; unproven players are penalized by conservativeK
// deviations.
func (e *Env) Rating(b Belief) float64 {
	return e.ratingScale * (b.Mu - e.conservativeK*b.Sigma)
}

// DisplayMean returns the scaled mean shown alongside the conservative
// rating in listings.
func (e *Env) DisplayMean(b Belief) float64 {
	return e.ratingScale * b.Mu
}

// DisplaySpread returns the scaled k-deviation uncertainty shown as a ±
// interval in listings.
func (e *Env) DisplaySpread(b Belief) float64 {
	return e.ratingScale * e.conservativeK * b.Sigma
}

// RatingScale returns the display multiplier, letting callers convert
// display-rating units back to model means.
func (e *Env) RatingScale() float64 {
	return e.ratingScale
}

// Quality estimates the probability that a game between the two teams would
// end in a draw, in [0,1]. It is symmetric under swapping the teams and is
// used purely as a balance metric.
func (e *Env) Quality(team1, team2 []Belief) float64 {
	if len(team1) == 0 || len(team2) == 0 {
		return 0
	}

	var mu1, mu2, varSum float64
	for _, b := range team1 {
		mu1 += b.Mu
		varSum += b.Sigma * b.Sigma
	}
	for _, b := range team2 {
		mu2 += b.Mu
		varSum += b.Sigma * b.Sigma
	}

	n := float64(len(team1) + len(team2))
	betaN := n * e.beta * e.beta
	denom := betaN + varSum
	meanDelta := mu1 - mu2

	return math.Sqrt(betaN/denom) * math.Exp(-meanDelta*meanDelta/(2*denom))
}
