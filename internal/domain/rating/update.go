package rating

import "math"

// Rate applies the Bayesian skill update for a finished two-team game.
//
// rank1 and rank2 order the teams by result: 0 is best and equal ranks mean
// a draw. The returned slices hold the posterior beliefs in the same order
// as the input rosters; the inputs are never mutated.
func (e *Env) Rate(team1, team2 []Belief, rank1, rank2 int) ([]Belief, []Belief, error) {
	if len(team1) == 0 || len(team2) == 0 {
		return nil, nil, ErrEmptyTeam
	}

	// Inflate every prior by the drift before inference. This is what keeps
	// sigma bounded above by sqrt(sigma^2 + tau^2) after the update.
	t1 := driftInflate(team1, e.tau)
	t2 := driftInflate(team2, e.tau)

	var mu1, mu2, varSum float64
	for _, b := range t1 {
		mu1 += b.Mu
		varSum += b.Sigma * b.Sigma
	}
	for _, b := range t2 {
		mu2 += b.Mu
		varSum += b.Sigma * b.Sigma
	}

	total := len(t1) + len(t2)
	c := math.Sqrt(varSum + float64(total)*e.beta*e.beta)
	eps := drawMargin(e.drawProb, e.beta, total) / c

	switch {
	case rank1 == rank2: // draw
		d := (mu1 - mu2) / c
		applyTeam(t1, c, vWithin(d, eps), wWithin(d, eps))
		applyTeam(t2, c, vWithin(-d, eps), wWithin(-d, eps))
	case rank1 < rank2: // team1 won
		d := (mu1 - mu2) / c
		v, w := vExceeds(d, eps), wExceeds(d, eps)
		applyTeam(t1, c, v, w)
		applyTeam(t2, c, -v, w)
	default: // team2 won
		d := (mu2 - mu1) / c
		v, w := vExceeds(d, eps), wExceeds(d, eps)
		applyTeam(t1, c, -v, w)
		applyTeam(t2, c, v, w)
	}

	return t1, t2, nil
}

// driftInflate copies the team beliefs with tau^2 added to each variance.
func driftInflate(team []Belief, tau float64) []Belief {
	out := make([]Belief, len(team))
	for i, b := range team {
		out[i] = Belief{
			Mu:    b.Mu,
			Sigma: math.Sqrt(b.Sigma*b.Sigma + tau*tau),
		}
	}
	return out
}

// applyTeam folds the truncated-Gaussian moments back into each drifted
// prior. Players with wider priors move further, and w < 1 only ever
// shrinks the variance relative to the drifted prior.
func applyTeam(team []Belief, c, v, w float64) {
	for i, b := range team {
		variance := b.Sigma * b.Sigma
		team[i] = Belief{
			Mu:    b.Mu + variance/c*v,
			Sigma: b.Sigma * math.Sqrt(math.Max(1-variance/(c*c)*w, 0)),
		}
	}
}
