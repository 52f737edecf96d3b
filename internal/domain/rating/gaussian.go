// Truncated Gaussian moment helpers for the two-team update.
//
// Variables follow the naming of the published model:
//   - T: scaled team performance difference (meanDelta / c).
//   - Eps: scaled draw margin.
//   - V: additive correction to the mean of the truncated performance belief.
//   - W: multiplicative shrink of its variance, in (0, 1].
//
// V and W come in two flavors: "exceeds" (observed decisive outcome, the
// difference exceeded the draw margin) and "within" (observed draw, the
// difference landed inside the margin).
package rating

import "math"

// denomFloor guards the divisions below; at this magnitude the cumulative
// probability mass of the observed outcome has underflowed and the limiting
// expressions are used instead.
const denomFloor = 1e-158

var invSqrt2Pi = 1 / math.Sqrt(2*math.Pi)

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return invSqrt2Pi * math.Exp(-0.5*x*x)
}

// normCDF is the standard normal cumulative distribution.
func normCDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

// normInvCDF is the standard normal quantile function.
func normInvCDF(p float64) float64 {
	return -math.Sqrt2 * math.Erfcinv(2*p)
}

// drawMargin converts a draw probability into the performance margin within
// which a game of totalPlayers participants is observed as a draw.
func drawMargin(drawProb, beta float64, totalPlayers int) float64 {
	return normInvCDF(0.5*(drawProb+1)) * math.Sqrt(float64(totalPlayers)) * beta
}

// vExceeds is the mean correction given the winner exceeded the draw margin.
func vExceeds(t, eps float64) float64 {
	x := t - eps
	denom := normCDF(x)
	if denom < denomFloor {
		return -x
	}
	return normPDF(x) / denom
}

// wExceeds is the variance shrink given the winner exceeded the draw margin.
func wExceeds(t, eps float64) float64 {
	x := t - eps
	denom := normCDF(x)
	if denom < denomFloor {
		if x < 0 {
			return 1
		}
		return 0
	}
	v := vExceeds(t, eps)
	return v * (v + x)
}

// vWithin is the mean correction given the difference stayed within the draw
// margin. Odd in t: a draw pulls the stronger team down and the weaker up.
func vWithin(t, eps float64) float64 {
	x := math.Abs(t)
	denom := normCDF(eps-x) - normCDF(-eps-x)
	if denom < denomFloor {
		if t < 0 {
			return -t - eps
		}
		return -t + eps
	}
	v := (normPDF(-eps-x) - normPDF(eps-x)) / denom
	if t < 0 {
		return -v
	}
	return v
}

// wWithin is the variance shrink given the difference stayed within the draw
// margin.
func wWithin(t, eps float64) float64 {
	x := math.Abs(t)
	denom := normCDF(eps-x) - normCDF(-eps-x)
	if denom < denomFloor {
		return 1
	}
	v := vWithin(x, eps)
	return v*v + ((eps-x)*normPDF(eps-x)+(eps+x)*normPDF(eps+x))/denom
}
