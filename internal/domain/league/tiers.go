package league

// Tier is one labeled rating bracket. Tiers are configured ascending by
// UpperBound; the last tier is open-ended regardless of its bound.
type Tier struct {
	UpperBound float64
	Label      string
	// RoleID optionally names an external role to grant for the tier.
	RoleID string
}

// Classify returns the first tier whose upper bound strictly exceeds
// rating. The last tier catches everything above the final bound.
func Classify(ratingValue float64, tiers []Tier) (Tier, error) {
	if len(tiers) == 0 {
		return Tier{}, ErrNoTierConfigured
	}
	for _, t := range tiers[:len(tiers)-1] {
		if ratingValue < t.UpperBound {
			return t, nil
		}
	}
	return tiers[len(tiers)-1], nil
}

// ValidateTiers checks that bounds are strictly ascending and labels are
// non-empty.
func ValidateTiers(tiers []Tier) error {
	prev := 0.0
	for i, t := range tiers {
		if t.Label == "" {
			return ErrNoTierConfigured
		}
		if i > 0 && t.UpperBound <= prev {
			return ErrTierOrder
		}
		prev = t.UpperBound
	}
	return nil
}
