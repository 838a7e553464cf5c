package calculator

// Tier is one threshold bracket of a scoring table.
type Tier struct {
	Threshold float64
	Bonus     int
	Label     string
}

// Tiers is a scoring table ordered from the highest threshold to the lowest.
// Only the first matching bracket applies.
type Tiers []Tier

// Above returns the first tier whose threshold v strictly exceeds.
func (ts Tiers) Above(v float64) (Tier, bool) {
	for _, t := range ts {
		if v > t.Threshold {
			return t, true
		}
	}
	return Tier{}, false
}

// AtLeast returns the first tier whose threshold v reaches or exceeds.
func (ts Tiers) AtLeast(v float64) (Tier, bool) {
	for _, t := range ts {
		if v >= t.Threshold {
			return t, true
		}
	}
	return Tier{}, false
}
