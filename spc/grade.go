package spc

// Grade classifies a Cpk value into a quality band.
type Grade uint8

const (
	// NeedsImprovement indicates Cpk below 1.0.
	NeedsImprovement Grade = iota
	// Acceptable indicates Cpk in [1.0, 1.33).
	Acceptable
	// Good indicates Cpk in [1.33, 1.67).
	Good
	// Excellent indicates Cpk of 1.67 or better.
	Excellent
)

func (g Grade) String() string {
	switch g {
	case Excellent:
		return "Excellent"
	case Good:
		return "Good"
	case Acceptable:
		return "Acceptable"
	default:
		return "NeedsImprovement"
	}
}

// Classify maps a Cpk value onto its quality grade at the conventional
// 1.67 / 1.33 / 1.0 thresholds.
func Classify(cpk float64) Grade {
	switch {
	case cpk >= 1.67:
		return Excellent
	case cpk >= 1.33:
		return Good
	case cpk >= 1.0:
		return Acceptable
	default:
		return NeedsImprovement
	}
}
