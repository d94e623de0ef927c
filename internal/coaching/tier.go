package coaching

// Tier is a qualitative performance band derived from a score.
type Tier int

const (
	TierImproving Tier = iota
	TierFair
	TierGood
	TierExcellent
)

// Tier thresholds, inclusive lower bounds.
const (
	ExcellentThreshold = 90
	GoodThreshold      = 75
	FairThreshold      = 60
)

// Classify maps a score to its tier. Scores outside 0-100 are accepted.
func Classify(score float64) Tier {
	switch {
	case score >= ExcellentThreshold:
		return TierExcellent
	case score >= GoodThreshold:
		return TierGood
	case score >= FairThreshold:
		return TierFair
	default:
		return TierImproving
	}
}

func (t Tier) String() string {
	switch t {
	case TierExcellent:
		return "excellent"
	case TierGood:
		return "good"
	case TierFair:
		return "fair"
	default:
		return "improving"
	}
}
