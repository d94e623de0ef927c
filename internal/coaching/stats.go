package coaching

import "math"

// SessionStat is the score/duration pair of one stored session. Either
// value may be missing.
type SessionStat struct {
	Score           *float64
	DurationSeconds *float64
}

// PracticeStats summarizes a user's practice history.
type PracticeStats struct {
	TotalSessions        int     `json:"total_sessions"`
	AverageScore         float64 `json:"average_score"`
	BestScore            float64 `json:"best_score"`
	TotalPracticeSeconds int     `json:"total_practice_time_seconds"`
	TotalPracticeMinutes int     `json:"total_practice_time_minutes"`
}

// Aggregate reduces sessions to PracticeStats. TotalSessions counts every
// session; score metrics consider only scored sessions; practice time sums
// every session with missing durations counted as zero. The input is not
// modified.
func Aggregate(sessions []SessionStat) PracticeStats {
	var (
		scored   int
		sum      float64
		best     float64
		duration float64
	)

	for _, s := range sessions {
		if s.DurationSeconds != nil {
			duration += *s.DurationSeconds
		}
		if s.Score == nil {
			continue
		}
		if scored == 0 || *s.Score > best {
			best = *s.Score
		}
		sum += *s.Score
		scored++
	}

	stats := PracticeStats{
		TotalSessions:        len(sessions),
		BestScore:            best,
		TotalPracticeSeconds: int(math.Round(duration)),
		TotalPracticeMinutes: int(math.Round(duration / 60)),
	}
	if scored > 0 {
		stats.AverageScore = roundTo(sum/float64(scored), 1)
	}
	return stats
}

// roundTo rounds half away from zero to the given number of decimals.
func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
