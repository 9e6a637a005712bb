package model

// TeamSnapshot is the per-evaluation view of a squad's gameweek.
// It is built fresh for each evaluation and never mutated afterwards.
type TeamSnapshot struct {
	Gameweek int

	Starters []PlayerMetric
	Bench    []PlayerMetric
	// Captain is nil when the payload names no captain.
	Captain     *PlayerMetric
	ViceCaptain *PlayerMetric

	// Starting positional subsets.
	Goalkeepers []PlayerMetric
	Defenders   []PlayerMetric
	Midfielders []PlayerMetric
	Forwards    []PlayerMetric

	LivePoints  int
	BenchPoints int
	// Hit is the transfer penalty, zero or negative.
	Hit         int
	Safety      int
	PointsFinal int

	OldRank         int
	NewRank         int
	RankDelta       int
	RankPercentGain float64

	// Unsettled is true while a starter's result is not final.
	Unsettled bool
	// PendingPlayers names the starters that make the snapshot unsettled.
	PendingPlayers []string
}

// CaptainBase returns the captain's base points, or 0 without a captain.
func (s *TeamSnapshot) CaptainBase() int {
	if s.Captain == nil {
		return 0
	}
	return s.Captain.BasePoints
}

// SafetyMargin is the final score minus the safety baseline.
func (s *TeamSnapshot) SafetyMargin() int {
	return s.PointsFinal - s.Safety
}
