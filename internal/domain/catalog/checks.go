package catalog

import (
	"fmt"
	"strconv"

	"github.com/okian/gwbadge/internal/domain/model"
)

type (
	scalar  func(*model.TeamSnapshot) int
	percent func(*model.TeamSnapshot) float64
	group   func(*model.TeamSnapshot) []model.PlayerMetric
	match   func(model.PlayerMetric) bool
)

// Snapshot accessors.
var (
	captainBase  scalar = (*model.TeamSnapshot).CaptainBase
	safetyMargin scalar = (*model.TeamSnapshot).SafetyMargin
	pointsFinal  scalar = func(s *model.TeamSnapshot) int { return s.PointsFinal }
	benchPoints  scalar = func(s *model.TeamSnapshot) int { return s.BenchPoints }
	hit          scalar = func(s *model.TeamSnapshot) int { return s.Hit }
	rankDelta    scalar = func(s *model.TeamSnapshot) int { return s.RankDelta }

	rankGain percent = func(s *model.TeamSnapshot) float64 { return s.RankPercentGain }

	starters    group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Starters }
	bench       group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Bench }
	goalkeepers group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Goalkeepers }
	defenders   group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Defenders }
	midfielders group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Midfielders }
	forwards    group = func(s *model.TeamSnapshot) []model.PlayerMetric { return s.Forwards }
)

// Player matchers.

func baseAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.BasePoints >= n }
}

func baseAtMost(n int) match {
	return func(p model.PlayerMetric) bool { return p.BasePoints <= n }
}

func goalsAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.Goals >= n }
}

func assistsAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.Assists >= n }
}

func bonusAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.Bonus >= n }
}

func minutesAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.Minutes >= n }
}

func savesAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.Saves >= n }
}

func concededAtLeast(n int) match {
	return func(p model.PlayerMetric) bool { return p.GoalsConceded >= n }
}

func cleanSheet(p model.PlayerMetric) bool      { return p.KeptCleanSheet() }
func redCard(p model.PlayerMetric) bool         { return p.RedCards > 0 }
func ownGoal(p model.PlayerMetric) bool         { return p.OwnGoals > 0 }
func missedPenalty(p model.PlayerMetric) bool   { return p.PenaltiesMissed > 0 }
func savedPenalty(p model.PlayerMetric) bool    { return p.PenaltiesSaved > 0 }
func defensiveAction(p model.PlayerMetric) bool { return p.DefensiveActions > 0 }

// differential matches low-ownership players who performed.
func differential(maxOwnership float64, minBase int) match {
	return func(p model.PlayerMetric) bool {
		return p.EliteOwnership < maxOwnership && p.BasePoints >= minBase
	}
}

// Check builders.

func ratio(cur, target int) string {
	return strconv.Itoa(cur) + "/" + strconv.Itoa(target)
}

// atLeast unlocks when v >= target; progress is "v/target".
func atLeast(v scalar, target int) Check {
	return Check{
		Pass:     func(s *model.TeamSnapshot) bool { return v(s) >= target },
		Progress: func(s *model.TeamSnapshot) string { return ratio(v(s), target) },
	}
}

// atMost unlocks when v <= limit; progress is the current value.
func atMost(v scalar, limit int) Check {
	return Check{
		Pass:     func(s *model.TeamSnapshot) bool { return v(s) <= limit },
		Progress: func(s *model.TeamSnapshot) string { return strconv.Itoa(v(s)) },
	}
}

// equals unlocks when v == want; progress is the current value.
func equals(v scalar, want int) Check {
	return Check{
		Pass:     func(s *model.TeamSnapshot) bool { return v(s) == want },
		Progress: func(s *model.TeamSnapshot) string { return strconv.Itoa(v(s)) },
	}
}

func pct(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// percentAtLeast unlocks when v >= target.
func percentAtLeast(v percent, target float64) Check {
	return Check{
		Pass:     func(s *model.TeamSnapshot) bool { return v(s) >= target },
		Progress: func(s *model.TeamSnapshot) string { return pct(v(s)) + "/" + pct(target) },
	}
}

// percentAtMost unlocks when v <= limit.
func percentAtMost(v percent, limit float64) Check {
	return Check{
		Pass:     func(s *model.TeamSnapshot) bool { return v(s) <= limit },
		Progress: func(s *model.TeamSnapshot) string { return pct(v(s)) },
	}
}

func names(players []model.PlayerMetric, m match) []string {
	out := []string{}
	for _, p := range players {
		if m(p) {
			out = append(out, p.Name)
		}
	}
	return out
}

// countAtLeast unlocks when at least k players of the group match.
func countAtLeast(g group, m match, k int) Check {
	return Check{
		Pass:         func(s *model.TeamSnapshot) bool { return len(names(g(s), m)) >= k },
		Progress:     func(s *model.TeamSnapshot) string { return ratio(len(names(g(s), m)), k) },
		Contributors: func(s *model.TeamSnapshot) []string { return names(g(s), m) },
	}
}

// anyOf unlocks when one player of the group matches. No progress text.
func anyOf(g group, m match) Check {
	return Check{
		Pass:         func(s *model.TeamSnapshot) bool { return len(names(g(s), m)) > 0 },
		Contributors: func(s *model.TeamSnapshot) []string { return names(g(s), m) },
	}
}

// allOf unlocks when every player of a non-empty group matches. An empty
// group never unlocks.
func allOf(g group, m match) Check {
	return Check{
		Pass: func(s *model.TeamSnapshot) bool {
			players := g(s)
			return len(players) > 0 && len(names(players, m)) == len(players)
		},
		Progress:     func(s *model.TeamSnapshot) string { return ratio(len(names(g(s), m)), len(g(s))) },
		Contributors: func(s *model.TeamSnapshot) []string { return names(g(s), m) },
	}
}

// sumAtLeast unlocks when a per-player counter summed over the group
// reaches target.
func sumAtLeast(g group, field func(model.PlayerMetric) int, target int) Check {
	sum := func(s *model.TeamSnapshot) int {
		total := 0
		for _, p := range g(s) {
			total += field(p)
		}
		return total
	}
	return Check{
		Pass:         func(s *model.TeamSnapshot) bool { return sum(s) >= target },
		Progress:     func(s *model.TeamSnapshot) string { return ratio(sum(s), target) },
		Contributors: func(s *model.TeamSnapshot) []string { return names(g(s), func(p model.PlayerMetric) bool { return field(p) > 0 }) },
	}
}

// viceOutscoredCaptain needs both armbands present.
func viceOutscoredCaptain() Check {
	return Check{
		Pass: func(s *model.TeamSnapshot) bool {
			return s.Captain != nil && s.ViceCaptain != nil && s.ViceCaptain.BasePoints > s.Captain.BasePoints
		},
		Progress: func(s *model.TeamSnapshot) string {
			vice := 0
			if s.ViceCaptain != nil {
				vice = s.ViceCaptain.BasePoints
			}
			return fmt.Sprintf("%d vs %d", vice, s.CaptainBase())
		},
	}
}

// withCaptain keeps c locked when the snapshot names no captain. Ceiling
// checks on the captain need it; a missing captain reads as 0 points.
func withCaptain(c Check) Check {
	pass := c.Pass
	c.Pass = func(s *model.TeamSnapshot) bool { return s.Captain != nil && pass(s) }
	return c
}

// benchOutscoredCaptain matches bench players beating the captain's base.
// Without a captain nobody is beaten.
func benchOutscoredCaptain() Check {
	beat := func(s *model.TeamSnapshot) []string {
		if s.Captain == nil {
			return []string{}
		}
		limit := s.CaptainBase()
		return names(bench(s), func(p model.PlayerMetric) bool { return p.BasePoints > limit })
	}
	return Check{
		Pass:         func(s *model.TeamSnapshot) bool { return len(beat(s)) > 0 },
		Contributors: beat,
	}
}
