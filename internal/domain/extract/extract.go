// Package extract turns raw payload entries into per-player metrics.
package extract

import (
	"strings"

	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/internal/domain/payload"
)

// statAliases maps alternate stat kinds onto their normalized name.
var statAliases = map[string]string{
	"goals":             model.StatGoals,
	"defensive_actions": model.StatDefensiveActions,
	"clean_sheet":       model.StatCleanSheets,
	"bps_bonus":         model.StatBonus,
}

// NormalizeKind lower-cases a stat kind and folds separators and aliases.
func NormalizeKind(kind string) string {
	k := strings.ToLower(strings.TrimSpace(kind))
	k = strings.NewReplacer(" ", "_", "-", "_").Replace(k)
	if alias, ok := statAliases[k]; ok {
		return alias
	}
	return k
}

// Fold sums counts and points of rows sharing a normalized kind.
func Fold(rows []payload.Row) map[string]model.StatTotal {
	out := make(map[string]model.StatTotal, len(rows))
	for _, r := range rows {
		k := NormalizeKind(r.Kind)
		t := out[k]
		t.Count += r.Count
		t.Points += r.Points
		out[k] = t
	}
	return out
}

// BasePoints is the sum of every row's points regardless of kind,
// negatives included. It is the pre-multiplier score.
func BasePoints(rows []payload.Row) int {
	total := 0
	for _, r := range rows {
		total += r.Points
	}
	return total
}

// Player derives the metric for a single entry. A malformed entry yields
// a zero-metric player that keeps whatever identity fields decoded.
func Player(e *payload.Entry) model.PlayerMetric {
	m := model.PlayerMetric{
		Name:           strings.TrimSpace(e.Name),
		Role:           ParseRole(e.Role),
		Position:       ParsePosition(e.Position),
		Status:         strings.ToLower(strings.TrimSpace(e.Status)),
		BenchedOut:     e.BenchedOut,
		EliteOwnership: normalizeOwnership(e.EliteOwnership),
	}
	m.Multiplier = multiplier(m.Role, e.Multiplier)
	if e.Malformed {
		m.Malformed = true
		return m
	}

	stats := Fold(e.Stats)
	m.BasePoints = BasePoints(e.Stats)
	m.Minutes = stats[model.StatMinutes].Count
	m.Goals = stats[model.StatGoals].Count
	m.Assists = stats[model.StatAssists].Count
	m.Bonus = stats[model.StatBonus].Count
	m.YellowCards = stats[model.StatYellowCards].Count
	m.RedCards = stats[model.StatRedCards].Count
	m.OwnGoals = stats[model.StatOwnGoals].Count
	m.PenaltiesMissed = stats[model.StatPenaltiesMissed].Count
	m.PenaltiesSaved = stats[model.StatPenaltiesSaved].Count
	m.Saves = stats[model.StatSaves].Count
	m.GoalsConceded = stats[model.StatGoalsConceded].Count
	m.CleanSheets = stats[model.StatCleanSheets].Count
	m.DefensiveActions = stats[model.StatDefensiveActions].Count
	return m
}

// Players derives metrics for every entry, in payload order.
func Players(entries []payload.Entry) []model.PlayerMetric {
	out := make([]model.PlayerMetric, 0, len(entries))
	for i := range entries {
		out = append(out, Player(&entries[i]))
	}
	return out
}

// ParseRole maps payload role tags onto model roles.
func ParseRole(s string) model.Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "starter", "start", "xi":
		return model.RoleStarter
	case "captain", "c":
		return model.RoleCaptain
	case "vice", "vice_captain", "vc":
		return model.RoleVice
	case "bench", "sub":
		return model.RoleBench
	}
	return model.RoleUnknown
}

// ParsePosition maps names, FPL short codes and element types.
func ParsePosition(s string) model.Position {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "goalkeeper", "gkp", "gk", "1":
		return model.PositionGoalkeeper
	case "defender", "def", "2":
		return model.PositionDefender
	case "midfielder", "mid", "3":
		return model.PositionMidfielder
	case "forward", "fwd", "fw", "4":
		return model.PositionForward
	}
	return model.PositionUnknown
}

func multiplier(role model.Role, given int) int {
	if given > 0 {
		return given
	}
	switch role {
	case model.RoleCaptain:
		return 2
	case model.RoleStarter, model.RoleVice:
		return 1
	}
	return 0
}

// normalizeOwnership accepts fractions or percentages and clamps to 0..1.
func normalizeOwnership(v float64) float64 {
	if v > 1 {
		v /= 100
	}
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
