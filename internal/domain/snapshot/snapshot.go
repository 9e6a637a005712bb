// Package snapshot aggregates player metrics and team-level payload
// fields into a TeamSnapshot.
package snapshot

import (
	"github.com/okian/gwbadge/internal/domain/extract"
	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/internal/domain/payload"
)

// Team holds the team-level payload numbers.
type Team struct {
	Gameweek    int
	LivePoints  int
	BenchPoints int
	Hit         int
	Safety      int
	OldRank     int
	NewRank     int
}

// FromPayload extracts players and aggregates them with the payload's
// team-level fields.
func FromPayload(p *payload.Payload) *model.TeamSnapshot {
	return Build(extract.Players(p.Team), Team{
		Gameweek:    p.Gameweek,
		LivePoints:  p.LivePoints,
		BenchPoints: p.BenchPoints,
		Hit:         p.Hit,
		Safety:      p.Safety,
		OldRank:     p.OldRank,
		NewRank:     p.PostRank,
	})
}

// Build partitions players and computes team aggregates. Only the first
// captain-tagged player becomes the captain; further captain tags are
// treated as plain starters.
func Build(players []model.PlayerMetric, t Team) *model.TeamSnapshot {
	s := &model.TeamSnapshot{
		Gameweek:       t.Gameweek,
		Starters:       []model.PlayerMetric{},
		Bench:          []model.PlayerMetric{},
		Goalkeepers:    []model.PlayerMetric{},
		Defenders:      []model.PlayerMetric{},
		Midfielders:    []model.PlayerMetric{},
		Forwards:       []model.PlayerMetric{},
		LivePoints:     t.LivePoints,
		BenchPoints:    t.BenchPoints,
		Hit:            t.Hit,
		Safety:         t.Safety,
		PointsFinal:    t.LivePoints + t.BenchPoints + t.Hit,
		OldRank:        t.OldRank,
		NewRank:        t.NewRank,
		PendingPlayers: []string{},
	}
	s.RankDelta, s.RankPercentGain = rankChange(t.OldRank, t.NewRank)

	captainIdx, viceIdx := -1, -1
	for _, p := range players {
		switch {
		case p.Role == model.RoleBench:
			s.Bench = append(s.Bench, p)
			continue
		case !p.Role.Starting():
			continue
		}

		if p.Role == model.RoleCaptain {
			if captainIdx >= 0 {
				p.Role = model.RoleStarter
			} else {
				captainIdx = len(s.Starters)
			}
		}
		if p.Role == model.RoleVice && viceIdx < 0 {
			viceIdx = len(s.Starters)
		}
		s.Starters = append(s.Starters, p)

		switch p.Position {
		case model.PositionGoalkeeper:
			s.Goalkeepers = append(s.Goalkeepers, p)
		case model.PositionDefender:
			s.Defenders = append(s.Defenders, p)
		case model.PositionMidfielder:
			s.Midfielders = append(s.Midfielders, p)
		case model.PositionForward:
			s.Forwards = append(s.Forwards, p)
		}

		if pending(p) {
			s.Unsettled = true
			s.PendingPlayers = append(s.PendingPlayers, p.Name)
		}
	}

	if captainIdx >= 0 {
		c := s.Starters[captainIdx]
		s.Captain = &c
	}
	if viceIdx >= 0 {
		v := s.Starters[viceIdx]
		s.ViceCaptain = &v
	}
	return s
}

// pending reports whether a starter's gameweek result is not final yet.
func pending(p model.PlayerMetric) bool {
	switch p.Status {
	case model.StatusDoubtful, model.StatusInjured:
		return true
	}
	return p.Minutes == 0 && !p.BenchedOut
}

// rankChange returns oldRank-newRank and the gain as a percentage of
// oldRank. Lower rank is better, so positive values are improvements.
func rankChange(oldRank, newRank int) (int, float64) {
	if oldRank <= 0 || newRank <= 0 {
		return 0, 0
	}
	delta := oldRank - newRank
	return delta, float64(delta) * 100 / float64(oldRank)
}
