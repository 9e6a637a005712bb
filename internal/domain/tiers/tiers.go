// Package tiers groups achievement states by rarity for display.
package tiers

import (
	"sort"

	"github.com/okian/gwbadge/internal/domain/model"
)

// Group is one tier's ordered states and counts. Earned and Total always
// describe the full tier, even when States is filtered.
type Group struct {
	Tier   model.Tier    `json:"tier"`
	States []model.State `json:"states"`
	Earned int           `json:"earned"`
	Total  int           `json:"total"`
}

// Overall counts achievements across tiers. Earned and Total cover the
// regular tiers only and leave Oopsies out, which are counted on their own.
// EarnedAll and TotalAll cover every tier.
type Overall struct {
	Earned        int `json:"earned"`
	Total         int `json:"total"`
	EarnedOopsies int `json:"earnedOopsies"`
	TotalOopsies  int `json:"totalOopsies"`
	EarnedAll     int `json:"earnedAll"`
	TotalAll      int `json:"totalAll"`
}

// Option configures Organize.
type Option func(*options)

type options struct {
	earnedOnly bool
}

// EarnedOnly drops locked and pending states from each group.
func EarnedOnly() Option {
	return func(o *options) {
		o.earnedOnly = true
	}
}

// Organize returns one group per tier in display order, plus overall
// counts. Within a group: unlocked first, then pending, then locked, each
// ordered by title.
func Organize(states []model.State, opts ...Option) ([]Group, Overall) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	byTier := make(map[model.Tier][]model.State, len(model.Tiers()))
	for _, st := range states {
		byTier[st.Tier] = append(byTier[st.Tier], st)
	}

	var overall Overall
	groups := make([]Group, 0, len(model.Tiers()))
	for _, tier := range model.Tiers() {
		members := byTier[tier]
		sort.SliceStable(members, func(i, j int) bool { return less(members[i], members[j]) })

		g := Group{Tier: tier, States: make([]model.State, 0, len(members)), Total: len(members)}
		for _, st := range members {
			if st.Unlocked {
				g.Earned++
			}
			if o.earnedOnly && !st.Unlocked {
				continue
			}
			g.States = append(g.States, st)
		}

		if tier == model.TierOopsie {
			overall.EarnedOopsies += g.Earned
			overall.TotalOopsies += g.Total
		} else {
			overall.Earned += g.Earned
			overall.Total += g.Total
		}
		overall.EarnedAll += g.Earned
		overall.TotalAll += g.Total
		groups = append(groups, g)
	}
	return groups, overall
}

func rank(st model.State) int {
	switch {
	case st.Unlocked:
		return 0
	case st.Pending:
		return 1
	}
	return 2
}

func less(a, b model.State) bool {
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra < rb
	}
	return a.Title < b.Title
}
