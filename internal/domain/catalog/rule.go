// Package catalog holds the fixed table of achievement rules.
//
// Rules are immutable values built once at package init. Each one pairs a
// pure predicate over a TeamSnapshot with optional progress and
// contributor formatters, and declares whether still-live matches can
// change its outcome.
package catalog

import (
	"github.com/okian/gwbadge/internal/domain/model"
)

// Result is what a rule computes for one snapshot, before any pending
// override is applied.
type Result struct {
	Unlocked     bool
	Progress     string
	Contributors []string
}

// Rule is a single achievement definition.
type Rule interface {
	ID() int
	Title() string
	Description() string
	Tier() model.Tier
	// DeferWhileLive reports whether the rule must not fire while the
	// snapshot is unsettled.
	DeferWhileLive() bool
	Evaluate(s *model.TeamSnapshot) Result
}

// Check bundles a predicate with its optional formatters.
type Check struct {
	Pass         func(*model.TeamSnapshot) bool
	Progress     func(*model.TeamSnapshot) string
	Contributors func(*model.TeamSnapshot) []string
}

// Definition is the table-driven Rule implementation.
type Definition struct {
	id             int
	title          string
	description    string
	tier           model.Tier
	deferWhileLive bool
	check          Check
}

// Define builds a rule definition.
func Define(id int, tier model.Tier, title, description string, deferWhileLive bool, c Check) Definition {
	return Definition{
		id:             id,
		title:          title,
		description:    description,
		tier:           tier,
		deferWhileLive: deferWhileLive,
		check:          c,
	}
}

func (d Definition) ID() int              { return d.id }
func (d Definition) Title() string        { return d.title }
func (d Definition) Description() string  { return d.description }
func (d Definition) Tier() model.Tier     { return d.tier }
func (d Definition) DeferWhileLive() bool { return d.deferWhileLive }

// Evaluate runs the predicate and formatters. Contributors is never nil.
func (d Definition) Evaluate(s *model.TeamSnapshot) Result {
	r := Result{
		Unlocked:     d.check.Pass(s),
		Contributors: []string{},
	}
	if d.check.Progress != nil {
		r.Progress = d.check.Progress(s)
	}
	if d.check.Contributors != nil {
		if names := d.check.Contributors(s); names != nil {
			r.Contributors = names
		}
	}
	return r
}
