// Package evaluate runs every catalog rule against a snapshot.
package evaluate

import (
	"github.com/okian/gwbadge/internal/domain/catalog"
	"github.com/okian/gwbadge/internal/domain/model"
)

// PanicHandler is told about a rule whose predicate panicked.
type PanicHandler func(rule catalog.Rule, recovered any)

// Option configures Evaluate.
type Option func(*options)

type options struct {
	onPanic PanicHandler
}

// WithPanicHandler registers a callback for recovered predicate panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

// Evaluate returns one state per rule, in catalog order. Rules that defer
// while live report pending on an unsettled snapshot. A panicking rule is
// reported as locked.
func Evaluate(c *catalog.Catalog, s *model.TeamSnapshot, opts ...Option) []model.State {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rules := c.Rules()
	states := make([]model.State, 0, len(rules))
	for _, r := range rules {
		st := model.State{
			ID:           r.ID(),
			Title:        r.Title(),
			Description:  r.Description(),
			Tier:         r.Tier(),
			Contributors: []string{},
		}
		if r.DeferWhileLive() && s.Unsettled {
			st.Pending = true
			states = append(states, st)
			continue
		}

		res, ok := run(r, s, o.onPanic)
		if ok {
			st.Unlocked = res.Unlocked
			st.Progress = res.Progress
			if res.Contributors != nil {
				st.Contributors = res.Contributors
			}
		}
		states = append(states, st)
	}
	return states
}

func run(r catalog.Rule, s *model.TeamSnapshot, onPanic PanicHandler) (res catalog.Result, ok bool) {
	defer func() {
		if v := recover(); v != nil {
			if onPanic != nil {
				onPanic(r, v)
			}
			res, ok = catalog.Result{}, false
		}
	}()
	return r.Evaluate(s), true
}

// UnlockedIDs returns the ids of unlocked states, in state order.
func UnlockedIDs(states []model.State) []int {
	ids := make([]int, 0, len(states))
	for _, st := range states {
		if st.Unlocked {
			ids = append(ids, st.ID)
		}
	}
	return ids
}

// Count returns how many states are unlocked and how many are pending.
func Count(states []model.State) (unlocked, pending int) {
	for _, st := range states {
		switch {
		case st.Unlocked:
			unlocked++
		case st.Pending:
			pending++
		}
	}
	return unlocked, pending
}
