package catalog

import (
	"fmt"

	"github.com/okian/gwbadge/internal/domain/model"
)

// Catalog is an ordered, id-indexed set of rules.
type Catalog struct {
	rules []Rule
	byID  map[int]Rule
}

// New validates rules and builds a catalog in the given order.
func New(rules ...Rule) (*Catalog, error) {
	c := &Catalog{
		rules: make([]Rule, 0, len(rules)),
		byID:  make(map[int]Rule, len(rules)),
	}
	for _, r := range rules {
		if r.ID() <= 0 {
			return nil, fmt.Errorf("%w: id %d must be positive", ErrInvalidRule, r.ID())
		}
		if !r.Tier().Valid() {
			return nil, fmt.Errorf("%w: rule %d has unknown tier %q", ErrInvalidRule, r.ID(), r.Tier())
		}
		if d, ok := r.(Definition); ok && d.check.Pass == nil {
			return nil, fmt.Errorf("%w: rule %d has no predicate", ErrInvalidRule, r.ID())
		}
		if _, dup := c.byID[r.ID()]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, r.ID())
		}
		c.byID[r.ID()] = r
		c.rules = append(c.rules, r)
	}
	return c, nil
}

// MustNew is New that panics on an invalid table.
func MustNew(rules ...Rule) *Catalog {
	c, err := New(rules...)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultCatalog = MustNew(defaultRules()...) //nolint:gochecknoglobals // immutable rule table

// Default returns the built-in catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Rules returns the rules in catalog order. The slice is a copy.
func (c *Catalog) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Lookup returns the rule with the given id.
func (c *Catalog) Lookup(id int) (Rule, bool) {
	r, ok := c.byID[id]
	return r, ok
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// CountByTier returns how many rules each tier holds.
func (c *Catalog) CountByTier() map[model.Tier]int {
	out := make(map[model.Tier]int, len(model.Tiers()))
	for _, r := range c.rules {
		out[r.Tier()]++
	}
	return out
}
