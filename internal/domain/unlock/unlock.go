// Package unlock detects achievements unlocked since the previous
// evaluation of a squad and decides when to celebrate.
package unlock

import (
	"context"
	"sort"
	"time"

	"github.com/okian/gwbadge/pkg/logger"
	"github.com/okian/gwbadge/pkg/metrics"
)

// Celebration duration bounds.
const (
	DefaultCelebration = 2500 * time.Millisecond
	MinCelebration     = 2400 * time.Millisecond
	MaxCelebration     = 2600 * time.Millisecond
)

// Store persists the last unlocked id set per squad.
type Store interface {
	LoadUnlocked(ctx context.Context, squadID string) ([]int, error)
	SaveUnlocked(ctx context.Context, squadID string, ids []int) error
}

// Celebration is the transient visual pulse for new unlocks.
type Celebration struct {
	Active     bool  `json:"active"`
	DurationMS int64 `json:"durationMs"`
}

// Outcome is the result of one Track call.
type Outcome struct {
	NewlyUnlocked []int
	Celebration   Celebration
}

// Tracker compares each evaluation with the persisted previous one.
type Tracker struct {
	store       Store
	log         logger.Logger
	celebration time.Duration
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the tracker's logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithCelebration sets the pulse duration, clamped to the allowed range.
func WithCelebration(d time.Duration) Option {
	return func(t *Tracker) {
		t.celebration = ClampCelebration(d)
	}
}

// NewTracker creates a tracker backed by store.
func NewTracker(store Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:       store,
		log:         logger.Nop(),
		celebration: DefaultCelebration,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ClampCelebration keeps d within [MinCelebration, MaxCelebration]. Zero
// selects the default.
func ClampCelebration(d time.Duration) time.Duration {
	switch {
	case d == 0:
		return DefaultCelebration
	case d < MinCelebration:
		return MinCelebration
	case d > MaxCelebration:
		return MaxCelebration
	}
	return d
}

// Celebration returns the configured pulse duration.
func (t *Tracker) Celebration() time.Duration {
	return t.celebration
}

// Track reads the previous set, diffs it against current and always writes
// current back. Store failures are logged and never returned: a failed
// read behaves like an empty previous set.
func (t *Tracker) Track(ctx context.Context, squadID string, current []int) Outcome {
	prev, err := t.store.LoadUnlocked(ctx, squadID)
	if err != nil {
		metrics.RecordStoreError("read")
		t.log.Warn(ctx, "failed to load unlocked set, treating as empty",
			logger.String("squad_id", squadID), logger.Error(err))
		prev = nil
	}

	fresh := Diff(prev, current)

	if err := t.store.SaveUnlocked(ctx, squadID, normalize(current)); err != nil {
		metrics.RecordStoreError("write")
		t.log.Warn(ctx, "failed to save unlocked set",
			logger.String("squad_id", squadID), logger.Error(err))
	}

	out := Outcome{NewlyUnlocked: fresh}
	if len(fresh) > 0 {
		out.Celebration = Celebration{Active: true, DurationMS: t.celebration.Milliseconds()}
		metrics.RecordNewlyUnlocked(len(fresh))
		metrics.RecordCelebration()
		t.log.Info(ctx, "achievements unlocked",
			logger.String("squad_id", squadID), logger.Ints("ids", fresh))
	}
	return out
}

// Diff returns ids in current but not in previous, sorted ascending and
// without duplicates. The result is never nil.
func Diff(previous, current []int) []int {
	seen := make(map[int]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}
	out := []int{}
	for _, id := range current {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// normalize sorts and dedupes ids into a fresh slice.
func normalize(ids []int) []int {
	return Diff(nil, ids)
}
