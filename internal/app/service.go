// Package service wires the achievement pipeline together and implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	historyqueue "github.com/okian/gwbadge/internal/adapters/mq/queue"
	historyworker "github.com/okian/gwbadge/internal/adapters/mq/worker"
	"github.com/okian/gwbadge/internal/adapters/repository"
	"github.com/okian/gwbadge/internal/domain/catalog"
	"github.com/okian/gwbadge/internal/domain/evaluate"
	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/internal/domain/payload"
	"github.com/okian/gwbadge/internal/domain/snapshot"
	"github.com/okian/gwbadge/internal/domain/tiers"
	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/internal/domain/unlock"
	"github.com/okian/gwbadge/pkg/logger"
	"github.com/okian/gwbadge/pkg/metrics"
)

const (
	defaultHistoryQueueSize = 1024
	defaultHistoryWorkers   = 2
	stopTimeout             = 10 * time.Second
)

// Service evaluates squads and keeps their unlock history.
type Service struct {
	mu sync.RWMutex

	// Core components
	kv           repository.Store
	achievements *repository.AchievementStore
	catalog      *catalog.Catalog
	tracker      *unlock.Tracker
	historyQueue historyqueue.Queue
	historyPool  *historyworker.Pool

	// Configuration
	storeName        string
	celebration      time.Duration
	historyQueueSize int
	historyWorkers   int
	now              func() time.Time
	newID            func() string

	// State
	started     bool
	stopped     bool
	evaluations atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the key-value backend. The service closes it on Stop.
func WithStore(name string, kv repository.Store) Option {
	return func(s *Service) {
		if kv != nil {
			s.kv = kv
			s.storeName = name
		}
	}
}

// WithCatalog replaces the built-in rule catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCelebration sets the celebration pulse duration.
func WithCelebration(d time.Duration) Option {
	return func(s *Service) {
		s.celebration = d
	}
}

// WithHistoryQueueSize sets the capacity of the summary queue.
func WithHistoryQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historyQueueSize = size
		}
	}
}

// WithHistoryWorkers sets the number of summary workers.
func WithHistoryWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.historyWorkers = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides evaluation id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:          catalog.Default(),
		celebration:      unlock.DefaultCelebration,
		historyQueueSize: defaultHistoryQueueSize,
		historyWorkers:   defaultHistoryWorkers,
		now:              time.Now,
		newID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the store, tracker and history workers. A stopped
// service has closed its store and cannot be started again.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.stopped {
		return ErrStopped
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.kv == nil {
		s.kv = repository.NewMemoryStore()
		s.storeName = "memory"
	}

	s.achievements = repository.NewAchievementStore(s.kv)
	s.tracker = unlock.NewTracker(s.achievements,
		unlock.WithLogger(s.logger.Named("tracker")),
		unlock.WithCelebration(s.celebration),
	)
	s.historyQueue = historyqueue.NewInMemoryQueue(historyqueue.WithCapacity(s.historyQueueSize))
	s.historyPool = historyworker.NewPool(s.historyWorkers, s.historyQueue, s.achievements)
	s.historyPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "achievement service started",
		logger.String("store", s.storeName),
		logger.Int("rules", s.catalog.Len()),
		logger.Int("history_workers", s.historyPool.Size()),
		logger.Int("history_queue_size", s.historyQueueSize),
		logger.Int("celebration_ms", int(s.tracker.Celebration().Milliseconds())),
	)
	return nil
}

// Stop drains queued summaries and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping achievement service...")
	if err := s.historyPool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "history workers did not drain", logger.Error(err))
	}
	if err := s.kv.Close(); err != nil {
		s.logger.Warn(ctx, "failed to close store", logger.Error(err))
	}
	s.started = false
	s.stopped = true
	s.logger.Info(ctx, "achievement service stopped")
}

// Evaluate decodes body, evaluates every rule and records the result for
// squadID. An empty or null body yields a no_data report. Store failures
// are logged and never returned.
func (s *Service) Evaluate(ctx context.Context, squadID string, body []byte, view types.View) (types.Report, error) {
	start := s.now()
	squadID = strings.TrimSpace(squadID)
	if squadID == "" {
		return types.Report{}, ErrInvalidSquad
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.Report{}, ErrNotStarted
	}

	report := types.Report{
		Status:         types.StatusNoData,
		EvaluationID:   s.newID(),
		SquadID:        squadID,
		View:           view,
		PendingPlayers: []string{},
		Tiers:          []tiers.Group{},
		NewlyUnlocked:  []int{},
		EvaluatedAt:    start.UnixMilli(),
	}

	p, err := payload.Decode(body)
	switch {
	case errors.Is(err, payload.ErrNoData):
		metrics.RecordEvaluation(string(types.StatusNoData), msSince(s.now, start))
		s.logger.Debug(ctx, "no payload to evaluate", logger.String("squad_id", squadID))
		return report, nil
	case err != nil:
		metrics.RecordErrorByComponent("service", "invalid_payload")
		return types.Report{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	snap := snapshot.FromPayload(p)
	s.reportMalformed(ctx, squadID, snap)

	states := evaluate.Evaluate(s.catalog, snap, evaluate.WithPanicHandler(func(r catalog.Rule, v any) {
		metrics.RecordRulePanic()
		s.logger.Error(ctx, "rule predicate panicked",
			logger.Int("rule_id", r.ID()), logger.String("rule", r.Title()), logger.Any("panic", v))
	}))

	var tierOpts []tiers.Option
	if view == types.ViewEarned {
		tierOpts = append(tierOpts, tiers.EarnedOnly())
	}
	groups, overall := tiers.Organize(states, tierOpts...)
	outcome := s.tracker.Track(ctx, squadID, evaluate.UnlockedIDs(states))

	report.Status = types.StatusReady
	report.Gameweek = snap.Gameweek
	report.Unsettled = snap.Unsettled
	report.PendingPlayers = snap.PendingPlayers
	report.Tiers = groups
	report.Overall = overall
	report.NewlyUnlocked = outcome.NewlyUnlocked
	report.Celebration = outcome.Celebration

	s.enqueueSummary(ctx, model.GameweekSummary{
		SquadID:       squadID,
		Gameweek:      snap.Gameweek,
		Earned:        overall.Earned,
		Total:         overall.Total,
		EarnedOopsies: overall.EarnedOopsies,
		TotalOopsies:  overall.TotalOopsies,
		UpdatedAt:     s.now().UnixMilli(),
	})

	unlocked, pending := evaluate.Count(states)
	metrics.UpdateLastEvaluation(unlocked, pending)
	metrics.RecordEvaluation(string(types.StatusReady), msSince(s.now, start))
	s.evaluations.Add(1)

	s.logger.Info(ctx, "squad evaluated",
		logger.String("evaluation_id", report.EvaluationID),
		logger.String("squad_id", squadID),
		logger.Int("gw", snap.Gameweek),
		logger.Int("unlocked", unlocked),
		logger.Int("pending", pending),
		logger.Ints("newly_unlocked", outcome.NewlyUnlocked),
	)
	return report, nil
}

func (s *Service) reportMalformed(ctx context.Context, squadID string, snap *model.TeamSnapshot) {
	n := 0
	for _, group := range [][]model.PlayerMetric{snap.Starters, snap.Bench} {
		for _, p := range group {
			if p.Malformed {
				n++
			}
		}
	}
	if n == 0 {
		return
	}
	metrics.RecordMalformedPlayers(n)
	s.logger.Warn(ctx, "malformed player entries zeroed",
		logger.String("squad_id", squadID), logger.Int("count", n))
}

func (s *Service) enqueueSummary(ctx context.Context, sum model.GameweekSummary) {
	if err := s.historyQueue.Enqueue(ctx, sum); err != nil {
		s.logger.Warn(ctx, "dropped gameweek summary",
			logger.String("squad_id", sum.SquadID), logger.Int("gw", sum.Gameweek), logger.Error(err))
	}
}

func msSince(now func() time.Time, start time.Time) float64 {
	return float64(now().Sub(start).Microseconds()) / 1000
}

// History returns the recorded gameweek summaries for squadID.
func (s *Service) History(ctx context.Context, squadID string) (types.History, error) {
	squadID = strings.TrimSpace(squadID)
	if squadID == "" {
		return types.History{}, ErrInvalidSquad
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.History{}, ErrNotStarted
	}

	sums, err := s.achievements.ListSummaries(ctx, squadID)
	if err != nil {
		metrics.RecordStoreError("list")
		return types.History{}, fmt.Errorf("history for %s: %w", squadID, err)
	}
	return types.History{SquadID: squadID, Summaries: sums}, nil
}

// Catalog describes every rule in catalog order.
func (s *Service) Catalog() []types.RuleInfo {
	rules := s.catalog.Rules()
	out := make([]types.RuleInfo, 0, len(rules))
	for _, r := range rules {
		out = append(out, types.RuleInfo{
			ID:             r.ID(),
			Title:          r.Title(),
			Description:    r.Description(),
			Tier:           r.Tier(),
			DeferWhileLive: r.DeferWhileLive(),
		})
	}
	return out
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          s.started,
		"stopped":          s.stopped,
		"store":            s.storeName,
		"rules":            s.catalog.Len(),
		"historyWorkers":   s.historyWorkers,
		"historyQueueSize": s.historyQueueSize,
		"evaluations":      s.evaluations.Load(),
	}
	if s.started {
		queueLen := s.historyQueue.Len()
		stats["historyQueueLength"] = queueLen
		stats["celebrationMs"] = s.tracker.Celebration().Milliseconds()
		metrics.UpdateHistoryQueue(queueLen, s.historyQueue.Cap())
	}
	return stats
}
