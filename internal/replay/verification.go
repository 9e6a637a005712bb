package replay

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/internal/domain/unlock"
	"github.com/okian/gwbadge/pkg/logger"
)

// unlockedIDs lists unlocked rule ids of a full-view report, ascending.
func unlockedIDs(r types.Report) []int {
	ids := []int{}
	for _, g := range r.Tiers {
		for _, st := range g.States {
			if st.Unlocked {
				ids = append(ids, st.ID)
			}
		}
	}
	slices.Sort(ids)
	return ids
}

// verifyReports checks every squad's reports against the locally
// recomputed unlock diff.
func verifyReports(seasons []Season, reports map[string][]types.Report) error {
	for _, season := range seasons {
		got := reports[season.SquadID]
		if len(got) != len(season.Gameweeks) {
			return fmt.Errorf("squad %s: got %d reports, want %d", season.SquadID, len(got), len(season.Gameweeks))
		}
		previous := []int{}
		for i, r := range got {
			if err := verifyReport(season.SquadID, season.Gameweeks[i].Gameweek, previous, r); err != nil {
				return err
			}
			previous = unlockedIDs(r)
		}
	}
	return nil
}

func verifyReport(squadID string, gw int, previous []int, r types.Report) error {
	if r.Status != types.StatusReady {
		return fmt.Errorf("squad %s gw %d: status %q", squadID, gw, r.Status)
	}
	if r.Gameweek != gw || r.SquadID != squadID {
		return fmt.Errorf("squad %s gw %d: report is for squad %s gw %d", squadID, gw, r.SquadID, r.Gameweek)
	}
	want := unlock.Diff(previous, unlockedIDs(r))
	if !slices.Equal(want, r.NewlyUnlocked) {
		return fmt.Errorf("squad %s gw %d: newly unlocked %v, want %v", squadID, gw, r.NewlyUnlocked, want)
	}
	if r.Celebration.Active != (len(want) > 0) {
		return fmt.Errorf("squad %s gw %d: celebration active=%t with %d new unlocks", squadID, gw, r.Celebration.Active, len(want))
	}
	earned := 0
	for _, g := range r.Tiers {
		if g.Earned > g.Total {
			return fmt.Errorf("squad %s gw %d: tier %s earned %d of %d", squadID, gw, g.Tier, g.Earned, g.Total)
		}
		earned += g.Earned
	}
	if earned != r.Overall.EarnedAll || r.Overall.EarnedAll != r.Overall.Earned+r.Overall.EarnedOopsies {
		return fmt.Errorf("squad %s gw %d: tier earned %d does not match overall", squadID, gw, earned)
	}
	return nil
}

// verifyIdempotence resubmits each squad's last payload; nothing may be
// reported as newly unlocked the second time.
func verifyIdempotence(ctx context.Context, config *Config, seasons []Season, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	for _, season := range seasons {
		if len(season.Gameweeks) == 0 {
			continue
		}
		last := season.Gameweeks[len(season.Gameweeks)-1]
		r, err := evaluate(ctx, client, config.BaseURL, season.SquadID, last)
		if err != nil {
			return fmt.Errorf("squad %s resubmit: %w", season.SquadID, err)
		}
		if len(r.NewlyUnlocked) != 0 || r.Celebration.Active {
			return fmt.Errorf("squad %s resubmit: newly unlocked %v", season.SquadID, r.NewlyUnlocked)
		}
		stats.IdempotentCheck++
	}
	return nil
}

// verifyHistory polls each squad's history until every gameweek summary
// is recorded in ascending order or the wait expires.
func verifyHistory(ctx context.Context, config *Config, seasons []Season) error {
	client := newHTTPClient(config.Timeout)
	deadline := time.Now().Add(config.HistoryWait)

	for _, season := range seasons {
		for {
			h, err := fetchHistory(ctx, client, config.BaseURL, season.SquadID)
			if err != nil {
				return err
			}
			if len(h.Summaries) == len(season.Gameweeks) {
				for i, s := range h.Summaries {
					if s.Gameweek != season.Gameweeks[i].Gameweek {
						return fmt.Errorf("squad %s: summary %d is gw %d", season.SquadID, i, s.Gameweek)
					}
				}
				break
			}
			if time.Now().After(deadline) {
				return fmt.Errorf("squad %s: %d of %d summaries recorded", season.SquadID, len(h.Summaries), len(season.Gameweeks))
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(historyPollInterval):
			}
		}
	}
	logger.Get().Info(ctx, "history verified", logger.Int("squads", len(seasons)))
	return nil
}

func fetchHistory(ctx context.Context, client *HTTPClient, baseURL, squadID string) (types.History, error) {
	resp, err := client.Get(ctx, historyURL(baseURL, squadID))
	if err != nil {
		return types.History{}, err
	}
	var h types.History
	if err := decodeResponse(resp, &h); err != nil {
		return types.History{}, fmt.Errorf("squad %s history: %w", squadID, err)
	}
	return h, nil
}
