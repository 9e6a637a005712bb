package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/gwbadge/internal/domain/model"
)

// Key layout.
const (
	unlockedPrefix = "unlocked/"
	summaryPrefix  = "summary/"
)

// AchievementStore stores unlock sets and gameweek summaries on top of a
// key-value Store.
type AchievementStore struct {
	kv Store
}

// NewAchievementStore wraps kv.
func NewAchievementStore(kv Store) *AchievementStore {
	return &AchievementStore{kv: kv}
}

func unlockedKey(squadID string) string {
	return unlockedPrefix + squadID
}

// summaryKey zero-pads the gameweek so keys list in gameweek order.
func summaryKey(squadID string, gw int) string {
	return fmt.Sprintf("%s%s/%04d", summaryPrefix, squadID, gw)
}

// LoadUnlocked returns the last saved unlock set. An unknown squad has an
// empty set.
func (s *AchievementStore) LoadUnlocked(ctx context.Context, squadID string) ([]int, error) {
	if squadID == "" {
		return nil, ErrEmptySquad
	}
	raw, err := s.kv.Get(ctx, unlockedKey(squadID))
	if errors.Is(err, ErrNotFound) {
		return []int{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load unlocked set: %w", err)
	}
	var ids []int
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode unlocked set: %w", err)
	}
	if ids == nil {
		ids = []int{}
	}
	return ids, nil
}

// SaveUnlocked replaces the squad's unlock set.
func (s *AchievementStore) SaveUnlocked(ctx context.Context, squadID string, ids []int) error {
	if squadID == "" {
		return ErrEmptySquad
	}
	if ids == nil {
		ids = []int{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode unlocked set: %w", err)
	}
	if err := s.kv.Put(ctx, unlockedKey(squadID), raw); err != nil {
		return fmt.Errorf("save unlocked set: %w", err)
	}
	return nil
}

// PutSummary records a gameweek summary, replacing any earlier one for the
// same squad and gameweek.
func (s *AchievementStore) PutSummary(ctx context.Context, sum model.GameweekSummary) error {
	if sum.SquadID == "" {
		return ErrEmptySquad
	}
	raw, err := json.Marshal(sum)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	if err := s.kv.Put(ctx, summaryKey(sum.SquadID, sum.Gameweek), raw); err != nil {
		return fmt.Errorf("save summary: %w", err)
	}
	return nil
}

// ListSummaries returns the squad's summaries ordered by gameweek.
func (s *AchievementStore) ListSummaries(ctx context.Context, squadID string) ([]model.GameweekSummary, error) {
	if squadID == "" {
		return nil, ErrEmptySquad
	}
	pairs, err := s.kv.List(ctx, summaryPrefix+squadID+"/")
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	out := make([]model.GameweekSummary, 0, len(pairs))
	for _, p := range pairs {
		var sum model.GameweekSummary
		if err := json.Unmarshal(p.Value, &sum); err != nil {
			return nil, fmt.Errorf("decode summary %s: %w", strings.TrimPrefix(p.Key, summaryPrefix), err)
		}
		out = append(out, sum)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Gameweek < out[j].Gameweek })
	return out, nil
}
