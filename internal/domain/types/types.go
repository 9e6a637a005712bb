// Package types contains the API-facing result types.
package types

import (
	"github.com/okian/gwbadge/internal/domain/model"
	"github.com/okian/gwbadge/internal/domain/tiers"
	"github.com/okian/gwbadge/internal/domain/unlock"
)

// Status tells whether a report carries evaluated achievements.
type Status string

// Report statuses.
const (
	StatusReady  Status = "ready"
	StatusNoData Status = "no_data"
)

// View selects which states a report lists.
type View string

// Report views.
const (
	ViewAll    View = "all"
	ViewEarned View = "earned"
)

// ParseView maps a query value onto a View. Unknown values select ViewAll.
func ParseView(s string) View {
	if View(s) == ViewEarned {
		return ViewEarned
	}
	return ViewAll
}

// Report is the outcome of one evaluation cycle for a squad.
type Report struct {
	Status         Status             `json:"status"`
	EvaluationID   string             `json:"evaluationId"`
	SquadID        string             `json:"squadId"`
	Gameweek       int                `json:"gw"`
	View           View               `json:"view"`
	Unsettled      bool               `json:"unsettled"`
	PendingPlayers []string           `json:"pendingPlayers"`
	Tiers          []tiers.Group      `json:"tiers"`
	Overall        tiers.Overall      `json:"overall"`
	NewlyUnlocked  []int              `json:"newlyUnlocked"`
	Celebration    unlock.Celebration `json:"celebration"`
	EvaluatedAt    int64              `json:"evaluatedAt"`
}

// RuleInfo describes one catalog rule.
type RuleInfo struct {
	ID             int        `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Tier           model.Tier `json:"tier"`
	DeferWhileLive bool       `json:"deferWhileLive"`
}

// History is the list of recorded gameweek summaries for a squad.
type History struct {
	SquadID   string                  `json:"squadId"`
	Summaries []model.GameweekSummary `json:"summaries"`
}
