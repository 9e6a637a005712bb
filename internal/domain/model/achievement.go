package model

// Tier is the rarity grouping of an achievement.
type Tier string

// Tiers in display order.
const (
	TierLegendary Tier = "Legendary"
	TierUncommon  Tier = "Uncommon"
	TierCommon    Tier = "Common"
	TierOopsie    Tier = "Oopsie"
)

// Tiers lists every tier in display order.
func Tiers() []Tier {
	return []Tier{TierLegendary, TierUncommon, TierCommon, TierOopsie}
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	switch t {
	case TierLegendary, TierUncommon, TierCommon, TierOopsie:
		return true
	}
	return false
}

// State is the outcome of one rule for one snapshot.
type State struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Tier         Tier     `json:"tier"`
	Unlocked     bool     `json:"unlocked"`
	Pending      bool     `json:"pending"`
	Progress     string   `json:"progress"`
	Contributors []string `json:"contributors"`
}

// GameweekSummary is the historical record written after each evaluation.
type GameweekSummary struct {
	SquadID       string `json:"squadId"`
	Gameweek      int    `json:"gw"`
	Earned        int    `json:"earned"`
	Total         int    `json:"total"`
	EarnedOopsies int    `json:"earnedOopsies"`
	TotalOopsies  int    `json:"totalOopsies"`
	UpdatedAt     int64  `json:"updatedAt"`
}
