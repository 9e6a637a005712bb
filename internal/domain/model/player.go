// Package model contains domain models passed between layers.
package model

// Role is a player's slot in the picked squad.
type Role string

// Roles recognised in the payload.
const (
	RoleUnknown Role = ""
	RoleStarter Role = "starter"
	RoleCaptain Role = "captain"
	RoleVice    Role = "vice"
	RoleBench   Role = "bench"
)

// Starting reports whether the role belongs to the starting eleven.
func (r Role) Starting() bool {
	return r == RoleStarter || r == RoleCaptain || r == RoleVice
}

// Position is a player's pitch position.
type Position string

// Positions recognised in the payload.
const (
	PositionUnknown    Position = ""
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionForward    Position = "forward"
)

// Availability status codes.
const (
	StatusAvailable   = "a"
	StatusDoubtful    = "d"
	StatusInjured     = "i"
	StatusSuspended   = "s"
	StatusUnavailable = "u"
	StatusNotInSquad  = "n"
)

// Normalized stat kinds.
const (
	StatMinutes          = "minutes"
	StatGoals            = "goals_scored"
	StatAssists          = "assists"
	StatBonus            = "bonus"
	StatYellowCards      = "yellow_cards"
	StatRedCards         = "red_cards"
	StatOwnGoals         = "own_goals"
	StatPenaltiesMissed  = "penalties_missed"
	StatPenaltiesSaved   = "penalties_saved"
	StatSaves            = "saves"
	StatGoalsConceded    = "goals_conceded"
	StatCleanSheets      = "clean_sheets"
	StatDefensiveActions = "defensive_contribution"
)

// StatRow is one (kind, occurrences, points) triple from the payload.
type StatRow struct {
	Kind   string
	Count  int
	Points int
}

// StatTotal is the folded value of every row sharing a kind.
type StatTotal struct {
	Count  int
	Points int
}

// PlayerMetric holds the derived numbers for one player in one gameweek.
// BasePoints is the plain sum of stat row points and never includes the
// captaincy multiplier.
type PlayerMetric struct {
	Name       string
	Role       Role
	Position   Position
	Status     string
	BenchedOut bool
	// EliteOwnership is the fraction (0..1) of the elite reference sample
	// that owns the player.
	EliteOwnership float64
	Multiplier     int

	Minutes          int
	BasePoints       int
	Goals            int
	Assists          int
	Bonus            int
	YellowCards      int
	RedCards         int
	OwnGoals         int
	PenaltiesMissed  int
	PenaltiesSaved   int
	Saves            int
	GoalsConceded    int
	CleanSheets      int
	DefensiveActions int

	// Malformed is set when the payload entry could not be decoded; all
	// counters are zero in that case.
	Malformed bool
}

// DisplayedPoints is the score shown for the player, multiplier applied.
func (p PlayerMetric) DisplayedPoints() int {
	return p.BasePoints * p.Multiplier
}

// Cards is the total of yellow and red cards.
func (p PlayerMetric) Cards() int {
	return p.YellowCards + p.RedCards
}

// KeptCleanSheet reports whether a clean sheet was recorded.
func (p PlayerMetric) KeptCleanSheet() bool {
	return p.CleanSheets > 0
}
