package replay

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/gwbadge/pkg/logger"
)

// Rank trajectory bounds.
const (
	startRankMin   = 500_000
	startRankRange = 4_500_000
	rankFactorMin  = 0.3
	rankFactorSpan = 1.2
)

// Per-position scoring, classic game rules.
var goalPoints = map[string]int{"GKP": 6, "DEF": 6, "MID": 5, "FWD": 4}

// Fifteen-man squad layout: starters first, bench last.
var squadPositions = [squadSize]string{
	"GKP", "DEF", "DEF", "DEF", "DEF", "MID", "MID", "MID", "MID", "FWD", "FWD",
	"GKP", "DEF", "MID", "FWD",
}

// generateSeasons builds deterministic seasons for every squad.
func generateSeasons(ctx context.Context, config *Config) []Season {
	logger.Get().Info(ctx, "generating seasons",
		logger.Int("squads", config.Squads), logger.Int("gameweeks", config.Gameweeks))

	rng := rand.New(rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15))
	seasons := make([]Season, config.Squads)
	for i := range seasons {
		seasons[i] = generateSeason(rng, squadID(config.Seed, i), config.Gameweeks)
	}
	return seasons
}

// squadID derives a stable id so a seed always replays the same squads.
func squadID(seed uint64, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("gwbadge/%d/%d", seed, index))).String()
}

func generateSeason(rng *rand.Rand, id string, gameweeks int) Season {
	season := Season{SquadID: id, Gameweeks: make([]Document, 0, gameweeks)}
	rank := startRankMin + rng.IntN(startRankRange)
	for gw := 1; gw <= gameweeks; gw++ {
		doc := generateDocument(rng, id, gw)
		doc.OldRank = rank
		rank = max(1, int(float64(rank)*(rankFactorMin+rng.Float64()*rankFactorSpan)))
		doc.PostRank = rank
		season.Gameweeks = append(season.Gameweeks, doc)
	}
	return season
}

func generateDocument(rng *rand.Rand, id string, gw int) Document {
	doc := Document{
		Gameweek: gw,
		Safety:   rng.IntN(80) - 20,
		Team:     make([]Player, 0, squadSize),
	}
	switch n := rng.IntN(10); {
	case n == 0:
		doc.Hit = -8
	case n < 3:
		doc.Hit = -4
	}

	captain := rng.IntN(startersSize)
	vice := (captain + 1 + rng.IntN(startersSize-1)) % startersSize

	for i, pos := range squadPositions {
		p := generatePlayer(rng, fmt.Sprintf("%s-p%02d", id[:8], i+1), pos)
		switch {
		case i >= startersSize:
			p.Role = "bench"
		case i == captain:
			p.Role = "captain"
		case i == vice:
			p.Role = "vice"
		default:
			p.Role = "starter"
		}

		base := 0
		for _, r := range p.Stats {
			base += r.Points
		}
		switch p.Role {
		case "bench":
			doc.BenchPoints += base
		case "captain":
			doc.LivePoints += 2 * base
		default:
			doc.LivePoints += base
		}
		doc.Team = append(doc.Team, p)
	}
	return doc
}

func generatePlayer(rng *rand.Rand, name, pos string) Player {
	p := Player{
		Name:           name,
		Position:       pos,
		Status:         "a",
		EliteOwnership: float64(rng.IntN(1000)) / 10,
		Stats:          []Row{},
	}

	var minutes int
	switch n := rng.IntN(10); {
	case n == 0:
		p.BenchedOut = true
		return p
	case n < 3:
		minutes = 1 + rng.IntN(59)
	default:
		minutes = 60 + rng.IntN(31)
	}
	appearance := 1
	if minutes >= 60 {
		appearance = 2
	}
	p.Stats = append(p.Stats, Row{Kind: "minutes", Count: minutes, Points: appearance})

	add := func(kind string, count, each int) {
		if count > 0 {
			p.Stats = append(p.Stats, Row{Kind: kind, Count: count, Points: count * each})
		}
	}
	add("goals_scored", goalsFor(rng, pos), goalPoints[pos])
	add("assists", weighted(rng, 12, 3), 3)
	add("bonus", weighted(rng, 15, 3), 1)
	add("yellow_cards", weighted(rng, 12, 1), -1)
	add("red_cards", weighted(rng, 60, 1), -3)

	cleanSheet := minutes >= 60 && rng.IntN(3) == 0
	switch pos {
	case "GKP", "DEF":
		if cleanSheet {
			add("clean_sheets", 1, 4)
		} else {
			conceded := rng.IntN(5)
			p.Stats = append(p.Stats, Row{Kind: "goals_conceded", Count: conceded, Points: -(conceded / 2)})
		}
		if pos == "GKP" {
			saves := rng.IntN(8)
			p.Stats = append(p.Stats, Row{Kind: "saves", Count: saves, Points: saves / 3})
		}
	case "MID":
		if cleanSheet {
			add("clean_sheets", 1, 1)
		}
	}
	if pos != "GKP" {
		add("defensive_contribution", weighted(rng, 5, 1), 2)
	}
	return p
}

func goalsFor(rng *rand.Rand, pos string) int {
	switch pos {
	case "FWD":
		return weighted(rng, 3, 3)
	case "MID":
		return weighted(rng, 5, 2)
	case "DEF":
		return weighted(rng, 15, 1)
	}
	return 0
}

// weighted returns 0 most of the time and otherwise 1..max, with
// probability of a non-zero draw of 1/oneIn.
func weighted(rng *rand.Rand, oneIn, maxCount int) int {
	if rng.IntN(oneIn) != 0 {
		return 0
	}
	return 1 + rng.IntN(maxCount)
}
