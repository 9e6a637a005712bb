package replay

import "time"

// Config holds configuration for a replay run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Squads      int           // Number of synthetic squads
	Gameweeks   int           // Gameweeks replayed per squad
	Workers     int           // Concurrent squads in flight
	Seed        uint64        // Seed for payload generation
	Timeout     time.Duration // HTTP request timeout
	HistoryWait time.Duration // How long to wait for summaries to be recorded
	OutputFile  string        // Optional file receiving the generated payloads
	Verbose     bool          // Log every report
}

// Season is every gameweek payload of one squad, in gameweek order.
type Season struct {
	SquadID   string     `json:"squadId"`
	Gameweeks []Document `json:"gameweeks"`
}

// Document is a synthetic gameweek payload.
type Document struct {
	Gameweek    int      `json:"gw"`
	LivePoints  int      `json:"live_points"`
	BenchPoints int      `json:"bench_points"`
	Hit         int      `json:"hit"`
	Safety      int      `json:"safety"`
	OldRank     int      `json:"old_rank"`
	PostRank    int      `json:"post_rank"`
	Team        []Player `json:"team"`
}

// Player is one synthetic squad member.
type Player struct {
	Name           string  `json:"name"`
	Role           string  `json:"role"`
	Position       string  `json:"position"`
	Status         string  `json:"status"`
	BenchedOut     bool    `json:"benched_out"`
	EliteOwnership float64 `json:"elite_ownership"`
	Stats          []Row   `json:"stats"`
}

// Row is one stat row in object form.
type Row struct {
	Kind   string `json:"kind"`
	Count  int    `json:"count"`
	Points int    `json:"points"`
}

// Stats holds replay statistics.
type Stats struct {
	Squads          int
	Submitted       int
	Succeeded       int
	Failed          int
	NewlyUnlocked   int
	Celebrations    int
	IdempotentCheck int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}
