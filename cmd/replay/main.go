package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/gwbadge/internal/replay"
)

// Default configuration constants.
const (
	defaultSquads      = 50
	defaultGameweeks   = 10
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultHistoryWait = 10 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		squads      = flag.Int("squads", defaultSquads, "Number of synthetic squads")
		gameweeks   = flag.Int("gameweeks", defaultGameweeks, "Gameweeks per squad")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent squads")
		seed        = flag.Uint64("seed", 1, "Payload generation seed")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		historyWait = flag.Duration("history-wait", defaultHistoryWait, "Time allowed for summaries to be recorded")
		outputFile  = flag.String("output", "", "Write generated payloads to this file")
		verbose     = flag.Bool("verbose", false, "Log every report")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		replay.ShowHelp()
		return
	}

	if err := replay.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &replay.Config{
		BaseURL:     *baseURL,
		Squads:      *squads,
		Gameweeks:   *gameweeks,
		Workers:     *workers,
		Seed:        *seed,
		Timeout:     *timeout,
		HistoryWait: *historyWait,
		OutputFile:  *outputFile,
		Verbose:     *verbose,
	}

	if _, err := replay.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1)
	}
}
