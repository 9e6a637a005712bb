package replay

import (
	"fmt"
	"os"

	"github.com/okian/gwbadge/pkg/logger"
)

// SetupLogging initializes the global logger for the replay tool.
func SetupLogging(verbose bool) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the replay tool.
func ShowHelp() {
	os.Stdout.WriteString(`gwbadge replay
==============

Replays synthetic gameweek seasons against a running gwbadge service and
verifies unlock diffs, idempotence and recorded history.

Usage:
  go run ./cmd/replay [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -squads int
        Number of synthetic squads (default 50)
  -gameweeks int
        Gameweeks per squad (default 10)
  -workers int
        Concurrent squads (default CPU cores * 2)
  -seed uint
        Payload generation seed (default 1)
  -timeout duration
        HTTP request timeout (default 30s)
  -history-wait duration
        Time allowed for summaries to be recorded (default 10s)
  -output string
        Write generated payloads to this file
  -verbose
        Log every report
  -help
        Show this help message
`)
}
