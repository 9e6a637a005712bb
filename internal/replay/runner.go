// Package replay drives a running achievement service with synthetic
// seasons and checks the reports it returns.
package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gwbadge/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete replay.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting gwbadge replay",
		logger.String("baseURL", config.BaseURL),
		logger.Int("squads", config.Squads),
		logger.Int("gameweeks", config.Gameweeks),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Bool("verbose", config.Verbose))

	if err := validate(config); err != nil {
		return stats, err
	}

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate seasons
	seasons := generateSeasons(ctx, config)

	// Step 3: Save payloads for later inspection
	if config.OutputFile != "" {
		if err := saveSeasons(ctx, config.OutputFile, seasons); err != nil {
			logger.Get().Warn(ctx, "failed to save payloads to file", logger.Error(err))
		}
	}

	// Step 4: Replay every gameweek
	reports, err := submitSeasons(ctx, config, seasons, stats)
	if err != nil {
		return stats, fmt.Errorf("season submission failed: %w", err)
	}

	// Step 5: Verify reports, idempotence and history
	if err := verifyReports(seasons, reports); err != nil {
		return stats, fmt.Errorf("report verification failed: %w", err)
	}
	if err := verifyIdempotence(ctx, config, seasons, stats); err != nil {
		return stats, fmt.Errorf("idempotence check failed: %w", err)
	}
	if err := verifyHistory(ctx, config, seasons); err != nil {
		return stats, fmt.Errorf("history verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "replay completed successfully")
	return stats, nil
}

func validate(config *Config) error {
	switch {
	case config.BaseURL == "":
		return fmt.Errorf("base url is required")
	case config.Squads <= 0 || config.Gameweeks <= 0:
		return fmt.Errorf("squads and gameweeks must be positive")
	case config.Workers <= 0:
		return fmt.Errorf("workers must be positive")
	}
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	resp, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 is healthy; the body is the Prometheus exposition.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	return nil
}

// saveSeasons writes the generated payloads as indented JSON.
func saveSeasons(ctx context.Context, filename string, seasons []Season) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(seasons, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal seasons: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "payloads saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final replay statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, perSecond float64
	if stats.Submitted > 0 {
		successRate = float64(stats.Succeeded) / float64(stats.Submitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("squads", stats.Squads),
		logger.Int("submitted", stats.Submitted),
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("newlyUnlocked", stats.NewlyUnlocked),
		logger.Int("celebrations", stats.Celebrations),
		logger.Int("idempotentChecks", stats.IdempotentCheck),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("evaluationsPerSecond", perSecond))
}
