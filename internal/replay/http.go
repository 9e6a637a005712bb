package replay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/gwbadge/internal/domain/types"
	"github.com/okian/gwbadge/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// decodeResponse reads, closes and decodes a 200 response into v.
func decodeResponse(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func achievementsURL(baseURL, squadID string) string {
	return baseURL + "/squads/" + squadID + "/achievements"
}

func historyURL(baseURL, squadID string) string {
	return baseURL + "/squads/" + squadID + "/history"
}

// evaluate posts one payload and returns the report.
func evaluate(ctx context.Context, client *HTTPClient, baseURL, squadID string, doc Document) (types.Report, error) {
	resp, err := client.Post(ctx, achievementsURL(baseURL, squadID), doc)
	if err != nil {
		return types.Report{}, err
	}
	var report types.Report
	if err := decodeResponse(resp, &report); err != nil {
		return types.Report{}, err
	}
	return report, nil
}

// submitSeasons replays every season. Squads run concurrently; gameweeks
// of one squad are posted in order because unlock diffs depend on it.
func submitSeasons(ctx context.Context, config *Config, seasons []Season, stats *Stats) (map[string][]types.Report, error) {
	logger.Get().Info(ctx, "submitting seasons",
		logger.Int("squads", len(seasons)), logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)

	var (
		submitted, succeeded, failed atomic.Int64
		newly, celebrations          atomic.Int64
		mu                           sync.Mutex
		reports                      = make(map[string][]types.Report, len(seasons))
		firstErr                     error
	)

	jobs := make(chan Season, config.Workers*workerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for season := range jobs {
				out := make([]types.Report, 0, len(season.Gameweeks))
				for _, doc := range season.Gameweeks {
					submitted.Add(1)
					report, err := evaluate(ctx, client, config.BaseURL, season.SquadID, doc)
					if err != nil {
						failed.Add(1)
						mu.Lock()
						if firstErr == nil {
							firstErr = fmt.Errorf("squad %s gw %d: %w", season.SquadID, doc.Gameweek, err)
						}
						mu.Unlock()
						break
					}
					succeeded.Add(1)
					newly.Add(int64(len(report.NewlyUnlocked)))
					if report.Celebration.Active {
						celebrations.Add(1)
					}
					if config.Verbose {
						logger.Get().Debug(ctx, "report",
							logger.String("squad_id", season.SquadID),
							logger.Int("gw", report.Gameweek),
							logger.Int("earned", report.Overall.Earned),
							logger.Ints("newly_unlocked", report.NewlyUnlocked))
					}
					out = append(out, report)
				}
				mu.Lock()
				reports[season.SquadID] = out
				mu.Unlock()
			}
		}()
	}

	for _, s := range seasons {
		select {
		case jobs <- s:
		case <-ctx.Done():
		}
	}
	close(jobs)
	wg.Wait()

	stats.Squads = len(seasons)
	stats.Submitted = int(submitted.Load())
	stats.Succeeded = int(succeeded.Load())
	stats.Failed = int(failed.Load())
	stats.NewlyUnlocked = int(newly.Load())
	stats.Celebrations = int(celebrations.Load())

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	return reports, firstErr
}
