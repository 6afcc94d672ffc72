package loadtest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/hoopsim/internal/domain/types"
	"github.com/okian/hoopsim/pkg/logger"
)

// Run executes a complete load run against cfg.BaseURL.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	c := cfg.withDefaults()
	log := logger.Named("loadtest")
	stats := &Stats{StartTime: time.Now()}
	client := newHTTPClient(c.BaseURL, c.Timeout)

	log.Info(ctx, "starting hoopsim load run",
		logger.String("baseURL", c.BaseURL),
		logger.Int("jobs", c.Jobs),
		logger.Int("workers", c.Workers),
		logger.Int("duplicates", c.Duplicates),
		logger.Uint64("seed", c.Seed))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate requests over the league
	var teams []types.TeamSummary
	if _, err := client.get(ctx, "/teams", &teams); err != nil {
		return stats, fmt.Errorf("team listing failed: %w", err)
	}
	ids := make([]string, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	stats.Teams = len(ids)
	reqs := generateRequests(ids, c.Jobs, c.Seed)
	if reqs == nil {
		return stats, errors.New("league needs at least two teams")
	}
	stats.Generated = len(reqs)

	// Step 3: Submit jobs concurrently
	sub := submitJobs(ctx, client, withDuplicates(reqs, c.Duplicates), c.Workers, c.Verbose)
	stats.Submitted = int(sub.submitted.Load())
	stats.Accepted = int(sub.accepted.Load())
	stats.Duplicate = int(sub.duplicate.Load())
	stats.Backpressed = int(sub.backpressed.Load())
	stats.Failed = int(sub.failed.Load())

	// Step 4: Wait for processing
	log.Info(ctx, "waiting for jobs to finish")
	tally, err := waitForJobs(ctx, client, sub.jobIDs(), c.PollInterval, c.Wait)
	stats.Done, stats.JobsFailed, stats.Pending = tally.done, tally.failed, tally.pending
	if err != nil {
		return stats, fmt.Errorf("job polling failed: %w", err)
	}
	if tally.pending > 0 {
		return stats, fmt.Errorf("%d jobs still pending after %s", tally.pending, c.Wait)
	}

	// Step 5: Verify the standings
	if err := checkStandings(ctx, client, len(ids)); err != nil {
		return stats, err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *httpClient) error {
	status, err := c.get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

// checkStandings fetches the full table and the stored game count and
// checks them against each other.
func checkStandings(ctx context.Context, c *httpClient, teams int) error {
	var stats map[string]any
	if _, err := c.get(ctx, "/stats", &stats); err != nil {
		return fmt.Errorf("stats retrieval failed: %w", err)
	}
	stored, _ := stats["gamesStored"].(float64)

	var table []types.Standing
	status, err := c.get(ctx, fmt.Sprintf("/standings?limit=%d", teams), &table)
	if err != nil {
		return fmt.Errorf("standings retrieval failed: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("standings retrieval failed with status %d", status)
	}
	return verifyStandings(table, int(stored))
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backpressure", stats.Backpressed),
		logger.Int("failed", stats.Failed),
		logger.Int("done", stats.Done),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("submissionsPerSecond", perSecond))
}
