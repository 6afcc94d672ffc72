package loadtest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
)

// jobTally counts terminal states reached by the polled jobs.
type jobTally struct {
	done, failed, pending int
}

// waitForJobs polls every job until all are terminal or wait elapses.
func waitForJobs(ctx context.Context, c *httpClient, ids []string, interval, wait time.Duration) (jobTally, error) {
	deadline := time.Now().Add(wait)
	remaining := ids
	var tally jobTally

	for len(remaining) > 0 {
		next := remaining[:0]
		for _, id := range remaining {
			var view types.JobView
			status, err := c.get(ctx, "/jobs/"+id, &view)
			if err != nil {
				return tally, err
			}
			if status != http.StatusOK {
				return tally, fmt.Errorf("job %s: unexpected status %d", id, status)
			}
			switch view.Status {
			case model.JobDone:
				tally.done++
			case model.JobFailed:
				tally.failed++
			default:
				next = append(next, id)
			}
		}
		remaining = next
		if len(remaining) == 0 || time.Now().After(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			tally.pending = len(remaining)
			return tally, ctx.Err()
		case <-time.After(interval):
		}
	}
	tally.pending = len(remaining)
	return tally, nil
}

// verifyStandings checks table against the number of games the service
// reports as stored.
func verifyStandings(table []types.Standing, games int) error {
	var played, wins, losses, ties, pf, pa int
	for i, row := range table {
		if row.Rank != i+1 {
			return fmt.Errorf("%w: row %d has rank %d", ErrInconsistent, i, row.Rank)
		}
		if row.Wins+row.Losses+row.Ties != row.Games {
			return fmt.Errorf("%w: %s record does not add up to %d games", ErrInconsistent, row.TeamID, row.Games)
		}
		if row.PointDiff != row.PointsFor-row.PointsAgainst {
			return fmt.Errorf("%w: %s point diff", ErrInconsistent, row.TeamID)
		}
		if i > 0 && outranks(row, table[i-1]) {
			return fmt.Errorf("%w: %s listed below %s", ErrInconsistent, row.TeamID, table[i-1].TeamID)
		}
		played += row.Games
		wins += row.Wins
		losses += row.Losses
		ties += row.Ties
		pf += row.PointsFor
		pa += row.PointsAgainst
	}
	switch {
	case played != 2*games:
		return fmt.Errorf("%w: %d team games for %d games", ErrInconsistent, played, games)
	case wins != losses:
		return fmt.Errorf("%w: %d wins against %d losses", ErrInconsistent, wins, losses)
	case ties%2 != 0:
		return fmt.Errorf("%w: odd tie count %d", ErrInconsistent, ties)
	case pf != pa:
		return fmt.Errorf("%w: %d points scored against %d allowed", ErrInconsistent, pf, pa)
	}
	return nil
}

// outranks reports whether a should be listed above b.
func outranks(a, b types.Standing) bool {
	// Win shares compared exactly: (2w+t)/2g, cross-multiplied.
	as := int64(2*a.Wins+a.Ties) * int64(b.Games)
	bs := int64(2*b.Wins+b.Ties) * int64(a.Games)
	if as != bs {
		return as > bs
	}
	if a.PointDiff != b.PointDiff {
		return a.PointDiff > b.PointDiff
	}
	return a.TeamID < b.TeamID
}
