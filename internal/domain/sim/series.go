package sim

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SeriesResult summarizes many independent games of one matchup.
type SeriesResult struct {
	Games        int     `json:"games"`
	HomeWins     int     `json:"home_wins"`
	AwayWins     int     `json:"away_wins"`
	Ties         int     `json:"ties"`
	HomeAvg      float64 `json:"home_avg"`
	AwayAvg      float64 `json:"away_avg"`
	HomeWinShare float64 `json:"home_win_share"`
}

// SimulateSeries plays games copies of m with at most parallelism in flight.
// Game i draws from NewSeededSource(seed+i), so the summary depends only on
// (m, games, seed).
func SimulateSeries(ctx context.Context, m Matchup, games int, seed uint64, parallelism int) (SeriesResult, error) {
	if games < 1 {
		return SeriesResult{}, fmt.Errorf("%w: series needs at least one game", ErrInvalidConfiguration)
	}
	scores := make([][2]int, games)

	g, gctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i := range games {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := SimulateGame(m, NewSeededSource(seed+uint64(i)))
			if err != nil {
				return err
			}
			scores[i] = [2]int{res.Home.Score, res.Away.Score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return SeriesResult{}, err
	}

	r := SeriesResult{Games: games}
	var home, away int
	for _, s := range scores {
		home += s[0]
		away += s[1]
		switch {
		case s[0] > s[1]:
			r.HomeWins++
		case s[1] > s[0]:
			r.AwayWins++
		default:
			r.Ties++
		}
	}
	r.HomeAvg = float64(home) / float64(games)
	r.AwayAvg = float64(away) / float64(games)
	r.HomeWinShare = float64(r.HomeWins) / float64(games)
	return r, nil
}
