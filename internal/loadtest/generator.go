package loadtest

import (
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/hoopsim/internal/domain/model"
)

// generateRequests builds n job requests over random matchups of teams.
// Requests carry their own seed so the games they produce are replayable.
func generateRequests(teams []string, n int, seed uint64) []model.GameRequest {
	if len(teams) < 2 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	reqs := make([]model.GameRequest, n)
	for i := range reqs {
		home := rng.IntN(len(teams))
		away := rng.IntN(len(teams) - 1)
		if away >= home {
			away++
		}
		gameSeed := rng.Uint64()
		reqs[i] = model.GameRequest{
			RequestID: uuid.NewString(),
			Home:      teams[home],
			Away:      teams[away],
			Seed:      &gameSeed,
		}
	}
	return reqs
}

// withDuplicates appends a copy of every nth request, keeping its
// request id so the service must recognise it.
func withDuplicates(reqs []model.GameRequest, every int) []model.GameRequest {
	if every <= 0 {
		return reqs
	}
	out := make([]model.GameRequest, 0, len(reqs)+len(reqs)/every)
	out = append(out, reqs...)
	for i := 0; i < len(reqs); i += every {
		out = append(out, reqs[i])
	}
	return out
}
