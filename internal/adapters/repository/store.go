// Package repository keeps simulated game records, the league standings
// derived from them, and the lifecycle of asynchronous game jobs.
package repository

import (
	"context"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
)

// Store provides read/write access to played games and the standings.
type Store interface {
	// SaveGame records a finished game and folds its scoreline into both
	// teams' standings. Saving an id twice is rejected with ErrDuplicate.
	SaveGame(ctx context.Context, rec model.GameRecord) error

	// Game returns a stored game or ErrNotFound.
	Game(ctx context.Context, id string) (model.GameRecord, error)

	// Standings returns the top rows ordered by win share desc, point
	// differential desc, team id asc.
	Standings(ctx context.Context, limit int) ([]types.Standing, error)

	// Standing returns one team's row with its current rank, or
	// ErrNotFound if the team has not played.
	Standing(ctx context.Context, teamID string) (types.Standing, error)

	// Count returns the number of teams in the standings.
	Count(ctx context.Context) int

	// GameCount returns the number of retained game records.
	GameCount(ctx context.Context) int
}

// JobStore tracks asynchronous game jobs.
type JobStore interface {
	CreateJob(ctx context.Context, job model.Job) error
	Job(ctx context.Context, id string) (model.Job, error)
	CompleteJob(ctx context.Context, id, gameID string) error
	FailJob(ctx context.Context, id string, cause error) error
}
