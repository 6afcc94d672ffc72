package model

import (
	"time"

	"github.com/okian/hoopsim/internal/domain/sim"
)

// GameRecord is a stored, identified game result.
type GameRecord struct {
	ID       string         `json:"id"`
	PlayedAt time.Time      `json:"played_at"`
	Seed     *uint64        `json:"seed,omitempty"`
	Result   sim.GameResult `json:"result"`
}

// JobStatus is the lifecycle state of an asynchronous game job.
type JobStatus string

// Job states.
const (
	JobPending JobStatus = "pending"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job is a queued game request and, once finished, its outcome.
type Job struct {
	ID          string      `json:"id"`
	Request     GameRequest `json:"request"`
	Status      JobStatus   `json:"status"`
	Error       string      `json:"error,omitempty"`
	GameID      string      `json:"game_id,omitempty"`
	SubmittedAt time.Time   `json:"submitted_at"`
	FinishedAt  *time.Time  `json:"finished_at,omitempty"`
}

// Terminal reports whether the job will not change again.
func (j Job) Terminal() bool {
	return j.Status == JobDone || j.Status == JobFailed
}
