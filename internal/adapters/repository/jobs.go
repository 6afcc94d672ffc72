package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/hoopsim/internal/domain/model"
)

// MemoryJobs is a process-local JobStore.
type MemoryJobs struct {
	mu   sync.RWMutex
	jobs map[string]model.Job
	now  func() time.Time
}

// NewMemoryJobs constructs an empty job store.
func NewMemoryJobs() *MemoryJobs {
	return &MemoryJobs{jobs: make(map[string]model.Job), now: time.Now}
}

// CreateJob stores job as pending.
func (s *MemoryJobs) CreateJob(_ context.Context, job model.Job) error {
	if job.ID == "" {
		return fmt.Errorf("%w: job id is empty", ErrInvalidRecord)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.ID]; ok {
		return fmt.Errorf("%w: job %s", ErrDuplicate, job.ID)
	}
	job.Status = model.JobPending
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = s.now()
	}
	s.jobs[job.ID] = job
	return nil
}

// Job returns a copy of the stored job.
func (s *MemoryJobs) Job(_ context.Context, id string) (model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return model.Job{}, fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	return job, nil
}

// CompleteJob marks id done with the game it produced.
func (s *MemoryJobs) CompleteJob(_ context.Context, id, gameID string) error {
	return s.finish(id, func(j *model.Job) {
		j.Status = model.JobDone
		j.GameID = gameID
	})
}

// FailJob marks id failed with cause.
func (s *MemoryJobs) FailJob(_ context.Context, id string, cause error) error {
	return s.finish(id, func(j *model.Job) {
		j.Status = model.JobFailed
		if cause != nil {
			j.Error = cause.Error()
		}
	})
}

func (s *MemoryJobs) finish(id string, update func(*model.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job %s", ErrNotFound, id)
	}
	if job.Terminal() {
		return fmt.Errorf("%w: job %s is %s", ErrJobFinished, id, job.Status)
	}
	update(&job)
	at := s.now()
	job.FinishedAt = &at
	s.jobs[id] = job
	return nil
}
