package loadtest

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/types"
	"github.com/okian/hoopsim/pkg/logger"
)

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeBackpressure
	outcomeFailed
)

// submission tracks the job ids the service handed out.
type submission struct {
	mu   sync.Mutex
	jobs map[string]struct{}

	submitted, accepted, duplicate, backpressed, failed atomic.Int64
}

func (s *submission) record(o outcome, jobID string) {
	s.submitted.Add(1)
	switch o {
	case outcomeAccepted:
		s.accepted.Add(1)
	case outcomeDuplicate:
		s.duplicate.Add(1)
	case outcomeBackpressure:
		s.backpressed.Add(1)
		return
	default:
		s.failed.Add(1)
		return
	}
	s.mu.Lock()
	s.jobs[jobID] = struct{}{}
	s.mu.Unlock()
}

// jobIDs returns the distinct job ids seen so far.
func (s *submission) jobIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		out = append(out, id)
	}
	return out
}

// submitJobs posts reqs to /jobs with at most workers requests in flight.
func submitJobs(ctx context.Context, c *httpClient, reqs []model.GameRequest, workers int, verbose bool) *submission {
	log := logger.Named("loadtest")
	log.Info(ctx, "submitting jobs", logger.Int("jobs", len(reqs)), logger.Int("workers", workers))

	sub := &submission{jobs: make(map[string]struct{}, len(reqs))}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, req := range reqs {
		g.Go(func() error {
			var ack types.JobAck
			status, err := c.post(gctx, "/jobs", req, &ack)
			o := classify(status, err)
			if o == outcomeFailed && verbose {
				log.Warn(gctx, "job submission failed",
					logger.String("requestID", req.RequestID),
					logger.Int("status", status),
					logger.Error(err))
			}
			sub.record(o, ack.JobID)
			return nil
		})
	}
	_ = g.Wait()

	log.Info(ctx, "job submission completed",
		logger.Int64("accepted", sub.accepted.Load()),
		logger.Int64("duplicate", sub.duplicate.Load()),
		logger.Int64("backpressure", sub.backpressed.Load()),
		logger.Int64("failed", sub.failed.Load()))
	return sub
}

func classify(status int, err error) outcome {
	if err != nil {
		return outcomeFailed
	}
	switch status {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		return outcomeDuplicate
	case http.StatusTooManyRequests:
		return outcomeBackpressure
	default:
		return outcomeFailed
	}
}
