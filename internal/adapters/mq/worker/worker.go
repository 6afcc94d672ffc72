// Package worker runs queued game jobs on a fixed pool of goroutines.
package worker

import (
	"context"
	"errors"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/hoopsim/internal/adapters/mq/queue"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/pkg/logger"
	"github.com/okian/hoopsim/pkg/metrics"
)

// Queue is where workers take jobs from.
type Queue interface {
	Next(ctx context.Context) (model.Job, error)
}

// Simulator plays the game a job asks for and stores its record.
type Simulator interface {
	Simulate(ctx context.Context, req model.GameRequest) (model.GameRecord, error)
}

// Recorder moves a job to its terminal state.
type Recorder interface {
	CompleteJob(ctx context.Context, jobID, gameID string) error
	FailJob(ctx context.Context, jobID string, cause error) error
}

// Pool runs size workers, each pulling jobs until the queue is closed and
// drained or the pool is stopped.
type Pool struct {
	size   int
	name   string
	queue  Queue
	sim    Simulator
	rec    Recorder
	logger logger.Logger

	mu      sync.Mutex
	g       *errgroup.Group
	cancel  context.CancelFunc
	running bool

	active    atomic.Int64
	processed atomic.Int64
	failed    atomic.Int64
}

// NewPool creates a worker pool. A size below one means one per CPU.
func NewPool(size int, q Queue, sim Simulator, rec Recorder, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		size:  size,
		name:  "worker",
		queue: q,
		sim:   sim,
		rec:   rec,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}
	return p
}

// Start launches the workers. They stop when ctx is done, Stop is called,
// or the queue reports it is closed.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	wctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(wctx)
	for i := range p.size {
		name := p.name + "-" + strconv.Itoa(i)
		g.Go(func() error {
			p.run(gctx, name)
			return nil
		})
	}
	p.g, p.cancel, p.running = g, cancel, true
	metrics.UpdateWorkerCount(p.size)
	metrics.UpdateWorkerActiveCount(0)
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", p.size))
}

// Stop waits for workers to drain a closed queue. If ctx ends first the
// workers are cancelled and ctx's error is returned.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return nil
	}
	p.running = false

	done := make(chan struct{})
	go func() {
		_ = p.g.Wait()
		close(done)
	}()
	select {
	case <-done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		<-done
		p.logger.Warn(ctx, "worker pool stop timed out")
		return ctx.Err()
	}
}

// Processed returns how many jobs reached a terminal state.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns how many jobs failed.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

func (p *Pool) run(ctx context.Context, name string) {
	log := p.logger.Named(name)
	for {
		job, err := p.queue.Next(ctx)
		if err != nil {
			if !errors.Is(err, queue.ErrClosed) && ctx.Err() == nil {
				log.Error(ctx, "dequeue failed", logger.Error(err))
			}
			return
		}
		p.process(ctx, log, job)
	}
}

func (p *Pool) process(ctx context.Context, log logger.Logger, job model.Job) { //nolint:gocritic // jobs travel by value
	start := time.Now()
	metrics.UpdateWorkerActiveCount(int(p.active.Add(1)))
	defer func() {
		metrics.UpdateWorkerActiveCount(int(p.active.Add(-1)))
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
		p.processed.Add(1)
	}()

	rec, err := p.sim.Simulate(ctx, job.Request)
	if err != nil {
		p.failed.Add(1)
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "simulation")
		metrics.RecordJobFinished(metrics.JobFailed)
		log.Warn(ctx, "job failed", logger.String("job_id", job.ID), logger.Error(err))
		if ferr := p.rec.FailJob(ctx, job.ID, err); ferr != nil {
			log.Error(ctx, "record job failure", logger.String("job_id", job.ID), logger.Error(ferr))
		}
		return
	}
	metrics.RecordJobFinished(metrics.JobDone)
	if err := p.rec.CompleteJob(ctx, job.ID, rec.ID); err != nil {
		log.Error(ctx, "record job completion", logger.String("job_id", job.ID), logger.Error(err))
		return
	}
	log.Debug(ctx, "job done",
		logger.String("job_id", job.ID),
		logger.String("game_id", rec.ID),
		logger.Duration("took", time.Since(start)),
	)
}
