// Package service wires the league, the simulation core, the job pipeline
// and the standings store behind the operations the HTTP API serves.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/hoopsim/internal/adapters/mq/queue"
	workerpool "github.com/okian/hoopsim/internal/adapters/mq/worker"
	"github.com/okian/hoopsim/internal/adapters/repository"
	"github.com/okian/hoopsim/internal/domain/dedupe"
	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/sim"
	"github.com/okian/hoopsim/internal/domain/types"
	"github.com/okian/hoopsim/pkg/logger"
	"github.com/okian/hoopsim/pkg/metrics"
)

// Service implements the API dependencies for the simulator.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog *league.Catalog
	store   repository.Store
	jobs    repository.JobStore
	deduper dedupe.Deduper
	queue   *jobqueue.InMemoryQueue
	pool    *workerpool.Pool

	// Configuration
	workerCount       int
	queueSize         int
	dedupeSize        int
	leagueFile        string
	seed              uint64
	maxStandingsLimit int
	maxSeriesGames    int
	seriesParallelism int

	// State
	started bool
	draws   atomic.Uint64
	newID   func() string
	now     func() time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU(),
		queueSize:         10_000,
		dedupeSize:        50_000,
		maxStandingsLimit: 100,
		maxSeriesGames:    1_000,
		seriesParallelism: runtime.NumCPU(),
		newID:             uuid.NewString,
		now:               time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the league if none was given and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	s.logger.Info(ctx, "starting simulation service...")

	if s.catalog == nil {
		cat, err := s.loadCatalog()
		if err != nil {
			return fmt.Errorf("start: %w", err)
		}
		s.catalog = cat
	}

	s.store = repository.NewMemoryStore(repository.WithMaxLimit(s.maxStandingsLimit))
	s.jobs = repository.NewMemoryJobs()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s, s,
		workerpool.WithName("sim-worker"),
		workerpool.WithLogger(s.logger.Named("workers")),
	)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "simulation service started",
		logger.Int("teams", s.catalog.Len()),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Uint64("seed", s.seed),
	)
	return nil
}

func (s *Service) loadCatalog() (*league.Catalog, error) {
	if s.leagueFile != "" {
		return league.LoadFile(s.leagueFile)
	}
	return league.Default()
}

// Stop closes the job queue and waits for queued jobs to finish. If ctx
// ends first the remaining jobs are abandoned.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.RLock()
	started, q, pool := s.started, s.queue, s.pool
	s.mu.RUnlock()
	if !started {
		return nil
	}

	s.logger.Info(ctx, "stopping simulation service...")
	_ = q.Close()
	// Workers call back into the service while draining, so mu is not held.
	err := pool.Stop(ctx)

	s.mu.Lock()
	s.started = false
	s.mu.Unlock()

	s.logger.Info(ctx, "simulation service stopped",
		logger.Int64("processed", pool.Processed()),
		logger.Int64("failed", pool.Failed()),
	)
	return err
}

// Teams lists the league in id order.
func (s *Service) Teams(_ context.Context) ([]types.TeamSummary, error) {
	cat, err := s.league()
	if err != nil {
		return nil, err
	}
	teams := cat.Teams()
	out := make([]types.TeamSummary, len(teams))
	for i, t := range teams {
		out[i] = types.NewTeamSummary(t)
	}
	return out, nil
}

// Simulate plays one game, stores it and folds it into the standings.
func (s *Service) Simulate(ctx context.Context, req model.GameRequest) (model.GameRecord, error) {
	cat, err := s.league()
	if err != nil {
		return model.GameRecord{}, err
	}
	m, err := matchup(cat, req.Home, req.Away, req.HomeTactics, req.AwayTactics)
	if err != nil {
		return model.GameRecord{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.GameRecord{}, err
	}

	src, seed := s.source(req.Seed)
	start := time.Now()
	res, err := sim.SimulateGame(m, src)
	took := time.Since(start)
	if err != nil {
		metrics.RecordSimulationError()
		metrics.RecordErrorByComponent("service", "simulate")
		return model.GameRecord{}, fmt.Errorf("simulate %s vs %s: %w", req.Home, req.Away, err)
	}

	rec := model.GameRecord{ID: s.newID(), PlayedAt: s.now().UTC(), Seed: seed, Result: res}
	if err := s.store.SaveGame(ctx, rec); err != nil {
		return model.GameRecord{}, fmt.Errorf("save game %s: %w", rec.ID, err)
	}

	metrics.RecordGame(metrics.GameRecord{
		HomePoints:  res.Home.Score,
		AwayPoints:  res.Away.Score,
		Possessions: res.Possessions,
		Turnovers:   turnovers(res.Home) + turnovers(res.Away),
		LatencyMs:   float64(took.Microseconds()) / 1000,
	})
	fields := []logger.Field{
		logger.String("game_id", rec.ID),
		logger.String("home", res.Home.ID),
		logger.Int("home_score", res.Home.Score),
		logger.String("away", res.Away.ID),
		logger.Int("away_score", res.Away.Score),
		logger.Int("pace", res.Pace),
		logger.Duration("took", took),
	}
	if seed != nil {
		fields = append(fields, logger.Uint64("seed", *seed))
	}
	s.logger.Info(ctx, "game simulated", fields...)
	return rec, nil
}

// Series projects a matchup over many games without touching the standings.
func (s *Service) Series(ctx context.Context, req model.SeriesRequest) (sim.SeriesResult, error) {
	cat, err := s.league()
	if err != nil {
		return sim.SeriesResult{}, err
	}
	if req.Games < 1 || req.Games > s.maxSeriesGames {
		return sim.SeriesResult{}, fmt.Errorf("%w: games must be between 1 and %d", model.ErrInvalidRequest, s.maxSeriesGames)
	}
	m, err := matchup(cat, req.Home, req.Away, req.HomeTactics, req.AwayTactics)
	if err != nil {
		return sim.SeriesResult{}, err
	}

	start := time.Now()
	res, err := sim.SimulateSeries(ctx, m, req.Games, req.Seed, s.seriesParallelism)
	if err != nil {
		if ctx.Err() == nil {
			metrics.RecordSimulationError()
			metrics.RecordErrorByComponent("service", "series")
		}
		return sim.SeriesResult{}, fmt.Errorf("series %s vs %s: %w", req.Home, req.Away, err)
	}
	metrics.RecordSeries()
	s.logger.Info(ctx, "series simulated",
		logger.String("home", req.Home),
		logger.String("away", req.Away),
		logger.Int("games", res.Games),
		logger.Float64("home_win_share", res.HomeWinShare),
		logger.Duration("took", time.Since(start)),
	)
	return res, nil
}

// SubmitJob validates req and queues it. A repeated request id is
// acknowledged with the job created for its first submission.
func (s *Service) SubmitJob(ctx context.Context, req model.GameRequest) (types.JobAck, error) {
	cat, err := s.league()
	if err != nil {
		return types.JobAck{}, err
	}
	if _, err := matchup(cat, req.Home, req.Away, req.HomeTactics, req.AwayTactics); err != nil {
		return types.JobAck{}, err
	}

	jobID := s.newID()
	if req.RequestID != "" {
		owner, dup := s.deduper.Claim(ctx, req.RequestID, jobID)
		if dup {
			metrics.RecordJobDuplicate()
			ack := types.JobAck{JobID: owner, Status: model.JobPending, Duplicate: true}
			if job, err := s.jobs.Job(ctx, owner); err == nil {
				ack.Status = job.Status
			}
			s.logger.Debug(ctx, "duplicate job request",
				logger.String("request_id", req.RequestID),
				logger.String("job_id", owner),
			)
			return ack, nil
		}
	}

	job := model.Job{ID: jobID, Request: req, SubmittedAt: s.now().UTC()}
	if err := s.jobs.CreateJob(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		return types.JobAck{}, fmt.Errorf("create job: %w", err)
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.release(ctx, req.RequestID)
		_ = s.jobs.FailJob(ctx, jobID, err)
		s.logger.Warn(ctx, "job rejected", logger.String("job_id", jobID), logger.Error(err))
		return types.JobAck{}, fmt.Errorf("enqueue job: %w", err)
	}
	metrics.RecordJobSubmitted()
	return types.JobAck{JobID: jobID, Status: model.JobPending}, nil
}

func (s *Service) release(ctx context.Context, requestID string) {
	if requestID != "" {
		s.deduper.Release(ctx, requestID)
	}
}

// Job returns a job and, once it is done, the game it produced.
func (s *Service) Job(ctx context.Context, id string) (types.JobView, error) {
	if _, err := s.league(); err != nil {
		return types.JobView{}, err
	}
	job, err := s.jobs.Job(ctx, id)
	if err != nil {
		return types.JobView{}, err
	}
	view := types.JobView{Job: job}
	if job.Status == model.JobDone {
		rec, err := s.store.Game(ctx, job.GameID)
		switch {
		case err == nil:
			view.Game = &rec
		case !errors.Is(err, repository.ErrNotFound):
			return types.JobView{}, err
		}
	}
	return view, nil
}

// CompleteJob implements the worker Recorder.
func (s *Service) CompleteJob(ctx context.Context, jobID, gameID string) error {
	return s.jobs.CompleteJob(ctx, jobID, gameID)
}

// FailJob implements the worker Recorder.
func (s *Service) FailJob(ctx context.Context, jobID string, cause error) error {
	return s.jobs.FailJob(ctx, jobID, cause)
}

// Standings returns the top limit rows of the league table.
func (s *Service) Standings(ctx context.Context, limit int) ([]types.Standing, error) {
	if _, err := s.league(); err != nil {
		return nil, err
	}
	return s.store.Standings(ctx, limit)
}

// Standing returns one team's row. Teams outside the league report
// league.ErrTeamNotFound; teams without games report repository.ErrNotFound.
func (s *Service) Standing(ctx context.Context, teamID string) (types.Standing, error) {
	cat, err := s.league()
	if err != nil {
		return types.Standing{}, err
	}
	if _, err := cat.Lookup(teamID); err != nil {
		return types.Standing{}, err
	}
	return s.store.Standing(ctx, teamID)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}
	if s.started {
		stats["teams"] = s.catalog.Len()
		stats["queueLength"] = s.queue.Len(ctx)
		stats["gamesStored"] = s.store.GameCount(ctx)
		stats["standingsTeams"] = s.store.Count(ctx)
		stats["jobsProcessed"] = s.pool.Processed()
		stats["jobsFailed"] = s.pool.Failed()
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateWorkerCount(s.workerCount)
		metrics.SampleRuntime()
	}
	return stats
}

// league returns the catalog once the service is started.
func (s *Service) league() (*league.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.catalog, nil
}

// source picks the random source for a game and the seed to record with it.
func (s *Service) source(seed *uint64) (sim.Source, *uint64) {
	switch {
	case seed != nil:
		v := *seed
		return sim.NewSeededSource(v), &v
	case s.seed != 0:
		v := s.seed + s.draws.Add(1) - 1
		return sim.NewSeededSource(v), &v
	default:
		return sim.DefaultSource(), nil
	}
}

// matchup resolves both teams and their tactics, checking everything the
// orchestrator would reject before any work is queued.
func matchup(cat *league.Catalog, home, away string, ht, at model.TacticsSpec) (sim.Matchup, error) {
	switch {
	case home == "" || away == "":
		return sim.Matchup{}, fmt.Errorf("%w: home and away are required", model.ErrInvalidRequest)
	case home == away:
		return sim.Matchup{}, fmt.Errorf("%w: %s cannot play itself", model.ErrInvalidRequest, home)
	}
	m := sim.Matchup{}
	var err error
	if m.Home, err = cat.Lookup(home); err != nil {
		return sim.Matchup{}, fmt.Errorf("home: %w", err)
	}
	if m.Away, err = cat.Lookup(away); err != nil {
		return sim.Matchup{}, fmt.Errorf("away: %w", err)
	}
	if m.HomeTactics, err = ht.Tactics(); err != nil {
		return sim.Matchup{}, fmt.Errorf("home tactics: %w", err)
	}
	if m.AwayTactics, err = at.Tactics(); err != nil {
		return sim.Matchup{}, fmt.Errorf("away tactics: %w", err)
	}
	if _, err := sim.NewPossessionContext(m.Home, m.HomeTactics); err != nil {
		return sim.Matchup{}, fmt.Errorf("home tactics: %w", err)
	}
	if _, err := sim.NewPossessionContext(m.Away, m.AwayTactics); err != nil {
		return sim.Matchup{}, fmt.Errorf("away tactics: %w", err)
	}
	return m, nil
}

func turnovers(t sim.TeamResult) int {
	n := 0
	for _, p := range t.Players {
		n += p.Turnovers
	}
	return n
}
