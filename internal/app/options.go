package service

import (
	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many job request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog serves the given league instead of loading one on Start.
func WithCatalog(c *league.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithLeagueFile loads the league from a YAML file on Start. Ignored when
// WithCatalog is also given.
func WithLeagueFile(path string) Option {
	return func(s *Service) {
		s.leagueFile = path
	}
}

// WithSeed makes requests without their own seed draw from a sequence
// derived from seed. Zero keeps ambient randomness.
func WithSeed(seed uint64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithMaxStandingsLimit caps the rows a standings query may ask for.
func WithMaxStandingsLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxStandingsLimit = n
		}
	}
}

// WithMaxSeriesGames caps the games of one series request.
func WithMaxSeriesGames(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSeriesGames = n
		}
	}
}

// WithSeriesParallelism bounds concurrent games within one series.
func WithSeriesParallelism(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seriesParallelism = n
		}
	}
}
