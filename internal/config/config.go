// Package config defines the hoopsim process configuration and how it is
// layered from defaults, an optional YAML file and HOOPSIM_ env vars.
package config

import (
	"context"
	"fmt"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr is the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory job queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of simulation workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize caps how many job request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxStandingsLimit caps GET /standings?limit.
	MaxStandingsLimit int `koanf:"max_standings_limit"`

	// LeagueFile optionally replaces the bundled league.
	LeagueFile string `koanf:"league_file"`

	// Seed, when non-zero, makes requests without their own seed
	// reproducible across restarts.
	Seed uint64 `koanf:"seed"`

	// MaxSeriesGames caps the games of one POST /series request.
	MaxSeriesGames int `koanf:"max_series_games"`

	// SeriesParallelism bounds concurrent games within one series.
	SeriesParallelism int `koanf:"series_parallelism"`
}

// New returns a Config holding the defaults. The context is reserved for
// loaders that need it.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         10_000,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        100_000,
		MaxStandingsLimit: 100,
		MaxSeriesGames:    1_000,
		SeriesParallelism: runtime.NumCPU(),
	}
}

// Validate reports the first setting the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount <= 0:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	case c.DedupeSize <= 0:
		return fmt.Errorf("%w: dedupe_size must be positive", ErrInvalidConfig)
	case c.MaxStandingsLimit <= 0:
		return fmt.Errorf("%w: max_standings_limit must be positive", ErrInvalidConfig)
	case c.MaxSeriesGames <= 0:
		return fmt.Errorf("%w: max_series_games must be positive", ErrInvalidConfig)
	case c.SeriesParallelism <= 0:
		return fmt.Errorf("%w: series_parallelism must be positive", ErrInvalidConfig)
	}
	return nil
}
