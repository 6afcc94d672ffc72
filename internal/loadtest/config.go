// Package loadtest drives a running hoopsim service through its job API
// and checks that the standings it ends up with are consistent.
package loadtest

import (
	"errors"
	"time"
)

// Defaults for a load run.
const (
	DefaultJobs         = 1000
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
	DefaultWait         = 2 * time.Minute
)

// ErrInconsistent marks a standings table that disagrees with the games
// the run saw finish.
var ErrInconsistent = errors.New("standings inconsistent")

// Config holds configuration for a load run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Jobs         int           // Number of distinct jobs to submit
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	Duplicates   int           // Every Nth job is submitted twice; 0 disables
	Seed         uint64        // Seeds matchup selection and game seeds
	PollInterval time.Duration // Delay between job status polls
	Wait         time.Duration // Upper bound on waiting for jobs to finish
	Verbose      bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Accepted    int
	Duplicate   int
	Backpressed int
	Failed      int
	Done        int
	JobsFailed  int
	Pending     int
	Teams       int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Jobs <= 0 {
		out.Jobs = DefaultJobs
	}
	if out.Workers <= 0 {
		out.Workers = 1
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.PollInterval <= 0 {
		out.PollInterval = DefaultPollInterval
	}
	if out.Wait <= 0 {
		out.Wait = DefaultWait
	}
	return out
}
