package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/hoopsim/internal/loadtest"
	"github.com/okian/hoopsim/pkg/logger"
)

const defaultRunTimeout = 10 * time.Minute

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		jobs       = flag.Int("jobs", loadtest.DefaultJobs, "Number of distinct jobs to submit")
		workers    = flag.Int("workers", runtime.NumCPU()*2, "Number of concurrent submitters")
		timeout    = flag.Duration("timeout", loadtest.DefaultTimeout, "HTTP request timeout")
		duplicates = flag.Int("dup-every", 10, "Replay every Nth request id; 0 disables")
		seed       = flag.Uint64("seed", 1, "Seed for matchups and game seeds")
		wait       = flag.Duration("wait", loadtest.DefaultWait, "How long to wait for jobs to finish")
		logFormat  = flag.String("log-format", "text", "Log format: text or json")
		verbose    = flag.Bool("verbose", false, "Log every failed request")
	)
	flag.Parse()

	if err := logger.InitWith(logger.Options{Format: *logFormat}); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	if _, err := loadtest.Run(ctx, &loadtest.Config{
		BaseURL:    *baseURL,
		Jobs:       *jobs,
		Workers:    *workers,
		Timeout:    *timeout,
		Duplicates: *duplicates,
		Seed:       *seed,
		Wait:       *wait,
		Verbose:    *verbose,
	}); err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		os.Exit(1)
	}
}
