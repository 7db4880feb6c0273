package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/gradient/internal/loadgen"
	"github.com/okian/gradient/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers = 2 // multiplier for runtime.NumCPU()
	defaultSeed    = 1
	runTimeout     = 10 * time.Minute
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		baseURL     = flag.String("url", loadgen.DefaultBaseURL, "Base URL of the service")
		requests    = flag.Int("requests", loadgen.DefaultRequests, "Engine requests spread across all operations")
		jobs        = flag.Int("jobs", loadgen.DefaultJobs, "Batch analysis jobs to submit")
		items       = flag.Int("items", loadgen.DefaultItemsPerJob, "Submissions per batch job")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Concurrent requests in flight")
		timeout     = flag.Duration("timeout", loadgen.DefaultTimeout, "Per-request timeout")
		pollTimeout = flag.Duration("poll-timeout", loadgen.DefaultPollTimeout, "How long to wait for batch jobs")
		seed        = flag.Uint64("seed", defaultSeed, "Generator seed")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		loadgen.ShowHelp()
		return 0
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	summary, err := loadgen.Run(ctx, loadgen.Config{
		BaseURL:     *baseURL,
		Requests:    *requests,
		Jobs:        *jobs,
		ItemsPerJob: *items,
		Workers:     *workers,
		Timeout:     *timeout,
		PollTimeout: *pollTimeout,
		Seed:        *seed,
		Verbose:     *verbose,
	})
	if err != nil {
		logger.Get().Error(ctx, "load run failed", logger.Error(err))
		return 1
	}
	if summary.JobsPending > 0 {
		return 2
	}
	return 0
}
