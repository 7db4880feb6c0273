package loadgen

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/gradient/pkg/logger"
)

// Run executes a complete load run: health check, engine traffic, batch jobs
// and polling until the jobs finish or PollTimeout passes.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	cfg.normalize()
	log := logger.Get().Named("loadgen")
	start := time.Now()

	log.Info(ctx, "starting load run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("jobs", cfg.Jobs),
		logger.Int("itemsPerJob", cfg.ItemsPerJob),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
	)

	client := NewClient(cfg.BaseURL, cfg.Timeout)
	if err := client.Health(ctx); err != nil {
		return nil, fmt.Errorf("service health check failed: %w", err)
	}

	// requests are generated up front; the generator is single-threaded
	gen := NewGenerator(cfg.Seed, time.Now())
	requests := gen.Requests(cfg.Requests)
	jobs := gen.Jobs(cfg.Jobs, cfg.ItemsPerJob)

	stats := newStats()
	if err := sendRequests(ctx, client, cfg, requests, stats, log); err != nil {
		return nil, fmt.Errorf("engine traffic: %w", err)
	}

	accepted, err := submitJobs(ctx, client, cfg, jobs, stats, log)
	if err != nil {
		return nil, fmt.Errorf("job submission: %w", err)
	}

	completed := pollJobs(ctx, client, cfg, accepted, log)

	summary := &Summary{
		Ops:           stats.summary(),
		JobsAccepted:  len(accepted),
		JobsCompleted: completed,
		JobsPending:   len(accepted) - completed,
		Duration:      time.Since(start),
	}
	logSummary(ctx, log, summary)
	return summary, nil
}

func sendRequests(ctx context.Context, client *Client, cfg Config, requests []Request, stats *Stats, log logger.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, req := range requests {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			out, err := client.Send(gctx, req)
			stats.record(req.Op, out)
			if err != nil && cfg.Verbose {
				log.Debug(gctx, "request failed", logger.String("op", string(req.Op)), logger.Error(err))
			}
			return nil
		})
	}
	return g.Wait()
}

// submitJobs posts every job, then resubmits the first one to exercise
// idempotency. It returns the ids the service accepted.
func submitJobs(ctx context.Context, client *Client, cfg Config, jobs []JobRequest, stats *Stats, log logger.Logger) ([]string, error) {
	var (
		mu       sync.Mutex
		accepted []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, job := range jobs {
		g.Go(func() error {
			id, out, err := client.SubmitJob(gctx, job)
			stats.record(OpJobSubmit, out)
			if err != nil {
				log.Warn(gctx, "job submission failed", logger.String("jobID", job.JobID), logger.Error(err))
				return nil
			}
			if out == OutcomeOK {
				mu.Lock()
				accepted = append(accepted, id)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(jobs) > 0 {
		_, out, err := client.SubmitJob(ctx, jobs[0])
		stats.record(OpJobSubmit, out)
		if err == nil && out != OutcomeDup {
			log.Warn(ctx, "resubmitted job was not reported as duplicate", logger.String("jobID", jobs[0].JobID))
		}
	}
	return accepted, nil
}

// pollJobs waits until every job is done or PollTimeout passes and returns
// how many finished.
func pollJobs(ctx context.Context, client *Client, cfg Config, ids []string, log logger.Logger) int {
	if len(ids) == 0 {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.PollTimeout)
	defer cancel()

	pending := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}

	ticker := time.NewTicker(cfg.PollEvery)
	defer ticker.Stop()
	for {
		for id := range pending {
			state, err := client.Job(ctx, id)
			if err != nil {
				if cfg.Verbose {
					log.Debug(ctx, "job poll failed", logger.String("jobID", id), logger.Error(err))
				}
				continue
			}
			if state.Done() {
				delete(pending, id)
			}
		}
		if len(pending) == 0 {
			return len(ids)
		}
		select {
		case <-ctx.Done():
			log.Warn(ctx, "jobs still pending after poll timeout", logger.Int("pending", len(pending)))
			return len(ids) - len(pending)
		case <-ticker.C:
		}
	}
}

func logSummary(ctx context.Context, log logger.Logger, s *Summary) {
	for _, o := range s.Ops {
		log.Info(ctx, "operation summary",
			logger.String("op", string(o.Op)),
			logger.Int("sent", o.Sent),
			logger.Int("ok", o.OK),
			logger.Int("degraded", o.Degraded),
			logger.Int("rejected", o.Rejected),
			logger.Int("failed", o.Failed),
			logger.Int("duplicate", o.Dup),
		)
	}
	var rps float64
	if s.Duration > 0 {
		rps = float64(s.Total()) / s.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("requests", s.Total()),
		logger.Int("jobsAccepted", s.JobsAccepted),
		logger.Int("jobsCompleted", s.JobsCompleted),
		logger.Int("jobsPending", s.JobsPending),
		logger.Duration("duration", s.Duration),
		logger.Float64("requestsPerSecond", rps),
	)
}
