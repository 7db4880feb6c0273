// Package worker runs batch analysis jobs taken off the queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/gradient/internal/domain/analysis"
	"github.com/okian/gradient/internal/domain/model"
	"github.com/okian/gradient/pkg/logger"
	"github.com/okian/gradient/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.Job

// Analyzer grades one submission.
type Analyzer interface {
	Analyze(in analysis.Input) analysis.Result
}

// Recorder persists job progress.
type Recorder interface {
	Put(ctx context.Context, rec model.JobRecord) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or Shutdown is called.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in hand.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker analyzes every item of a job in order and records progress
// after each item.
type InMemoryWorker struct {
	queue    Queue
	analyzer Analyzer
	recorder Recorder
	name     string
	now      func() time.Time

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker.
func NewInMemoryWorker(q Queue, a Analyzer, r Recorder, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		analyzer: a,
		recorder: r,
		name:     "worker",
		now:      time.Now,
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				metrics.RecordWorkerError()
				w.logger.Error(ctx, "job processing failed",
					logger.String("job_id", job.JobID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) process(ctx context.Context, job Job) error { //nolint:gocritic // received by value from the channel
	start := time.Now()
	rec := model.NewJobRecord(job)
	rec.Status = model.JobRunning
	rec.UpdatedAt = w.now()
	if err := w.recorder.Put(ctx, rec); err != nil {
		return fmt.Errorf("record job %s: %w", job.JobID, err)
	}

	for _, item := range job.Items {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("job %s interrupted after %d items: %w", job.JobID, rec.Completed, err)
		}

		itemStart := time.Now()
		res := w.analyzer.Analyze(item.Input)
		metrics.RecordAnalysis(string(res.Status), float64(time.Since(itemStart).Milliseconds()))
		if !res.Status.OK() {
			w.logger.Debug(ctx, "item analysis degraded",
				logger.String("job_id", job.JobID),
				logger.String("item_id", item.ItemID),
				logger.String("status", string(res.Status)),
			)
		}

		rec.Results = append(rec.Results, model.ItemResult{ItemID: item.ItemID, Result: res})
		rec.Completed++
		if rec.Completed == rec.Total {
			rec.Status = model.JobDone
		}
		rec.UpdatedAt = w.now()
		if err := w.recorder.Put(ctx, rec); err != nil {
			return fmt.Errorf("record job %s: %w", job.JobID, err)
		}
	}

	if rec.Total == 0 {
		rec.Status = model.JobDone
		rec.UpdatedAt = w.now()
		if err := w.recorder.Put(ctx, rec); err != nil {
			return fmt.Errorf("record job %s: %w", job.JobID, err)
		}
	}

	latency := time.Since(start)
	metrics.RecordJobCompleted(float64(latency.Milliseconds()))
	w.logger.Debug(ctx, "job done",
		logger.String("job_id", job.JobID),
		logger.Int("items", rec.Total),
		logger.Duration("latency", latency),
	)
	return nil
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below 1 means one
// worker per CPU. opts are applied to every worker.
func NewPool(workerCount int, q Queue, a Analyzer, r Recorder, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewInMemoryWorker(q, a, r, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop signals every worker and waits briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue, then waits for workers to exit.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker %d: %w", i, shutdownCtx.Err())
		}
	}
	return nil
}
