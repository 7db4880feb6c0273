// Package service wires the analytics engine, the batch job pipeline and
// the job store behind the operations the HTTP API depends on.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/okian/gradient/internal/adapters/mq/queue"
	workerpool "github.com/okian/gradient/internal/adapters/mq/worker"
	repository "github.com/okian/gradient/internal/adapters/repository"
	"github.com/okian/gradient/internal/domain/analysis"
	"github.com/okian/gradient/internal/domain/dedupe"
	"github.com/okian/gradient/internal/domain/model"
	"github.com/okian/gradient/internal/domain/prediction"
	"github.com/okian/gradient/internal/domain/recommend"
	"github.com/okian/gradient/internal/domain/schedule"
	"github.com/okian/gradient/internal/domain/similarity"
	"github.com/okian/gradient/internal/domain/types"
	"github.com/okian/gradient/pkg/logger"
	"github.com/okian/gradient/pkg/metrics"
)

// Defaults used when no option overrides them.
const (
	DefaultQueueSize    = 1024
	DefaultDedupeSize   = 10000
	DefaultMaxBatchSize = 100
	DefaultJobRetention = time.Hour
)

// Service implements the API dependencies for the analytics engine.
type Service struct {
	mu sync.RWMutex

	// Engine
	analyzer  *analysis.Analyzer
	scorer    *similarity.Scorer
	optimizer *schedule.Optimizer

	// Batch pipeline
	jobs       *repository.MemoryStore
	deduper    dedupe.Deduper
	jobQueue   *jobqueue.InMemoryQueue
	workerPool *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	maxBatchSize  int
	jobRetention  time.Duration
	minBreak      time.Duration
	preferredTime string
	skipWeekends  bool
	now           func() time.Time

	// State
	started bool

	logger logger.Logger
}

// New creates a new service. Engine operations are usable right away; batch
// jobs need Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     DefaultQueueSize,
		dedupeSize:    DefaultDedupeSize,
		maxBatchSize:  DefaultMaxBatchSize,
		jobRetention:  DefaultJobRetention,
		minBreak:      schedule.DefaultMinBreak,
		preferredTime: schedule.DefaultPreferredTime,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.scorer = similarity.NewScorer()
	s.analyzer = analysis.NewAnalyzer(analysis.WithScorer(s.scorer))
	s.optimizer = schedule.NewOptimizer(
		schedule.WithClock(s.now),
		schedule.WithMinBreak(s.minBreak),
		schedule.WithPreferredTime(s.preferredTime),
	)
	return s
}

// Start builds the job pipeline and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting analytics service...")

	s.jobs = repository.NewMemoryStore(ctx,
		repository.WithRetention(s.jobRetention),
		repository.WithClock(s.now),
	)
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.jobQueue = jobqueue.NewInMemoryQueue(jobqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s.analyzer, s.jobs,
		workerpool.WithClock(s.now),
		workerpool.WithLogger(s.logger.Named("worker")),
	)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "analytics service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxBatchSize", s.maxBatchSize),
		logger.Duration("jobRetention", s.jobRetention),
	)
	return nil
}

// Stop drains the job queue and shuts the pipeline down.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping analytics service...")

	if err := s.workerPool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		s.workerPool.Stop()
	}
	_ = s.jobs.Close()

	s.started = false
	s.logger.Info(ctx, "analytics service stopped")
}

// AnalyzeSubmission grades one submission.
func (s *Service) AnalyzeSubmission(ctx context.Context, in analysis.Input) analysis.Result {
	start := time.Now()
	res := s.analyzer.Analyze(in)
	elapsed := time.Since(start)

	metrics.RecordAnalysis(string(res.Status), float64(elapsed.Milliseconds()))
	if res.Metrics != nil {
		metrics.RecordKeywordCoverage(res.Metrics.KeywordCoverage)
	}
	s.degraded(ctx, "analysis", res.Status, logger.Duration("elapsed", elapsed))
	return res
}

// TextSimilarity scores how alike two texts are in [0, 1].
func (s *Service) TextSimilarity(ctx context.Context, a, b string) float64 {
	start := time.Now()
	score := s.scorer.Similarity(a, b)

	metrics.RecordSimilarityCall()
	metrics.RecordOperationLatency("similarity", float64(time.Since(start).Milliseconds()))
	s.logger.Debug(ctx, "similarity computed", logger.Float64("score", score))
	return score
}

// PredictPerformance forecasts the next score from a grade history.
func (s *Service) PredictPerformance(ctx context.Context, history []prediction.Point) prediction.Result {
	start := time.Now()
	res := prediction.Predict(history)

	metrics.RecordPrediction(string(res.Status))
	metrics.RecordOperationLatency("prediction", float64(time.Since(start).Milliseconds()))
	s.degraded(ctx, "prediction", res.Status,
		logger.Int("points", len(history)),
		logger.String("explanation", res.Explanation),
	)
	return res
}

// GenerateRecommendations suggests next steps for a student.
func (s *Service) GenerateRecommendations(ctx context.Context, student recommend.StudentData, course recommend.CourseData) []recommend.Recommendation {
	start := time.Now()
	recs := recommend.Generate(student, course)

	for _, r := range recs {
		metrics.RecordRecommendation(string(r.Type))
		if r.Type == recommend.KindError {
			metrics.RecordDegraded("recommendation", string(types.StatusFailed))
			s.logger.Error(ctx, "recommendation generation failed", logger.String("reason", r.Reason))
		}
	}
	metrics.RecordOperationLatency("recommendation", float64(time.Since(start).Milliseconds()))
	return recs
}

// OptimizeSchedule places study events into time slots. Service-level
// preferences fill in whatever the request leaves unset.
func (s *Service) OptimizeSchedule(ctx context.Context, events []schedule.Event, c schedule.Constraints, p schedule.Preferences) (schedule.Result, error) {
	start := time.Now()
	c.SkipWeekends = c.SkipWeekends || s.skipWeekends

	res, err := s.optimizer.Optimize(events, c, p)
	metrics.RecordOperationLatency("schedule", float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScheduleReject()
		s.logger.Warn(ctx, "schedule rejected", logger.Error(err))
		return res, fmt.Errorf("optimize schedule: %w", err)
	}

	metrics.RecordSchedule(len(res.Events), len(events)-len(res.Events))
	s.degraded(ctx, "schedule", res.Status,
		logger.Int("requested", len(events)),
		logger.Int("placed", len(res.Events)),
	)
	return res, nil
}

// SubmitJob accepts a batch of submissions for asynchronous analysis and
// returns its queued record. A job id already seen returns the stored record
// with duplicate set.
func (s *Service) SubmitJob(ctx context.Context, job model.Job) (rec model.JobRecord, duplicate bool, err error) { //nolint:gocritic // jobs travel by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.JobRecord{}, false, ErrNotStarted
	}
	if len(job.Items) == 0 {
		return model.JobRecord{}, false, ErrEmptyBatch
	}
	if len(job.Items) > s.maxBatchSize {
		return model.JobRecord{}, false, fmt.Errorf("%d items, limit %d: %w", len(job.Items), s.maxBatchSize, ErrBatchTooLarge)
	}
	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}

	if s.deduper.SeenAndRecord(ctx, job.JobID) {
		metrics.RecordJobDuplicate()
		s.logger.Debug(ctx, "duplicate job", logger.String("jobID", job.JobID))
		existing, getErr := s.jobs.Get(ctx, job.JobID)
		if getErr != nil {
			// first submission not stored yet, or already pruned
			return model.JobRecord{JobID: job.JobID, Status: model.JobQueued, Results: []model.ItemResult{}}, true, nil
		}
		return existing, true, nil
	}

	job.SubmittedAt = s.now()
	rec = model.NewJobRecord(job)
	if err := s.jobs.Put(ctx, rec); err != nil {
		s.deduper.Unrecord(ctx, job.JobID)
		return model.JobRecord{}, false, fmt.Errorf("store job %q: %w", job.JobID, err)
	}

	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		s.deduper.Unrecord(ctx, job.JobID)
		_ = s.jobs.Delete(ctx, job.JobID)
		s.logger.Warn(ctx, "job rejected",
			logger.String("jobID", job.JobID),
			logger.Error(err),
		)
		return model.JobRecord{}, false, fmt.Errorf("enqueue job %q: %w: %w", job.JobID, ErrBackpressure, err)
	}

	metrics.RecordJobAccepted()
	s.logger.Info(ctx, "job accepted",
		logger.String("jobID", job.JobID),
		logger.Int("items", len(job.Items)),
	)
	return rec, false, nil
}

// GetJob returns the current record for a job.
func (s *Service) GetJob(ctx context.Context, jobID string) (model.JobRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return model.JobRecord{}, ErrNotStarted
	}
	rec, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return model.JobRecord{}, fmt.Errorf("%w: %w", ErrJobNotFound, err)
	}
	return rec, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":       s.started,
		"workerCount":   s.workerCount,
		"queueSize":     s.queueSize,
		"dedupeSize":    s.dedupeSize,
		"maxBatchSize":  s.maxBatchSize,
		"preferredTime": s.preferredTime,
	}

	if s.started {
		queueLen := s.jobQueue.Len()
		stats["queueLength"] = queueLen
		stats["jobsStored"] = s.jobs.Count(ctx)
		stats["jobIDsSeen"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}
	return stats
}

func (s *Service) degraded(ctx context.Context, op string, status types.Status, fields ...logger.Field) {
	switch status {
	case types.StatusOK:
		return
	case types.StatusFailed:
		s.logger.Error(ctx, op+" failed", fields...)
	default:
		s.logger.Warn(ctx, op+" degraded", append(fields, logger.String("status", string(status)))...)
	}
	metrics.RecordDegraded(op, string(status))
}
