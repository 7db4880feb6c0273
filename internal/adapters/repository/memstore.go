package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/gradient/internal/domain/model"
	"github.com/okian/gradient/pkg/metrics"
)

// Defaults for MemoryStore.
const (
	DefaultRetention     = time.Hour
	DefaultPruneInterval = time.Minute
)

// MemoryStore is a map-backed Store. With a positive retention a background
// goroutine prunes finished jobs until Close or the construction context ends.
type MemoryStore struct {
	mu   sync.RWMutex
	jobs map[string]model.JobRecord

	retention     time.Duration
	pruneInterval time.Duration
	now           func() time.Time

	wg       sync.WaitGroup
	stopOnce sync.Once
	stopChan chan struct{}
}

// NewMemoryStore constructs a store.
func NewMemoryStore(ctx context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{
		jobs:          make(map[string]model.JobRecord),
		retention:     DefaultRetention,
		pruneInterval: DefaultPruneInterval,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	metrics.UpdateJobsStored(0)
	if s.retention > 0 {
		s.startPruner(ctx)
	}
	return s
}

func (s *MemoryStore) startPruner(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.pruneInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				s.Prune(ctx, s.now().Add(-s.retention))
			}
		}
	}()
}

// Close stops the background pruner.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) Put(_ context.Context, rec model.JobRecord) error { //nolint:gocritic // records are stored by value
	if rec.JobID == "" {
		return fmt.Errorf("put: %w", ErrInvalidJobID)
	}
	// results are appended by the writer; keep our own backing array
	rec.Results = append([]model.ItemResult(nil), rec.Results...)

	s.mu.Lock()
	s.jobs[rec.JobID] = rec
	n := len(s.jobs)
	s.mu.Unlock()

	metrics.UpdateJobsStored(n)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, jobID string) (model.JobRecord, error) {
	s.mu.RLock()
	rec, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return model.JobRecord{}, fmt.Errorf("job %q: %w", jobID, ErrNotFound)
	}
	rec.Results = append([]model.ItemResult(nil), rec.Results...)
	if rec.Results == nil {
		rec.Results = []model.ItemResult{}
	}
	return rec, nil
}

func (s *MemoryStore) Delete(_ context.Context, jobID string) error {
	s.mu.Lock()
	delete(s.jobs, jobID)
	n := len(s.jobs)
	s.mu.Unlock()

	metrics.UpdateJobsStored(n)
	return nil
}

func (s *MemoryStore) Count(context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

func (s *MemoryStore) Prune(_ context.Context, cutoff time.Time) int {
	s.mu.Lock()
	removed := 0
	for id, rec := range s.jobs {
		if rec.Finished() && rec.UpdatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	n := len(s.jobs)
	s.mu.Unlock()

	metrics.UpdateJobsStored(n)
	return removed
}
