// Package repository keeps batch job records for later lookup.
package repository

import (
	"context"
	"time"

	"github.com/okian/gradient/internal/domain/model"
)

// Store provides read/write access to job records.
type Store interface {
	// Put inserts or replaces the record for rec.JobID.
	Put(ctx context.Context, rec model.JobRecord) error

	// Get returns the record for jobID, or ErrNotFound.
	Get(ctx context.Context, jobID string) (model.JobRecord, error)

	// Delete removes the record for jobID. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, jobID string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) int

	// Prune drops finished records last updated before cutoff and returns how
	// many were removed.
	Prune(ctx context.Context, cutoff time.Time) int
}
