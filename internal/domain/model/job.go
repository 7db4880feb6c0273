// Package model contains the batch job types passed between the API, the
// queue, the workers and the job store.
package model

import (
	"time"

	analysis "github.com/okian/gradient/internal/domain/analysis"
)

// JobStatus is the lifecycle state of a batch analysis job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
)

// JobItem is one submission inside a batch. ItemID is caller supplied and
// echoed back with the result.
type JobItem struct {
	ItemID string         `json:"item_id"`
	Input  analysis.Input `json:"input"`
}

// Job is a batch of submissions analyzed together.
type Job struct {
	JobID       string    `json:"job_id"`
	Items       []JobItem `json:"items"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ItemResult pairs an item with its analysis.
type ItemResult struct {
	ItemID string          `json:"item_id"`
	Result analysis.Result `json:"result"`
}

// JobRecord is the stored view of a job.
type JobRecord struct {
	JobID       string       `json:"job_id"`
	Status      JobStatus    `json:"status"`
	Total       int          `json:"total"`
	Completed   int          `json:"completed"`
	Results     []ItemResult `json:"results"`
	SubmittedAt time.Time    `json:"submitted_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewJobRecord returns the queued record for job.
func NewJobRecord(job Job) JobRecord {
	return JobRecord{
		JobID:       job.JobID,
		Status:      JobQueued,
		Total:       len(job.Items),
		Results:     []ItemResult{},
		SubmittedAt: job.SubmittedAt,
		UpdatedAt:   job.SubmittedAt,
	}
}

// Finished reports whether the job has no more work.
func (r JobRecord) Finished() bool { return r.Status == JobDone }
