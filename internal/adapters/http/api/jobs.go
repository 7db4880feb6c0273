package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	service "github.com/okian/gradient/internal/app"
	"github.com/okian/gradient/internal/domain/model"
)

const jobsPrefix = "/v1/analysis/jobs/"

// JobDependencies defines the interface for batch analysis jobs.
type JobDependencies interface {
	// SubmitJob queues a job. duplicate is true when the id was seen before,
	// in which case rec is the stored record.
	SubmitJob(ctx context.Context, job model.Job) (rec model.JobRecord, duplicate bool, err error)
	GetJob(ctx context.Context, jobID string) (model.JobRecord, error)
}

type jobItemRequest struct {
	ItemID string          `json:"item_id" validate:"notblank,max=128"`
	Input  analysisRequest `json:"input"`
}

// jobRequest mirrors the body of POST /v1/analysis/jobs. job_id is optional
// and generated when absent.
type jobRequest struct {
	JobID string           `json:"job_id" validate:"max=128"`
	Items []jobItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (j jobRequest) job() model.Job {
	items := make([]model.JobItem, len(j.Items))
	for i, it := range j.Items {
		items[i] = model.JobItem{ItemID: it.ItemID, Input: it.Input.input()}
	}
	return model.Job{JobID: strings.TrimSpace(j.JobID), Items: items}
}

type ackResponse struct {
	JobID     string          `json:"job_id"`
	Status    model.JobStatus `json:"status"`
	Total     int             `json:"total"`
	Duplicate bool            `json:"duplicate"`
}

// JobsHandler handles batch job requests.
type JobsHandler struct {
	deps      JobDependencies
	validator *requestValidator
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies, v *requestValidator) *JobsHandler {
	return &JobsHandler{deps: deps, validator: v}
}

// HandleSubmitJob handles POST /v1/analysis/jobs requests.
func (h *JobsHandler) HandleSubmitJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req jobRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	rec, duplicate, err := h.deps.SubmitJob(r.Context(), req.job())
	switch {
	case err == nil:
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
		return
	case errors.Is(err, service.ErrBatchTooLarge), errors.Is(err, service.ErrEmptyBatch):
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", err)
		return
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	ack := ackResponse{JobID: rec.JobID, Status: rec.Status, Total: rec.Total, Duplicate: duplicate}
	if duplicate {
		writeJSON(w, http.StatusOK, ack)
		return
	}
	writeJSON(w, http.StatusAccepted, ack)
}

// HandleGetJob handles GET /v1/analysis/jobs/{job_id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after the jobs prefix
	id := strings.TrimPrefix(r.URL.Path, jobsPrefix)
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	rec, err := h.deps.GetJob(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrJobNotFound):
			writeError(w, http.StatusNotFound, "not_found", ErrNotFound)
		case errors.Is(err, service.ErrNotStarted):
			writeError(w, http.StatusServiceUnavailable, "unavailable", err)
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
