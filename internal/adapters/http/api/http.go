// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	AnalysisDependencies
	PredictionDependencies
	RecommendationDependencies
	ScheduleDependencies
	JobDependencies
	StatsProvider
}

// Server wires HTTP routes for the analytics API.
type Server struct {
	healthHandler         *HealthHandler
	statsHandler          *StatsHandler
	analysisHandler       *AnalysisHandler
	predictionHandler     *PredictionHandler
	recommendationHandler *RecommendationHandler
	scheduleHandler       *ScheduleHandler
	jobsHandler           *JobsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	v := newRequestValidator()
	return &Server{
		healthHandler:         NewHealthHandler(),
		statsHandler:          NewStatsHandler(deps),
		analysisHandler:       NewAnalysisHandler(deps, v),
		predictionHandler:     NewPredictionHandler(deps, v),
		recommendationHandler: NewRecommendationHandler(deps, v),
		scheduleHandler:       NewScheduleHandler(deps, v),
		jobsHandler:           NewJobsHandler(deps, v),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/v1/analysis", MetricsMiddleware(s.analysisHandler.HandleAnalyze, "analysis"))
	mux.HandleFunc("/v1/similarity", MetricsMiddleware(s.analysisHandler.HandleSimilarity, "similarity"))
	mux.HandleFunc("/v1/predictions", MetricsMiddleware(s.predictionHandler.HandlePredict, "predictions"))
	mux.HandleFunc("/v1/recommendations", MetricsMiddleware(s.recommendationHandler.HandleRecommend, "recommendations"))
	mux.HandleFunc("/v1/schedule", MetricsMiddleware(s.scheduleHandler.HandleOptimize, "schedule"))
	mux.HandleFunc("/v1/analysis/jobs", MetricsMiddleware(s.jobsHandler.HandleSubmitJob, "jobs_submit"))
	mux.HandleFunc("/v1/analysis/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "jobs_get"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v before writing the header, so a value that cannot be
// encoded becomes a 500 rather than an empty success.
func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		status = http.StatusInternalServerError
		body, _ = json.Marshal(errorResponse{Code: "encode_error", Message: err.Error()})
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeAndValidate reads a JSON body into req and validates it. Any error
// it returns wraps ErrBadRequest or ErrValidation.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v *requestValidator, req any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(req); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return v.Struct(req)
}

// writeDecodeError renders an error from decodeAndValidate.
func writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrValidation) {
		writeError(w, http.StatusBadRequest, "validation_error", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}
