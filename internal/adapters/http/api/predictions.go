package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/gradient/internal/domain/prediction"
)

// PredictionDependencies defines the interface for performance prediction.
type PredictionDependencies interface {
	PredictPerformance(ctx context.Context, history []prediction.Point) prediction.Result
}

type gradeRequest struct {
	Timestamp time.Time `json:"timestamp"`
	Score     *float64  `json:"score" validate:"required"`
}

// predictionRequest mirrors the body of POST /v1/predictions. An empty
// history is valid and yields insufficient_data.
type predictionRequest struct {
	History []gradeRequest `json:"history" validate:"max=10000,dive"`
}

func (p predictionRequest) points() []prediction.Point {
	out := make([]prediction.Point, len(p.History))
	for i, g := range p.History {
		out[i] = prediction.Point{Timestamp: g.Timestamp, Score: *g.Score}
	}
	return out
}

// PredictionHandler handles prediction requests.
type PredictionHandler struct {
	deps      PredictionDependencies
	validator *requestValidator
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(deps PredictionDependencies, v *requestValidator) *PredictionHandler {
	return &PredictionHandler{deps: deps, validator: v}
}

// HandlePredict handles POST /v1/predictions requests.
func (h *PredictionHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictionRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.PredictPerformance(r.Context(), req.points()))
}
