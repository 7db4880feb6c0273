package api

import (
	"context"
	"net/http"

	"github.com/okian/gradient/internal/domain/analysis"
)

// AnalysisDependencies defines the interface for submission analysis.
type AnalysisDependencies interface {
	AnalyzeSubmission(ctx context.Context, in analysis.Input) analysis.Result
	TextSimilarity(ctx context.Context, a, b string) float64
}

// analysisRequest mirrors the body of POST /v1/analysis. Text fields are
// capped at 200000 bytes. Empty submission or instructions are allowed and
// yield an insufficient_data result.
type analysisRequest struct {
	Submission      string `json:"submission" validate:"max=200000"`
	Instructions    string `json:"instructions" validate:"max=200000"`
	Rubric          string `json:"rubric" validate:"max=200000"`
	ReferenceAnswer string `json:"reference_answer" validate:"max=200000"`
}

func (a analysisRequest) input() analysis.Input {
	return analysis.Input{
		Submission:      a.Submission,
		Instructions:    a.Instructions,
		Rubric:          a.Rubric,
		ReferenceAnswer: a.ReferenceAnswer,
	}
}

type similarityRequest struct {
	TextA string `json:"text_a" validate:"max=200000"`
	TextB string `json:"text_b" validate:"max=200000"`
}

type similarityResponse struct {
	Similarity float64 `json:"similarity"`
}

// AnalysisHandler handles analysis and similarity requests.
type AnalysisHandler struct {
	deps      AnalysisDependencies
	validator *requestValidator
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies, v *requestValidator) *AnalysisHandler {
	return &AnalysisHandler{deps: deps, validator: v}
}

// HandleAnalyze handles POST /v1/analysis requests.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req analysisRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.AnalyzeSubmission(r.Context(), req.input()))
}

// HandleSimilarity handles POST /v1/similarity requests.
func (h *AnalysisHandler) HandleSimilarity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req similarityRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	score := h.deps.TextSimilarity(r.Context(), req.TextA, req.TextB)
	writeJSON(w, http.StatusOK, similarityResponse{Similarity: score})
}
