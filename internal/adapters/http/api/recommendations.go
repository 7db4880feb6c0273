package api

import (
	"context"
	"net/http"

	"github.com/okian/gradient/internal/domain/recommend"
)

// RecommendationDependencies defines the interface for recommendations.
type RecommendationDependencies interface {
	GenerateRecommendations(ctx context.Context, student recommend.StudentData, course recommend.CourseData) []recommend.Recommendation
}

type assignmentRequest struct {
	Topic string   `json:"topic" validate:"max=256"`
	Score *float64 `json:"score"`
}

type studentRequest struct {
	PastAssignments []assignmentRequest `json:"past_assignments" validate:"max=10000,dive"`
	LearningStyle   string              `json:"learning_style" validate:"max=64"`
	OverallAverage  *float64            `json:"overall_average"`
}

type courseRequest struct {
	AdvancedTopics []string `json:"advanced_topics" validate:"max=1000,dive,max=256"`
}

// recommendationRequest mirrors the body of POST /v1/recommendations. Both
// sections are optional.
type recommendationRequest struct {
	Student studentRequest `json:"student_data"`
	Course  courseRequest  `json:"course_data"`
}

func (r recommendationRequest) domain() (recommend.StudentData, recommend.CourseData) {
	past := make([]recommend.PastAssignment, len(r.Student.PastAssignments))
	for i, a := range r.Student.PastAssignments {
		past[i] = recommend.PastAssignment{Topic: a.Topic, Score: a.Score}
	}
	return recommend.StudentData{
			PastAssignments: past,
			LearningStyle:   r.Student.LearningStyle,
			OverallAverage:  r.Student.OverallAverage,
		}, recommend.CourseData{
			AdvancedTopics: r.Course.AdvancedTopics,
		}
}

type recommendationResponse struct {
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// RecommendationHandler handles recommendation requests.
type RecommendationHandler struct {
	deps      RecommendationDependencies
	validator *requestValidator
}

// NewRecommendationHandler creates a new recommendation handler.
func NewRecommendationHandler(deps RecommendationDependencies, v *requestValidator) *RecommendationHandler {
	return &RecommendationHandler{deps: deps, validator: v}
}

// HandleRecommend handles POST /v1/recommendations requests.
func (h *RecommendationHandler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req recommendationRequest
	if err := decodeAndValidate(w, r, h.validator, &req); err != nil {
		writeDecodeError(w, err)
		return
	}
	student, course := req.domain()
	recs := h.deps.GenerateRecommendations(r.Context(), student, course)
	writeJSON(w, http.StatusOK, recommendationResponse{Recommendations: recs})
}
