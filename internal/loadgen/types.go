package loadgen

import "time"

// Operation names one kind of request the generator produces.
type Operation string

// Operations, in the order the generator cycles through them.
const (
	OpAnalysis       Operation = "analysis"
	OpSimilarity     Operation = "similarity"
	OpPrediction     Operation = "prediction"
	OpRecommendation Operation = "recommendation"
	OpSchedule       Operation = "schedule"
	OpJobSubmit      Operation = "job_submit"
)

var engineOps = []Operation{OpAnalysis, OpSimilarity, OpPrediction, OpRecommendation, OpSchedule}

var opPaths = map[Operation]string{
	OpAnalysis:       "/v1/analysis",
	OpSimilarity:     "/v1/similarity",
	OpPrediction:     "/v1/predictions",
	OpRecommendation: "/v1/recommendations",
	OpSchedule:       "/v1/schedule",
	OpJobSubmit:      "/v1/analysis/jobs",
}

// Request is one generated call.
type Request struct {
	Op   Operation
	Body any
}

// AnalysisRequest is the body of an analysis call.
type AnalysisRequest struct {
	Submission      string `json:"submission"`
	Instructions    string `json:"instructions"`
	Rubric          string `json:"rubric,omitempty"`
	ReferenceAnswer string `json:"reference_answer,omitempty"`
}

// SimilarityRequest is the body of a similarity call.
type SimilarityRequest struct {
	TextA string `json:"text_a"`
	TextB string `json:"text_b"`
}

// Grade is one point of a grade history.
type Grade struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// PredictionRequest is the body of a prediction call.
type PredictionRequest struct {
	History []Grade `json:"history"`
}

// Assignment is one past assignment of a student.
type Assignment struct {
	Topic string   `json:"topic,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// Student describes a learner for recommendations.
type Student struct {
	PastAssignments []Assignment `json:"past_assignments,omitempty"`
	LearningStyle   string       `json:"learning_style,omitempty"`
	OverallAverage  *float64     `json:"overall_average,omitempty"`
}

// Course lists follow-on material.
type Course struct {
	AdvancedTopics []string `json:"advanced_topics,omitempty"`
}

// RecommendationRequest is the body of a recommendation call.
type RecommendationRequest struct {
	Student Student `json:"student_data"`
	Course  Course  `json:"course_data"`
}

// Event is one study task to schedule.
type Event struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	DurationMinutes int        `json:"duration_minutes"`
	Deadline        *time.Time `json:"deadline,omitempty"`
	Priority        *int       `json:"priority,omitempty"`
}

// Preferences tune scheduling.
type Preferences struct {
	MinBreakMinutes *int   `json:"min_break_minutes,omitempty"`
	PreferredTime   string `json:"preferred_time,omitempty"`
}

// ScheduleRequest is the body of a schedule call. Slots are left to the
// service's default grid.
type ScheduleRequest struct {
	Events      []Event     `json:"events"`
	Preferences Preferences `json:"preferences"`
}

// JobItem is one submission of a batch job.
type JobItem struct {
	ItemID string          `json:"item_id"`
	Input  AnalysisRequest `json:"input"`
}

// JobRequest is the body of a batch job submission.
type JobRequest struct {
	JobID string    `json:"job_id"`
	Items []JobItem `json:"items"`
}
