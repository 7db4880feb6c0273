// Package recommend suggests practice topics, study resources and advanced
// material from a student's record.
package recommend

import (
	"fmt"
	"math"
)

// Kind classifies a recommendation.
type Kind string

const (
	KindPractice      Kind = "practice"
	KindResource      Kind = "resource"
	KindAdvancedTopic Kind = "advanced_topic"
	KindGeneral       Kind = "general"
	KindError         Kind = "error"
)

// Rule thresholds.
const (
	WeakTopicAverage  = 75.0
	HighAchiever      = 90.0
	MaxAdvancedTopics = 2
	DefaultTopic      = "general"
)

// Learning styles with a matching resource recommendation.
const (
	StyleVisual      = "visual"
	StyleAuditory    = "auditory"
	StyleKinesthetic = "kinesthetic"
)

const (
	reasonPractice = "Your average score in %s is %.1f%%. Additional practice could help improve your understanding."
	reasonAdvanced = "Based on your strong performance, you might enjoy exploring this advanced topic"
	reasonError    = "An error occurred: %v"

	descGeneral   = "Review course materials and practice exercises"
	reasonGeneral = "Regular review helps reinforce learning"
	descError     = "Unable to generate personalized recommendations"
)

var styleResources = map[string]Recommendation{
	StyleVisual: {
		Type:        KindResource,
		Description: "Visual learning resources like diagrams and videos",
		Reason:      "Based on your visual learning style preference",
	},
	StyleAuditory: {
		Type:        KindResource,
		Description: "Audio lectures and discussion groups",
		Reason:      "Based on your auditory learning style preference",
	},
	StyleKinesthetic: {
		Type:        KindResource,
		Description: "Hands-on practice exercises and interactive simulations",
		Reason:      "Based on your preference for hands-on learning",
	},
}

// PastAssignment is one graded piece of work. A nil Score is ignored.
type PastAssignment struct {
	Topic string   `json:"topic,omitempty"`
	Score *float64 `json:"score"`
}

// StudentData is the student's record as far as recommendations need it.
type StudentData struct {
	PastAssignments []PastAssignment `json:"past_assignments,omitempty"`
	LearningStyle   string           `json:"learning_style,omitempty"`
	OverallAverage  *float64         `json:"overall_average,omitempty"`
}

// CourseData describes the course being recommended for.
type CourseData struct {
	AdvancedTopics []string `json:"advanced_topics,omitempty"`
}

// Recommendation is a single suggestion.
type Recommendation struct {
	Type        Kind   `json:"type"`
	Topic       string `json:"topic,omitempty"`
	Description string `json:"description,omitempty"`
	Reason      string `json:"reason"`
}

// Generate applies the practice, resource and advanced-topic rules in that
// order. The result is never empty: with no rule firing it holds a single
// general recommendation, and on failure a single error recommendation.
func Generate(student StudentData, course CourseData) (recs []Recommendation) {
	defer func() {
		if r := recover(); r != nil {
			recs = failed(r)
		}
	}()

	if err := validate(student); err != nil {
		return failed(err)
	}

	weak, err := practice(student.PastAssignments)
	if err != nil {
		return failed(err)
	}
	recs = append(recs, weak...)

	if res, ok := styleResources[student.LearningStyle]; ok {
		recs = append(recs, res)
	}

	if avg := student.OverallAverage; avg != nil && *avg >= HighAchiever {
		topics := course.AdvancedTopics
		if len(topics) > MaxAdvancedTopics {
			topics = topics[:MaxAdvancedTopics]
		}
		for _, topic := range topics {
			recs = append(recs, Recommendation{Type: KindAdvancedTopic, Topic: topic, Reason: reasonAdvanced})
		}
	}

	if len(recs) == 0 {
		recs = append(recs, Recommendation{Type: KindGeneral, Description: descGeneral, Reason: reasonGeneral})
	}
	return recs
}

// practice emits one recommendation per topic averaging below
// WeakTopicAverage, in first-seen topic order. A topic whose scores sum
// past the float range is an error.
func practice(assignments []PastAssignment) ([]Recommendation, error) {
	type tally struct {
		sum   float64
		count int
	}
	var order []string
	tallies := make(map[string]*tally)
	for _, a := range assignments {
		if a.Score == nil {
			continue
		}
		topic := a.Topic
		if topic == "" {
			topic = DefaultTopic
		}
		t, ok := tallies[topic]
		if !ok {
			t = &tally{}
			tallies[topic] = t
			order = append(order, topic)
		}
		t.sum += *a.Score
		t.count++
	}

	var recs []Recommendation
	for _, topic := range order {
		t := tallies[topic]
		avg := t.sum / float64(t.count)
		if !finite(avg) {
			return nil, fmt.Errorf("%w: topic %q average %v", ErrNonFinite, topic, avg)
		}
		if avg < WeakTopicAverage {
			recs = append(recs, Recommendation{
				Type:   KindPractice,
				Topic:  topic,
				Reason: fmt.Sprintf(reasonPractice, topic, avg),
			})
		}
	}
	return recs, nil
}

func validate(student StudentData) error {
	for _, a := range student.PastAssignments {
		if a.Score != nil && !finite(*a.Score) {
			return fmt.Errorf("%w: topic %q score %v", ErrNonFinite, a.Topic, *a.Score)
		}
	}
	if avg := student.OverallAverage; avg != nil && !finite(*avg) {
		return fmt.Errorf("%w: overall average %v", ErrNonFinite, *avg)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func failed(cause any) []Recommendation {
	return []Recommendation{{
		Type:        KindError,
		Description: descError,
		Reason:      fmt.Sprintf(reasonError, cause),
	}}
}
