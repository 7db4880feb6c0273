package loadgen

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

type topic struct {
	name  string
	terms []string
}

var topics = []topic{
	{"photosynthesis", []string{"chlorophyll", "sunlight", "glucose", "carbon", "oxygen", "chloroplast"}},
	{"mitosis", []string{"chromosome", "spindle", "nucleus", "prophase", "metaphase", "cytokinesis"}},
	{"algebra", []string{"equation", "variable", "coefficient", "polynomial", "factor", "quadratic"}},
	{"thermodynamics", []string{"entropy", "energy", "temperature", "heat", "equilibrium", "pressure"}},
	{"revolution", []string{"monarchy", "citizen", "assembly", "constitution", "republic", "taxation"}},
	{"ecosystems", []string{"predator", "habitat", "species", "biodiversity", "producer", "decomposer"}},
}

var (
	learningStyles = []string{"visual", "auditory", "kinesthetic", "reading", ""}
	preferredTimes = []string{"morning", "afternoon", "evening", ""}
	fillers        = []string{"In summary", "Furthermore", "As a result", "For example", "Notably"}
)

// Generator builds synthetic requests. It is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
	now time.Time
}

// NewGenerator creates a generator. Equal seeds give equal traffic.
func NewGenerator(seed uint64, now time.Time) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now}
}

// Requests returns n engine requests cycling through every operation.
func (g *Generator) Requests(n int) []Request {
	out := make([]Request, n)
	for i := range out {
		op := engineOps[i%len(engineOps)]
		out[i] = Request{Op: op, Body: g.body(op)}
	}
	return out
}

// Jobs returns n batch jobs of size items each, with fresh ids.
func (g *Generator) Jobs(n, size int) []JobRequest {
	out := make([]JobRequest, n)
	for i := range out {
		items := make([]JobItem, size)
		for j := range items {
			items[j] = JobItem{ItemID: fmt.Sprintf("item-%d", j), Input: g.Analysis()}
		}
		out[i] = JobRequest{JobID: uuid.NewString(), Items: items}
	}
	return out
}

func (g *Generator) body(op Operation) any {
	switch op {
	case OpAnalysis:
		return g.Analysis()
	case OpSimilarity:
		a := g.Analysis()
		return SimilarityRequest{TextA: a.Submission, TextB: a.Instructions}
	case OpPrediction:
		return g.Prediction()
	case OpRecommendation:
		return g.Recommendation()
	case OpSchedule:
		return g.Schedule()
	}
	return nil
}

// Analysis returns one submission. Coverage of the instruction terms varies
// from none to all, some carry a reference answer and a few are empty.
func (g *Generator) Analysis() AnalysisRequest {
	t := topics[g.rnd.IntN(len(topics))]
	instructions := fmt.Sprintf("Explain %s. Discuss %s.", t.name, strings.Join(t.terms, ", "))

	if g.rnd.IntN(20) == 0 {
		return AnalysisRequest{Instructions: instructions}
	}

	covered := g.rnd.IntN(len(t.terms) + 1)
	terms := sampleOf(g.rnd, t.terms, covered)
	var b strings.Builder
	fmt.Fprintf(&b, "This essay is about %s.", t.name)
	for _, term := range terms {
		fmt.Fprintf(&b, " %s, the role of %s matters for %s.", fillers[g.rnd.IntN(len(fillers))], term, t.name)
	}

	req := AnalysisRequest{Submission: b.String(), Instructions: instructions}
	if g.rnd.IntN(3) == 0 {
		req.ReferenceAnswer = fmt.Sprintf("%s involves %s.", t.name, strings.Join(t.terms, " and "))
	}
	if g.rnd.IntN(4) == 0 {
		req.Rubric = "Accuracy 50%, coverage 30%, clarity 20%"
	}
	return req
}

// Prediction returns a grade history of zero to eight points.
func (g *Generator) Prediction() PredictionRequest {
	n := g.rnd.IntN(9)
	base := 50 + g.rnd.Float64()*40
	drift := g.rnd.Float64()*10 - 5
	history := make([]Grade, n)
	for i := range history {
		score := base + drift*float64(i) + g.rnd.NormFloat64()*3
		history[i] = Grade{
			Timestamp: g.now.AddDate(0, 0, -7*(n-i)),
			Score:     min(100, max(0, score)),
		}
	}
	return PredictionRequest{History: history}
}

// Recommendation returns a student with up to six past assignments.
func (g *Generator) Recommendation() RecommendationRequest {
	n := g.rnd.IntN(7)
	past := make([]Assignment, n)
	var sum float64
	for i := range past {
		score := 40 + g.rnd.Float64()*60
		sum += score
		past[i] = Assignment{Topic: topics[g.rnd.IntN(len(topics))].name, Score: &score}
	}
	student := Student{
		PastAssignments: past,
		LearningStyle:   learningStyles[g.rnd.IntN(len(learningStyles))],
	}
	if n > 0 {
		avg := sum / float64(n)
		student.OverallAverage = &avg
	}
	course := Course{}
	for _, t := range sampleOf(g.rnd, topics, g.rnd.IntN(4)) {
		course.AdvancedTopics = append(course.AdvancedTopics, "advanced "+t.name)
	}
	return RecommendationRequest{Student: student, Course: course}
}

// Schedule returns one to six events with mixed priorities and deadlines.
func (g *Generator) Schedule() ScheduleRequest {
	n := 1 + g.rnd.IntN(6)
	events := make([]Event, n)
	for i := range events {
		t := topics[g.rnd.IntN(len(topics))]
		e := Event{
			ID:              fmt.Sprintf("task-%d", i),
			Title:           "Study " + t.name,
			DurationMinutes: 30 * (1 + g.rnd.IntN(4)),
		}
		if g.rnd.IntN(3) > 0 {
			d := g.now.Add(time.Duration(12+g.rnd.IntN(144)) * time.Hour)
			e.Deadline = &d
		}
		if g.rnd.IntN(2) == 0 {
			p := 1 + g.rnd.IntN(5)
			e.Priority = &p
		}
		events[i] = e
	}
	breakMinutes := 5 * g.rnd.IntN(5)
	return ScheduleRequest{
		Events: events,
		Preferences: Preferences{
			MinBreakMinutes: &breakMinutes,
			PreferredTime:   preferredTimes[g.rnd.IntN(len(preferredTimes))],
		},
	}
}

// sampleOf returns k distinct elements of xs in random order.
func sampleOf[T any](rnd *rand.Rand, xs []T, k int) []T {
	k = min(k, len(xs))
	idx := rnd.Perm(len(xs))[:k]
	out := make([]T, k)
	for i, j := range idx {
		out[i] = xs[j]
	}
	return out
}
