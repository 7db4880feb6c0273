// Package analysis grades a free-text submission against its assignment
// instructions and an optional reference answer.
package analysis

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	similarity "github.com/okian/gradient/internal/domain/similarity"
	text "github.com/okian/gradient/internal/domain/text"
	types "github.com/okian/gradient/internal/domain/types"
)

// Scoring constants.
const (
	KeywordCount       = 10
	MaxKeyPoints       = 3
	MinKeyPointLength  = 10
	BriefWordCount     = 50
	LengthyWordCount   = 1000
	CoverageWeight     = 0.7
	SimilarityWeight   = 0.8
	LowCoverage        = 0.5
	ReferenceConfident = 0.7
	DefaultConfidence  = 0.5
)

const (
	feedbackEmptyInput = "Cannot analyze empty submission or missing assignment instructions."
	feedbackError      = "An error occurred during analysis: %v"

	improvementBrief    = "The submission is quite brief. Consider providing more detailed explanations."
	improvementLengthy  = "The submission is lengthy. Consider being more concise while maintaining key points."
	improvementCoverage = "The submission may not adequately address all required topics from the instructions."

	scoreExcellent    = "Excellent work! The submission thoroughly addresses the assignment requirements."
	scoreGood         = "Good work. The submission addresses most of the key points from the assignment."
	scoreSatisfactory = "Satisfactory work. The submission addresses the basic requirements but could be improved."
	scorePoor         = "The submission needs significant improvement to fully address the assignment requirements."

	coverageExcellent = "Excellent coverage of important concepts from the assignment."
	coverageGood      = "Good coverage of concepts, but some important ideas may be missing or underdeveloped."
	coveragePoor      = "Several important concepts from the assignment instructions are not adequately addressed."
)

var sentenceSplit = regexp.MustCompile(`[.!?]`)

// Input is one submission to analyze.
type Input struct {
	Submission      string `json:"submission"`
	Instructions    string `json:"instructions"`
	Rubric          string `json:"rubric,omitempty"`
	ReferenceAnswer string `json:"reference_answer,omitempty"`
}

// Metrics are the raw measurements behind a score.
type Metrics struct {
	WordCount             int      `json:"word_count"`
	KeywordCoverage       float64  `json:"keyword_coverage"`
	SimilarityToReference *float64 `json:"similarity_to_reference"`
}

// Result is the outcome of Analyze. ScoreRecommendation is nil unless at
// least one scoring factor was computed.
type Result struct {
	Status              types.Status `json:"status"`
	ScoreRecommendation *float64     `json:"score_recommendation"`
	Confidence          float64      `json:"confidence"`
	Feedback            string       `json:"feedback"`
	KeyPoints           []string     `json:"key_points"`
	ImprovementAreas    []string     `json:"improvement_areas"`
	Metrics             *Metrics     `json:"metrics,omitempty"`
	Rubric              string       `json:"rubric,omitempty"`
}

// Analyzer holds the normalizer and similarity scorer it grades with.
type Analyzer struct {
	normalizer *text.Normalizer
	scorer     *similarity.Scorer
}

// Option applies a configuration option to an Analyzer.
type Option func(*Analyzer)

// WithNormalizer sets the normalizer for keywords, coverage and key points.
// Unless WithScorer is also given, the similarity scorer uses it too.
func WithNormalizer(n *text.Normalizer) Option {
	return func(a *Analyzer) {
		if n != nil {
			a.normalizer = n
		}
	}
}

// WithScorer sets the similarity scorer used against the reference answer.
func WithScorer(s *similarity.Scorer) Option {
	return func(a *Analyzer) {
		if s != nil {
			a.scorer = s
		}
	}
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	if a.normalizer == nil {
		a.normalizer = text.Default()
	}
	if a.scorer == nil {
		a.scorer = similarity.NewScorer(similarity.WithNormalizer(a.normalizer))
	}
	return a
}

// Analyze is shorthand for NewAnalyzer().Analyze.
func Analyze(in Input) Result {
	return NewAnalyzer().Analyze(in)
}

// Analyze never returns an error: empty input yields StatusInsufficientData
// and an internal failure yields StatusFailed, both without a score.
func (a *Analyzer) Analyze(in Input) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(r)
		}
	}()

	if in.Submission == "" || in.Instructions == "" {
		return Result{
			Status:           types.StatusInsufficientData,
			Feedback:         feedbackEmptyInput,
			KeyPoints:        []string{},
			ImprovementAreas: []string{},
			Rubric:           in.Rubric,
		}
	}

	wordCount := len(strings.Fields(in.Submission))
	keywords := Keywords(a.normalizer.Tokens(in.Instructions), KeywordCount)
	coverage := Coverage(keywords, a.normalizer.Tokens(in.Submission))

	var sim *float64
	if in.ReferenceAnswer != "" {
		sim = types.Float(a.scorer.Similarity(in.Submission, in.ReferenceAnswer))
	}

	improvements := []string{}
	if wordCount < BriefWordCount {
		improvements = append(improvements, improvementBrief)
	}
	if wordCount > LengthyWordCount {
		improvements = append(improvements, improvementLengthy)
	}
	if coverage < LowCoverage {
		improvements = append(improvements, improvementCoverage)
	}

	factors := []float64{coverage * CoverageWeight}
	if sim != nil {
		factors = append(factors, *sim*SimilarityWeight)
	}
	var score *float64
	if len(factors) > 0 {
		score = types.Float(types.Clamp(types.Mean(factors)*100, 0, 100))
	}

	confidence := DefaultConfidence
	if sim != nil {
		confidence = ReferenceConfident
	}

	return Result{
		Status:              types.StatusOK,
		ScoreRecommendation: score,
		Confidence:          confidence,
		Feedback:            feedback(score, coverage),
		KeyPoints:           a.keyPoints(in.Submission, keywords),
		ImprovementAreas:    improvements,
		Metrics: &Metrics{
			WordCount:             wordCount,
			KeywordCoverage:       coverage,
			SimilarityToReference: sim,
		},
		Rubric: in.Rubric,
	}
}

// Keywords returns the k most frequent tokens. Ties keep first-seen order.
func Keywords(tokens []string, k int) []string {
	if k <= 0 || len(tokens) == 0 {
		return []string{}
	}
	counts := make(map[string]int)
	var order []string
	for _, t := range tokens {
		if counts[t] == 0 {
			order = append(order, t)
		}
		counts[t]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	return order
}

// Coverage is the fraction of keywords present in tokens, or 0 when there are
// no keywords.
func Coverage(keywords, tokens []string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	present := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		present[t] = struct{}{}
	}
	found := 0
	for _, k := range keywords {
		if _, ok := present[k]; ok {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

// keyPoints picks up to MaxKeyPoints sentences whose normalized text
// contains a keyword as a substring.
func (a *Analyzer) keyPoints(submission string, keywords []string) []string {
	points := []string{}
	for _, sentence := range sentenceSplit.Split(submission, -1) {
		sentence = strings.TrimSpace(sentence)
		if utf8.RuneCountInString(sentence) <= MinKeyPointLength {
			continue
		}
		normalized := a.normalizer.Normalize(sentence)
		for _, k := range keywords {
			if strings.Contains(normalized, k) {
				points = append(points, sentence)
				break
			}
		}
		if len(points) == MaxKeyPoints {
			break
		}
	}
	return points
}

func feedback(score *float64, coverage float64) string {
	parts := make([]string, 0, 2)
	if score != nil {
		switch s := *score; {
		case s >= 90:
			parts = append(parts, scoreExcellent)
		case s >= 80:
			parts = append(parts, scoreGood)
		case s >= 70:
			parts = append(parts, scoreSatisfactory)
		default:
			parts = append(parts, scorePoor)
		}
	}
	switch {
	case coverage >= 0.8:
		parts = append(parts, coverageExcellent)
	case coverage >= 0.6:
		parts = append(parts, coverageGood)
	default:
		parts = append(parts, coveragePoor)
	}
	return strings.Join(parts, " ")
}

func failed(cause any) Result {
	return Result{
		Status:           types.StatusFailed,
		Feedback:         fmt.Sprintf(feedbackError, cause),
		KeyPoints:        []string{},
		ImprovementAreas: []string{},
	}
}
