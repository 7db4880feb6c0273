// Package prediction projects a student's next score from the trend of their
// most recent grades.
package prediction

import (
	"fmt"
	"math"
	"sort"
	"time"

	types "github.com/okian/gradient/internal/domain/types"
)

// Heuristic constants.
const (
	RecentWindow      = 3
	TrendHorizon      = 2.0
	MaxConfidence     = 0.8
	BaseConfidence    = 0.5
	StableConfidence  = 0.6
	LimitedConfidence = 0.4
)

const (
	explainImproving    = "Based on your improving grades trend, you're likely to continue improving."
	explainDeclining    = "Based on your recent grades trend, you may need additional support to improve performance."
	explainStable       = "Based on your consistent grades, your performance is likely to remain stable."
	explainLimited      = "Limited grade history available. Prediction is based on current average."
	explainInsufficient = "Insufficient data for prediction"
	explainError        = "An error occurred during prediction: %v"
)

// Point is one graded score at a moment in time.
type Point struct {
	Timestamp time.Time `json:"timestamp"`
	Score     float64   `json:"score"`
}

// Result is the outcome of Predict. Trend and CurrentAverage are set only
// when a trend was fitted.
type Result struct {
	Status         types.Status `json:"status"`
	Prediction     *float64     `json:"prediction"`
	Confidence     float64      `json:"confidence"`
	Explanation    string       `json:"explanation"`
	Trend          *float64     `json:"trend,omitempty"`
	CurrentAverage *float64     `json:"current_average,omitempty"`
}

// Predict never returns an error. An empty history yields no prediction, a
// single point yields its score at low confidence, and non-finite scores
// yield StatusFailed.
func Predict(history []Point) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = failed(r)
		}
	}()

	if len(history) == 0 {
		return Result{Status: types.StatusInsufficientData, Explanation: explainInsufficient}
	}
	for _, p := range history {
		if !finite(p.Score) {
			return failed(fmt.Errorf("%w: %v", ErrNonFiniteScore, p.Score))
		}
	}

	points := make([]Point, len(history))
	copy(points, history)
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})

	scores := make([]float64, len(points))
	for i, p := range points {
		scores[i] = p.Score
	}
	avg := types.Mean(scores)

	if len(scores) < 2 {
		return Result{
			Status:      types.StatusInsufficientData,
			Prediction:  types.Float(avg),
			Confidence:  LimitedConfidence,
			Explanation: explainLimited,
		}
	}

	recent := scores
	if len(recent) > RecentWindow {
		recent = recent[len(recent)-RecentWindow:]
	}
	trend := Slope(recent)
	if !finite(avg) || !finite(trend) {
		return failed(fmt.Errorf("%w: average %v trend %v", ErrNonFiniteScore, avg, trend))
	}

	res = Result{
		Status:         types.StatusOK,
		Trend:          types.Float(trend),
		CurrentAverage: types.Float(avg),
	}
	switch {
	case trend > 0:
		res.Prediction = types.Float(math.Min(100, avg+TrendHorizon*trend))
		res.Confidence = math.Min(MaxConfidence, BaseConfidence+math.Abs(trend)/10)
		res.Explanation = explainImproving
	case trend < 0:
		res.Prediction = types.Float(math.Max(0, avg+TrendHorizon*trend))
		res.Confidence = math.Min(MaxConfidence, BaseConfidence+math.Abs(trend)/10)
		res.Explanation = explainDeclining
	default:
		res.Prediction = types.Float(avg)
		res.Confidence = StableConfidence
		res.Explanation = explainStable
	}
	return res
}

// Slope is the least-squares slope of ys against x = 0..n-1. Fewer than two
// values have no slope and return 0.
func Slope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	meanX := (n - 1) / 2
	meanY := types.Mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - meanX
		num += dx * (y - meanY)
		den += dx * dx
	}
	return num / den
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func failed(cause any) Result {
	return Result{
		Status:      types.StatusFailed,
		Explanation: fmt.Sprintf(explainError, cause),
	}
}
