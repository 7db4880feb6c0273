// Package types contains small value types shared by the engine packages.
package types

import "math"

// Status tags whether an engine call produced a real answer or a sentinel.
type Status string

const (
	// StatusOK means every field of the result was computed.
	StatusOK Status = "ok"
	// StatusInsufficientData means the input was too thin to compute a full answer.
	StatusInsufficientData Status = "insufficient_data"
	// StatusFailed means computation failed and the result holds sentinel values.
	StatusFailed Status = "failed"
)

// OK reports whether s is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

// Float returns a pointer to v. Optional numeric fields use *float64 so that
// "absent" and zero stay distinguishable in results and JSON.
func Float(v float64) *float64 { return &v }

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// Mean returns the arithmetic mean of xs, or 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
