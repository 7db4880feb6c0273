package prediction

import "errors"

// ErrNonFiniteScore is reported when a grade history holds NaN or Inf, or
// when its average or trend overflows.
var ErrNonFiniteScore = errors.New("non-finite score in grade history")
