package recommend

import "errors"

// ErrNonFinite is reported for NaN or Inf scores and averages.
var ErrNonFinite = errors.New("non-finite value in student data")
