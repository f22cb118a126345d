package datamodel

import "errors"

// Sentinel causes wrapped by LoadError when Kind is InvariantViolation.
// These are not part of the public API surface directly; callers are
// expected to inspect LoadError.Kind, and use errors.Is against these
// only when they need the finer-grained reason.
var (
	errNaN                   = errors.New("value is NaN")
	errNegativeTime          = errors.New("time is negative")
	errNonMonotonic          = errors.New("time is not monotonically non-decreasing")
	errOutOfUnitRange        = errors.New("value is outside [0, 1]")
	errEmphasisBelowEnvelope = errors.New("emphasis amplitude is below the envelope amplitude at that time")
)
