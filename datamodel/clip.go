// Package datamodel implements the haptic clip schema: its versioned JSON
// representation, validation, cross-version upgrade, and the handful of
// pure operations (truncation, round-trip serialization) defined directly
// on a validated Clip.
package datamodel

import (
	"math"

	json "github.com/goccy/go-json"
)

// Emphasis marks a transient accent attached to an amplitude breakpoint.
// Both fields are normalized to [0, 1].
type Emphasis struct {
	Amplitude float32 `json:"amplitude"`
	Frequency float32 `json:"frequency"`
}

// AmplitudeBreakpoint is a time-indexed sample of the continuous amplitude
// envelope, with an optional emphasis accent.
type AmplitudeBreakpoint struct {
	Time      float32   `json:"time"`
	Amplitude float32   `json:"amplitude"`
	Emphasis  *Emphasis `json:"emphasis,omitempty"`
}

// FrequencyBreakpoint is a time-indexed sample of the continuous
// frequency envelope.
type FrequencyBreakpoint struct {
	Time      float32 `json:"time"`
	Frequency float32 `json:"frequency"`
}

// Envelopes holds the two continuous envelopes that make up a clip's
// signal. Frequency is optional; Amplitude is always present.
type Envelopes struct {
	Amplitude []AmplitudeBreakpoint `json:"amplitude"`
	Frequency []FrequencyBreakpoint `json:"frequency,omitempty"`
}

// Continuous wraps the envelope pair. The original schema reserves this
// level of nesting for a future "transient-only" signal type; this
// implementation only ever populates continuous.
type Continuous struct {
	Envelopes Envelopes `json:"envelopes"`
}

// Signals is the top-level signal container of a clip.
type Signals struct {
	Continuous Continuous `json:"continuous"`
}

// Clip is the in-memory, validated representation of a haptic clip.
// Clips are immutable from the moment Load returns them: every
// transformation in this module (truncation, emphasis rendering,
// interpolation, waveform construction) returns a new value rather than
// mutating its input.
type Clip struct {
	Version  Version                `json:"version"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Signals  Signals                `json:"signals"`
}

// Marshal serializes the clip back to its JSON wire format. Round-tripping
// a clip through Load(Marshal(c)) produces an equal clip: metadata is
// preserved verbatim and numeric fields are exact (JSON floats are decoded
// back into the same float32 bit patterns they were encoded from, as long
// as the original values are representable, which they always are since
// they originated from float32 breakpoints).
func (c *Clip) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Duration returns the clip's total duration: the time of its last
// amplitude breakpoint. Callers must only call this on a validated clip,
// where the amplitude envelope is guaranteed non-empty.
func (c *Clip) Duration() float32 {
	amp := c.Signals.Continuous.Envelopes.Amplitude
	if len(amp) == 0 {
		return 0
	}
	return amp[len(amp)-1].Time
}

// validate checks every invariant from §3 against a freshly-decoded v1
// clip. It is also reused, after the v0→v1 upgrade, to validate upgraded
// clips before they are handed back to callers.
func validate(c *Clip) error {
	amp := c.Signals.Continuous.Envelopes.Amplitude
	if len(amp) == 0 {
		return newLoadError(InvariantViolation, "signals.continuous.envelopes.amplitude", nil)
	}

	var lastTime float32 = -math.MaxFloat32
	for i, bp := range amp {
		if math.IsNaN(float64(bp.Time)) || math.IsNaN(float64(bp.Amplitude)) {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude", i, errNaN)
		}
		if bp.Time < 0 {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude", i, errNegativeTime)
		}
		if bp.Time < lastTime {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude", i, errNonMonotonic)
		}
		lastTime = bp.Time
		if bp.Amplitude < 0 || bp.Amplitude > 1 {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude", i, errOutOfUnitRange)
		}
		if bp.Emphasis != nil {
			e := bp.Emphasis
			if math.IsNaN(float64(e.Amplitude)) || math.IsNaN(float64(e.Frequency)) {
				return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude[].emphasis", i, errNaN)
			}
			if e.Frequency < 0 || e.Frequency > 1 {
				return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude[].emphasis.frequency", i, errOutOfUnitRange)
			}
			if e.Amplitude > 1 {
				return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude[].emphasis.amplitude", i, errOutOfUnitRange)
			}
			if e.Amplitude < bp.Amplitude {
				return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.amplitude[].emphasis.amplitude", i, errEmphasisBelowEnvelope)
			}
		}
	}

	freq := c.Signals.Continuous.Envelopes.Frequency
	lastTime = -math.MaxFloat32
	for i, bp := range freq {
		if math.IsNaN(float64(bp.Time)) || math.IsNaN(float64(bp.Frequency)) {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.frequency", i, errNaN)
		}
		if bp.Time < 0 {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.frequency", i, errNegativeTime)
		}
		if bp.Time < lastTime {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.frequency", i, errNonMonotonic)
		}
		lastTime = bp.Time
		if bp.Frequency < 0 || bp.Frequency > 1 {
			return newLoadErrorAt(InvariantViolation, "signals.continuous.envelopes.frequency", i, errOutOfUnitRange)
		}
	}

	return nil
}
