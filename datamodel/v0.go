package datamodel

import (
	"math"

	json "github.com/goccy/go-json"
)

// v0Breakpoint is the legacy breakpoint shape shared by both of a v0
// clip's parallel envelopes: the first envelope's "amplitude" field holds
// an amplitude value, the second envelope's holds a frequency value.
type v0Breakpoint struct {
	Time      float32 `json:"time"`
	Amplitude float32 `json:"amplitude"`
}

// v0Transient is a standalone accent in the legacy schema. It is attached
// to the upgraded clip as an Emphasis only when its Time matches an
// amplitude breakpoint exactly.
type v0Transient struct {
	Time      float32 `json:"time"`
	Amplitude float32 `json:"amplitude"`
	Frequency float32 `json:"frequency"`
}

// v0Clip is the legacy major-0 schema: two parallel envelopes (amplitude,
// then frequency) plus a flat list of transients.
type v0Clip struct {
	Version    Version                `json:"version"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Envelopes  [][]v0Breakpoint       `json:"envelopes"`
	Transients []v0Transient          `json:"transients,omitempty"`
}

// metadataDuration reads the legacy clip's recorded duration out of its
// untyped metadata map, if present. v0 clips carry this under
// metadata.duration; it can run past the last envelope breakpoint when the
// clip ends in silence, which upgradeV0 must preserve.
func (c *v0Clip) metadataDuration() (float32, bool) {
	raw, ok := c.Metadata["duration"]
	if !ok {
		return 0, false
	}
	d, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	return float32(d), true
}

// decodeV0 parses raw JSON as a legacy clip.
func decodeV0(data []byte) (*v0Clip, error) {
	var c v0Clip
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, newLoadError(InvalidSchema, "", err)
	}
	return &c, nil
}

// validateV0 checks the legacy invariants: a non-empty first (amplitude)
// envelope, monotonic non-decreasing times, values in range, and no NaNs
// anywhere, including in the transients list.
func validateV0(c *v0Clip) error {
	if len(c.Envelopes) == 0 || len(c.Envelopes[0]) == 0 {
		return newLoadError(InvariantViolation, "envelopes[0]", nil)
	}

	checkEnvelope := func(field string, bps []v0Breakpoint) error {
		var lastTime float32 = -math.MaxFloat32
		for i, bp := range bps {
			if math.IsNaN(float64(bp.Time)) || math.IsNaN(float64(bp.Amplitude)) {
				return newLoadErrorAt(InvariantViolation, field, i, errNaN)
			}
			if bp.Time < 0 {
				return newLoadErrorAt(InvariantViolation, field, i, errNegativeTime)
			}
			if bp.Time < lastTime {
				return newLoadErrorAt(InvariantViolation, field, i, errNonMonotonic)
			}
			lastTime = bp.Time
			if bp.Amplitude < 0 || bp.Amplitude > 1 {
				return newLoadErrorAt(InvariantViolation, field, i, errOutOfUnitRange)
			}
		}
		return nil
	}

	if err := checkEnvelope("envelopes[0]", c.Envelopes[0]); err != nil {
		return err
	}
	if len(c.Envelopes) > 1 {
		if err := checkEnvelope("envelopes[1]", c.Envelopes[1]); err != nil {
			return err
		}
	}
	for i, t := range c.Transients {
		if math.IsNaN(float64(t.Time)) || math.IsNaN(float64(t.Amplitude)) || math.IsNaN(float64(t.Frequency)) {
			return newLoadErrorAt(InvariantViolation, "transients", i, errNaN)
		}
		if t.Amplitude < 0 || t.Amplitude > 1 || t.Frequency < 0 || t.Frequency > 1 {
			return newLoadErrorAt(InvariantViolation, "transients", i, errOutOfUnitRange)
		}
	}
	return nil
}

// upgradeV0 maps a legacy clip onto the v1 shape: the first envelope
// becomes the amplitude envelope, the second (if present) becomes the
// frequency envelope, and transients are attached as emphasis when their
// timestamp matches an amplitude breakpoint exactly. Unmatched transients
// are intentionally dropped — v0 is legacy and this ambiguity is accepted
// per §3.
//
// If the clip's recorded metadata.duration runs past the last amplitude
// breakpoint, a final breakpoint holding that last amplitude is appended
// at the recorded duration, so the upgraded envelope still reaches the
// clip's true end instead of going silent early.
func upgradeV0(c *v0Clip) *Clip {
	amp := make([]AmplitudeBreakpoint, len(c.Envelopes[0]))
	for i, bp := range c.Envelopes[0] {
		amp[i] = AmplitudeBreakpoint{Time: bp.Time, Amplitude: bp.Amplitude}
	}

	if duration, ok := c.metadataDuration(); ok {
		if last := amp[len(amp)-1]; duration > last.Time {
			amp = append(amp, AmplitudeBreakpoint{Time: duration, Amplitude: last.Amplitude})
		}
	}

	for _, t := range c.Transients {
		for i := range amp {
			if amp[i].Time == t.Time {
				amp[i].Emphasis = &Emphasis{Amplitude: t.Amplitude, Frequency: t.Frequency}
				break
			}
		}
	}

	var freq []FrequencyBreakpoint
	if len(c.Envelopes) > 1 {
		freq = make([]FrequencyBreakpoint, len(c.Envelopes[1]))
		for i, bp := range c.Envelopes[1] {
			freq[i] = FrequencyBreakpoint{Time: bp.Time, Frequency: bp.Amplitude}
		}
	}

	return &Clip{
		Version:  CurrentVersion,
		Metadata: c.Metadata,
		Signals: Signals{
			Continuous: Continuous{
				Envelopes: Envelopes{
					Amplitude: amp,
					Frequency: freq,
				},
			},
		},
	}
}
