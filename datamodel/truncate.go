package datamodel

// TruncateBefore removes all content before time t and shifts the
// remainder so that it starts at zero, per §4.2.
//
// If t falls strictly between two amplitude breakpoints, a new initial
// breakpoint is synthesized at time 0 whose value is the linear
// interpolation of the two surrounding breakpoints at t. If no amplitude
// breakpoint has time >= t, TruncateBefore fails with ErrOutOfRange. The
// frequency envelope is handled identically to the amplitude envelope; if
// truncation leaves it empty, it is dropped rather than kept empty.
func TruncateBefore(c *Clip, t float32) (*Clip, error) {
	amp, err := truncateEnvelope(c.Signals.Continuous.Envelopes.Amplitude, t)
	if err != nil {
		return nil, ErrOutOfRange
	}

	freq, err := truncateFrequencyEnvelope(c.Signals.Continuous.Envelopes.Frequency, t)
	if err != nil {
		// An out-of-range frequency envelope simply has nothing left;
		// only the amplitude envelope's range is authoritative for
		// whether truncation as a whole succeeds.
		freq = nil
	}

	return &Clip{
		Version:  c.Version,
		Metadata: c.Metadata,
		Signals: Signals{
			Continuous: Continuous{
				Envelopes: Envelopes{
					Amplitude: amp,
					Frequency: freq,
				},
			},
		},
	}, nil
}

// truncateEnvelope implements TruncateBefore's algorithm for a single
// amplitude envelope. Frequency envelopes go through a separate copy of
// this logic below (truncateFrequencyEnvelope) since Go has no breakpoint
// interface generic enough to share code without reflection; the logic
// is intentionally identical.
func truncateEnvelope(bps []AmplitudeBreakpoint, t float32) ([]AmplitudeBreakpoint, error) {
	if len(bps) == 0 {
		return nil, ErrOutOfRange
	}

	idx := -1
	for i, bp := range bps {
		if bp.Time >= t {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrOutOfRange
	}

	out := make([]AmplitudeBreakpoint, 0, len(bps)-idx+1)
	if bps[idx].Time > t && idx > 0 {
		prev := bps[idx-1]
		next := bps[idx]
		interpolated := interpolateAmplitude(prev, next, t)
		out = append(out, AmplitudeBreakpoint{Time: 0, Amplitude: interpolated.Amplitude})
	}
	for i := idx; i < len(bps); i++ {
		bp := bps[i]
		out = append(out, AmplitudeBreakpoint{
			Time:      bp.Time - t,
			Amplitude: bp.Amplitude,
			Emphasis:  bp.Emphasis,
		})
	}
	return out, nil
}

func truncateFrequencyEnvelope(bps []FrequencyBreakpoint, t float32) ([]FrequencyBreakpoint, error) {
	if len(bps) == 0 {
		return nil, ErrOutOfRange
	}

	idx := -1
	for i, bp := range bps {
		if bp.Time >= t {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrOutOfRange
	}

	out := make([]FrequencyBreakpoint, 0, len(bps)-idx+1)
	if bps[idx].Time > t && idx > 0 {
		prev := bps[idx-1]
		next := bps[idx]
		frac := (t - prev.Time) / (next.Time - prev.Time)
		value := prev.Frequency + frac*(next.Frequency-prev.Frequency)
		out = append(out, FrequencyBreakpoint{Time: 0, Frequency: value})
	}
	for i := idx; i < len(bps); i++ {
		bp := bps[i]
		out = append(out, FrequencyBreakpoint{Time: bp.Time - t, Frequency: bp.Frequency})
	}
	return out, nil
}

// interpolateAmplitude returns the linear interpolation of the envelope
// value at time t, between two consecutive amplitude breakpoints.
func interpolateAmplitude(prev, next AmplitudeBreakpoint, t float32) AmplitudeBreakpoint {
	frac := (t - prev.Time) / (next.Time - prev.Time)
	return AmplitudeBreakpoint{
		Time:      t,
		Amplitude: prev.Amplitude + frac*(next.Amplitude-prev.Amplitude),
	}
}
