package datamodel

import (
	"errors"
	"testing"
)

func fixtureClip() *Clip {
	return &Clip{
		Version: CurrentVersion,
		Signals: Signals{
			Continuous: Continuous{
				Envelopes: Envelopes{
					Amplitude: []AmplitudeBreakpoint{
						{Time: 0, Amplitude: 0.0},
						{Time: 0.1, Amplitude: 0.5},
						{Time: 0.2, Amplitude: 1.0},
					},
					Frequency: []FrequencyBreakpoint{
						{Time: 0, Frequency: 0.2},
						{Time: 0.2, Frequency: 0.8},
					},
				},
			},
		},
	}
}

func TestTruncateBefore_MidBreakpointInterpolates(t *testing.T) {
	out, err := TruncateBefore(fixtureClip(), 0.05)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	amp := out.Signals.Continuous.Envelopes.Amplitude
	if len(amp) != 3 {
		t.Fatalf("len(amplitude) = %d, want 3", len(amp))
	}
	if amp[0].Time != 0 || amp[0].Amplitude != 0.25 {
		t.Errorf("interpolated breakpoint = %+v, want {0, 0.25}", amp[0])
	}
	if amp[1].Time != 0.05 {
		t.Errorf("shifted breakpoint time = %v, want 0.05", amp[1].Time)
	}
}

func TestTruncateBefore_ExactBreakpointIsIdempotentInStructure(t *testing.T) {
	out, err := TruncateBefore(fixtureClip(), 0.1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	amp := out.Signals.Continuous.Envelopes.Amplitude
	if len(amp) != 2 {
		t.Fatalf("len(amplitude) = %d, want 2 (no interpolant inserted)", len(amp))
	}
	if amp[0].Time != 0 || amp[0].Amplitude != 0.5 {
		t.Errorf("first breakpoint = %+v, want {0, 0.5}", amp[0])
	}
}

func TestTruncateBefore_PastEndFails(t *testing.T) {
	_, err := TruncateBefore(fixtureClip(), 1.0)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("err = %v, want ErrOutOfRange", err)
	}
}

func TestTruncateBefore_FrequencyDroppedWhenEmptied(t *testing.T) {
	c := fixtureClip()
	c.Signals.Continuous.Envelopes.Amplitude = append(
		c.Signals.Continuous.Envelopes.Amplitude,
		AmplitudeBreakpoint{Time: 0.3, Amplitude: 0.0},
	)
	out, err := TruncateBefore(c, 0.25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Signals.Continuous.Envelopes.Frequency != nil {
		t.Errorf("frequency envelope should be dropped, got %+v", out.Signals.Continuous.Envelopes.Frequency)
	}
}
