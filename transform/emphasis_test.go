package transform

import (
	"testing"
	"time"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

func amp(t, a float32) datamodel.AmplitudeBreakpoint {
	return datamodel.AmplitudeBreakpoint{Time: t, Amplitude: a}
}

func ampEmph(t, a, ea, ef float32) datamodel.AmplitudeBreakpoint {
	return datamodel.AmplitudeBreakpoint{Time: t, Amplitude: a, Emphasis: &datamodel.Emphasis{Amplitude: ea, Frequency: ef}}
}

func TestEmphasize_CollidingBurstsStayMonotonic(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 0.0),
		amp(0.1, 0.1),
		ampEmph(0.19, 0.3, 0.9, 0.7),
		ampEmph(0.21, 0.4, 0.8, 0.7),
		amp(0.3, 0.1),
		amp(0.4, 0.0),
	}
	params := EmphasisParams{
		DuckingBeforeLength: 30 * time.Millisecond,
		EmphasisLength:      30 * time.Millisecond,
		DuckingAfterLength:  30 * time.Millisecond,
		DuckingAmplitude:    1.1 / 255,
	}

	out := Emphasize(bps, params)

	var lastTime float32 = -1
	for i, bp := range out {
		if bp.Time < lastTime {
			t.Fatalf("output not monotonic at index %d: %+v (prev time %v)", i, bp, lastTime)
		}
		lastTime = bp.Time
	}

	foundBurst := false
	for _, bp := range out {
		if approxEqual(bp.Time, 0.19) && approxEqual(bp.Amplitude, 1.0) {
			foundBurst = true
		}
	}
	if !foundBurst {
		t.Errorf("expected a (0.19, 1.0) burst breakpoint in %+v", out)
	}

	foundReturn := false
	for _, bp := range out {
		if approxEqual(bp.Time, 0.25) && approxEqualTol(bp.Amplitude, 0.2667, 1e-3) {
			foundReturn = true
		}
	}
	if !foundReturn {
		t.Errorf("expected a (0.25, ~0.2667) return-to-envelope breakpoint in %+v", out)
	}
}

func TestEmphasize_FirstBreakpointSkipsDuckingBefore(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		ampEmph(0, 0.5, 0.9, 0.5),
		amp(0.5, 0.1),
	}
	out := Emphasize(bps, DefaultEmphasisParams())
	if out[0].Time != 0 || out[0].Amplitude != emphasisAmplitude {
		t.Errorf("first breakpoint should start the burst directly, got %+v", out[0])
	}
}

func TestEmphasize_LastBreakpointSkipsDuckingAfter(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 0.1),
		ampEmph(0.5, 0.5, 0.9, 0.5),
	}
	out := Emphasize(bps, DefaultEmphasisParams())
	last := out[len(out)-1]
	if last.Amplitude != emphasisAmplitude {
		t.Errorf("last breakpoint must end on the emphasis burst with no ducking-after, got %+v", out)
	}
}

func approxEqual(a, b float32) bool { return approxEqualTol(a, b, 1e-4) }

func approxEqualTol(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}
