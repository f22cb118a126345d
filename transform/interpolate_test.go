package transform

import (
	"testing"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

func TestInterpolate_BelowMinTimeStepPassesThrough(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{amp(0, 0.0), amp(0.01, 1.0)}
	out := Interpolate(bps, InterpolateParams{QBits: 8, MinTimeStep: 0.1})
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 (no resampling needed)", len(out))
	}
}

func TestInterpolate_DisabledWhenMinTimeStepNonPositive(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{amp(0, 0.0), amp(1.0, 1.0)}
	out := Interpolate(bps, InterpolateParams{QBits: 8, MinTimeStep: 0})
	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2 when MinTimeStep <= 0", len(out))
	}
}

func TestInterpolate_LargeGapInsertsDistinguishableSamples(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{amp(0, 0.0), amp(1.0, 1.0)}
	out := Interpolate(bps, InterpolateParams{QBits: 8, MinTimeStep: 0.3})

	if len(out) < 4 {
		t.Fatalf("len(out) = %d, want at least 4 breakpoints (endpoints plus interior samples) for a 1s gap at 0.3s step", len(out))
	}
	if out[0].Time != 0 || out[len(out)-1].Time != 1.0 {
		t.Errorf("endpoints must always be retained, got first=%v last=%v", out[0], out[len(out)-1])
	}
	for i := 1; i < len(out); i++ {
		if out[i].Time < out[i-1].Time {
			t.Fatalf("output not monotonic at %d: %+v", i, out)
		}
	}
}

func TestInterpolate_RedundantSamplesCollapseToSameQuantizationBin(t *testing.T) {
	// A near-flat ramp at low quantization depth: every interior sample
	// would land in the same bin as the first, so none should be kept.
	bps := []datamodel.AmplitudeBreakpoint{amp(0, 0.5), amp(1.0, 0.5001)}
	out := Interpolate(bps, InterpolateParams{QBits: 4, MinTimeStep: 0.1})
	if len(out) != 2 {
		t.Errorf("len(out) = %d, want 2 (interior samples indistinguishable at this quantization depth)", len(out))
	}
}
