package transform

import (
	"testing"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

func TestBuildWaveform_DriftIsCarriedIntoNextCell(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 0.0),
		amp(0.0013, 0.2),
		amp(0.0026, 0.0),
	}
	w := BuildWaveform(bps, MaxAmplitude)

	if len(w.TimingsMS) != 2 {
		t.Fatalf("len(TimingsMS) = %d, want 2", len(w.TimingsMS))
	}

	var sum int64
	for _, ms := range w.TimingsMS {
		sum += ms
	}
	const trueDurationMS = 2.6
	diff := float64(sum) - trueDurationMS
	if diff < 0 {
		diff = -diff
	}
	if diff > 1.0 {
		t.Errorf("sum(TimingsMS) = %dms, want within 1ms of %.1fms", sum, trueDurationMS)
	}
}

func TestBuildWaveform_CloseBreakpointsRounding(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 0.0),
		amp(0.001, 0.2),
		amp(0.002, 0.0),
		amp(0.003, 0.2),
		amp(0.004, 0.0),
	}
	w := BuildWaveform(bps, MaxAmplitude)

	wantTimings := []int64{1, 1, 1, 1}
	wantAmplitudes := []int32{0, 51, 0, 51}

	if len(w.TimingsMS) != len(wantTimings) {
		t.Fatalf("len(TimingsMS) = %d, want %d: %+v", len(w.TimingsMS), len(wantTimings), w)
	}
	for i := range wantTimings {
		if w.TimingsMS[i] != wantTimings[i] {
			t.Errorf("TimingsMS[%d] = %d, want %d", i, w.TimingsMS[i], wantTimings[i])
		}
		if w.Amplitudes[i] != wantAmplitudes[i] {
			t.Errorf("Amplitudes[%d] = %d, want %d", i, w.Amplitudes[i], wantAmplitudes[i])
		}
	}
}

func TestBuildWaveform_ZeroDurationCellsAreDropped(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 0.0),
		amp(0, 0.5),
		amp(0.01, 1.0),
	}
	w := BuildWaveform(bps, MaxAmplitude)
	if len(w.TimingsMS) != 1 {
		t.Fatalf("len(TimingsMS) = %d, want 1 (zero-duration pair dropped)", len(w.TimingsMS))
	}
}

func TestBuildWaveform_AmplitudeScaledAndClamped(t *testing.T) {
	bps := []datamodel.AmplitudeBreakpoint{
		amp(0, 1.0),
		amp(0.01, 0.0),
	}
	w := BuildWaveform(bps, MaxAmplitude)
	if len(w.Amplitudes) != 1 || w.Amplitudes[0] != MaxAmplitude {
		t.Errorf("Amplitudes = %v, want [%d]", w.Amplitudes, MaxAmplitude)
	}
}
