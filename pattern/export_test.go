package pattern

import (
	"math"
	"testing"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

func clipWithEmphasis() *datamodel.Clip {
	return &datamodel.Clip{
		Version: datamodel.CurrentVersion,
		Signals: datamodel.Signals{
			Continuous: datamodel.Continuous{
				Envelopes: datamodel.Envelopes{
					Amplitude: []datamodel.AmplitudeBreakpoint{
						{Time: 0, Amplitude: 0.0},
						{Time: 0.1, Amplitude: 0.64, Emphasis: &datamodel.Emphasis{Amplitude: 1.0, Frequency: 0.25}},
						{Time: 0.2, Amplitude: 0.0},
					},
					Frequency: []datamodel.FrequencyBreakpoint{
						{Time: 0, Frequency: 0.0},
						{Time: 0.2, Frequency: 0.25},
					},
				},
			},
		},
	}
}

func TestExport_TransientAmplitudeAndFrequencyAreSquareRooted(t *testing.T) {
	p := Export(clipWithEmphasis(), DefaultExportParams())
	if len(p.TransientEvents) != 1 {
		t.Fatalf("len(TransientEvents) = %d, want 1", len(p.TransientEvents))
	}
	ev := p.TransientEvents[0]
	if ev.Time != 0.1 {
		t.Errorf("transient time = %v, want 0.1", ev.Time)
	}
	wantIntensity := float32(1.0) // sqrt(1.0)
	wantSharpness := float32(0.5) // sqrt(0.25)
	if !closeEnough(ev.EventParameters[0].ParameterValue, wantIntensity) {
		t.Errorf("transient intensity = %v, want %v", ev.EventParameters[0].ParameterValue, wantIntensity)
	}
	if !closeEnough(ev.EventParameters[1].ParameterValue, wantSharpness) {
		t.Errorf("transient sharpness = %v, want %v", ev.EventParameters[1].ParameterValue, wantSharpness)
	}
}

func TestExport_IntensityCurveDucksAtEmphasis(t *testing.T) {
	p := Export(clipWithEmphasis(), DefaultExportParams())
	if len(p.IntensityCurves) != 1 {
		t.Fatalf("len(IntensityCurves) = %d, want 1", len(p.IntensityCurves))
	}
	points := p.IntensityCurves[0].ControlPoints
	if len(points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(points))
	}
	want := float32(math.Sqrt(0.64)) * 0.8
	if !closeEnough(points[1].ParameterValue, want) {
		t.Errorf("ducked intensity = %v, want %v", points[1].ParameterValue, want)
	}
}

func TestExport_CurvesChunkAtSixteenPointsWithOverlap(t *testing.T) {
	amp := make([]datamodel.AmplitudeBreakpoint, 18)
	for i := range amp {
		amp[i] = datamodel.AmplitudeBreakpoint{Time: float32(i) * 0.01, Amplitude: 0.5}
	}
	clip := &datamodel.Clip{Signals: datamodel.Signals{Continuous: datamodel.Continuous{Envelopes: datamodel.Envelopes{Amplitude: amp}}}}

	p := Export(clip, DefaultExportParams())
	if len(p.IntensityCurves) != 2 {
		t.Fatalf("len(IntensityCurves) = %d, want 2", len(p.IntensityCurves))
	}
	first := p.IntensityCurves[0].ControlPoints
	second := p.IntensityCurves[1].ControlPoints
	if len(first) != 16 {
		t.Errorf("len(first curve) = %d, want 16", len(first))
	}
	if first[len(first)-1].Time != second[0].Time {
		t.Errorf("curve segments must overlap by one point: %v vs %v", first[len(first)-1], second[0])
	}
}

func TestExport_ContinuousEventsSplitAtThirtySeconds(t *testing.T) {
	amp := []datamodel.AmplitudeBreakpoint{
		{Time: 0, Amplitude: 0.5},
		{Time: 45, Amplitude: 0.5},
	}
	clip := &datamodel.Clip{Signals: datamodel.Signals{Continuous: datamodel.Continuous{Envelopes: datamodel.Envelopes{Amplitude: amp}}}}

	p := Export(clip, DefaultExportParams())
	if len(p.ContinuousEvents) != 2 {
		t.Fatalf("len(ContinuousEvents) = %d, want 2", len(p.ContinuousEvents))
	}
	if p.ContinuousEvents[0].EventDuration != 30 {
		t.Errorf("first event duration = %v, want 30", p.ContinuousEvents[0].EventDuration)
	}
	if p.ContinuousEvents[1].EventDuration != 15 {
		t.Errorf("second event duration = %v, want 15", p.ContinuousEvents[1].EventDuration)
	}
}

func TestExportAll_SplitsContinuousAndTransients(t *testing.T) {
	combined, continuousOnly, transientsOnly := ExportAll(clipWithEmphasis(), DefaultExportParams())
	if len(combined.TransientEvents) == 0 {
		t.Fatal("combined pattern must still carry transients")
	}
	if len(continuousOnly.TransientEvents) != 0 {
		t.Error("continuous-only pattern must not carry transients")
	}
	if transientsOnly == nil {
		t.Fatal("transients-only pattern must be present when the clip has emphasis")
	}
	if len(transientsOnly.ContinuousEvents) != 0 || len(transientsOnly.IntensityCurves) != 0 {
		t.Error("transients-only pattern must not carry continuous curves or events")
	}
}

func TestExportAll_NilTransientsWhenNoEmphasis(t *testing.T) {
	clip := &datamodel.Clip{Signals: datamodel.Signals{Continuous: datamodel.Continuous{Envelopes: datamodel.Envelopes{
		Amplitude: []datamodel.AmplitudeBreakpoint{{Time: 0, Amplitude: 0.5}, {Time: 1, Amplitude: 0.0}},
	}}}}
	_, _, transientsOnly := ExportAll(clip, DefaultExportParams())
	if transientsOnly != nil {
		t.Error("transients-only pattern must be nil when the clip has no emphasis breakpoints")
	}
}

func closeEnough(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-4
}
