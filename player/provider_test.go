package player

import (
	"math"
	"testing"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

func testClip() *datamodel.Clip {
	return &datamodel.Clip{
		Signals: datamodel.Signals{
			Continuous: datamodel.Continuous{
				Envelopes: datamodel.Envelopes{
					Amplitude: []datamodel.AmplitudeBreakpoint{
						{Time: 0, Amplitude: 0.0},
						{Time: 0.1, Amplitude: 0.5},
						{Time: 0.2, Amplitude: 1.0},
					},
					Frequency: []datamodel.FrequencyBreakpoint{
						{Time: 0, Frequency: 0.2},
						{Time: 0.2, Frequency: 0.8},
					},
				},
			},
		},
	}
}

func TestEventProvider_StartsAtFirstBreakpoint(t *testing.T) {
	p := NewEventProvider(testClip())
	ev, ok := p.GetNext()
	if !ok {
		t.Fatal("expected an initial event")
	}
	if ev.Kind != EventAmplitude || ev.Amplitude.Time != 0 {
		t.Errorf("first event = %+v, want an amplitude ramp starting at 0", ev)
	}
}

func TestEventProvider_AmplitudeWinsTies(t *testing.T) {
	clip := &datamodel.Clip{Signals: datamodel.Signals{Continuous: datamodel.Continuous{Envelopes: datamodel.Envelopes{
		Amplitude: []datamodel.AmplitudeBreakpoint{{Time: 0, Amplitude: 0.5}, {Time: 1, Amplitude: 0.5}},
		Frequency: []datamodel.FrequencyBreakpoint{{Time: 0, Frequency: 0.5}, {Time: 1, Frequency: 0.5}},
	}}}}
	p := NewEventProvider(clip)
	ev, ok := p.GetNext()
	if !ok || ev.Kind != EventAmplitude {
		t.Fatalf("expected amplitude event to win the time-0 tie, got %+v ok=%v", ev, ok)
	}
}

func TestEventProvider_StopProducesClosingRampThenEnds(t *testing.T) {
	p := NewEventProvider(testClip())
	if _, ok := p.GetNext(); !ok {
		t.Fatal("expected an event before stopping")
	}
	p.Stop()
	if _, ok := p.PeekNextTime(); !ok {
		t.Fatal("expected a closing ramp-to-zero after Stop")
	}
	if _, ok := p.GetNext(); !ok {
		t.Fatal("expected to consume the closing ramp")
	}
	if _, ok := p.PeekNextTime(); ok {
		t.Error("expected no further events after the closing ramp")
	}
}

func TestEventProvider_SeekMidBreakpointInterpolates(t *testing.T) {
	p := NewEventProvider(testClip())
	p.Seek(0.15)
	ev, ok := p.GetNext()
	if !ok || ev.Kind != EventAmplitude || ev.Amplitude.Duration != 0 {
		t.Fatalf("expected an instantaneous level-change event first, got %+v ok=%v", ev, ok)
	}
	wantAmplitude := float32(0.75) // interpolated between 0.5 @0.1 and 1.0 @0.2
	if diff := ev.Amplitude.Amplitude - wantAmplitude; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("interpolated amplitude = %v, want %v", ev.Amplitude.Amplitude, wantAmplitude)
	}
	ev2, ok := p.GetNext()
	if !ok || ev2.Amplitude.Time != 0.15 {
		t.Fatalf("expected a ramp event starting at 0.15 toward the breakpoint at 0.2, got %+v ok=%v", ev2, ok)
	}
}

func TestEventProvider_SeekPastEndTransitionsToAfterLast(t *testing.T) {
	p := NewEventProvider(testClip())
	p.Seek(10.0)
	ev, ok := p.GetNext()
	if !ok || ev.Kind != EventAmplitude || ev.Amplitude.Amplitude != 0 {
		t.Fatalf("expected a ramp-to-zero when seeking past the end, got %+v ok=%v", ev, ok)
	}
	if _, ok := p.PeekNextTime(); ok {
		t.Error("expected no further events after the terminal ramp-to-zero")
	}
}

func TestEventProvider_EventsWithoutEmphasisCarryNaN(t *testing.T) {
	p := NewEventProvider(testClip())
	ev, _ := p.GetNext()
	if !math.IsNaN(float64(ev.Amplitude.Emphasis.Amplitude)) {
		t.Errorf("expected NaN emphasis sentinel, got %v", ev.Amplitude.Emphasis.Amplitude)
	}
}

func TestEventProvider_AmplitudeMultiplicationIsSquared(t *testing.T) {
	p := NewEventProvider(testClip())
	p.SetAmplitudeMultiplication(0.5)
	// Skip the ramp starting at amplitude 0; look at the second ramp, whose
	// target amplitude is 0.5, to see modulation applied to a nonzero value.
	p.GetNext()
	ev, _ := p.GetNext()
	want := float32(0.5 * 0.5 * 0.5) // amplitude * mult^2
	if diff := ev.Amplitude.Amplitude - want; diff > 1e-4 || diff < -1e-4 {
		t.Errorf("modulated amplitude = %v, want %v (amplitude*mult^2)", ev.Amplitude.Amplitude, want)
	}
}
