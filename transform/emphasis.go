// Package transform implements the three pipeline passes that prepare a
// validated clip for a backend that cannot consume raw breakpoints
// directly: emphasis rendering, interpolation/quantization, and waveform
// construction (C3, C4, C5).
package transform

import (
	"time"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

// EmphasisParams controls how an emphasis accent is rendered into the
// continuous amplitude signal. DuckingAmplitude must be a small positive
// value, never exactly zero — zero would power the actuator off entirely
// and introduce wake-up latency right before the transient it's meant to
// set off.
type EmphasisParams struct {
	DuckingBeforeLength time.Duration
	EmphasisLength      time.Duration
	DuckingAfterLength  time.Duration
	DuckingAmplitude    float32
}

// DefaultEmphasisParams returns the parameter set used by S4 in the
// testable properties: 30ms ducking before/after, a 30ms emphasis burst,
// and a ducking floor of 1.1/255 (just above zero).
func DefaultEmphasisParams() EmphasisParams {
	return EmphasisParams{
		DuckingBeforeLength: 30 * time.Millisecond,
		EmphasisLength:      30 * time.Millisecond,
		DuckingAfterLength:  30 * time.Millisecond,
		DuckingAmplitude:    1.1 / 255,
	}
}

// emphasisAmplitude is the fixed level used for the emphasis burst itself.
// The emphasis breakpoint's own amplitude is deliberately ignored: using a
// fixed maximum makes the emulated transient distinct even when the
// surrounding envelope is already loud.
const emphasisAmplitude float32 = 1.0

func secs(d time.Duration) float32 { return float32(d.Seconds()) }

// Emphasize rewrites every emphasis breakpoint in bps into an explicit
// ducking-before / burst / ducking-after sequence, per §4.3. Ordinary
// breakpoints masked by a burst are dropped. The result is itself a valid
// amplitude envelope: validating it as a clip succeeds for every valid
// input.
func Emphasize(bps []datamodel.AmplitudeBreakpoint, params EmphasisParams) []datamodel.AmplitudeBreakpoint {
	if len(bps) == 0 {
		return nil
	}

	nextEmphasis := firstEmphasisFrom(bps, 0)
	prevEmphasis := -1
	result := make([]datamodel.AmplitudeBreakpoint, 0, len(bps))

	for i, bp := range bps {
		if bp.Emphasis == nil {
			if !shouldSkipNormal(bps, i, prevEmphasis, nextEmphasis, params) {
				result = append(result, bp)
			}
			continue
		}

		result = appendDuckingBefore(result, bps, i, params)
		result = appendEmphasisAndDuckingAfter(result, bps, i, params)

		prevEmphasis = nextEmphasis
		nextEmphasis = firstEmphasisFrom(bps, i+1)
	}

	return result
}

func firstEmphasisFrom(bps []datamodel.AmplitudeBreakpoint, from int) int {
	for i := from; i < len(bps); i++ {
		if bps[i].Emphasis != nil {
			return i
		}
	}
	return -1
}

// shouldSkipNormal reports whether a normal breakpoint falls inside the
// ducking-before window of the upcoming emphasis, or inside the
// emphasis-plus-ducking-after window of the preceding one.
func shouldSkipNormal(bps []datamodel.AmplitudeBreakpoint, i, prevEmphasis, nextEmphasis int, params EmphasisParams) bool {
	bp := bps[i]

	if nextEmphasis != -1 {
		ne := bps[nextEmphasis]
		duckBeforeStart := max32(ne.Time-secs(params.DuckingBeforeLength), 0)
		if bp.Time >= duckBeforeStart && bp.Time <= ne.Time {
			return true
		}
	}

	if prevEmphasis != -1 {
		pe := bps[prevEmphasis]
		emphasisEnd := pe.Time + secs(params.EmphasisLength)
		duckAfterEnd := emphasisEnd + secs(params.DuckingAfterLength)
		if bp.Time >= pe.Time && bp.Time <= duckAfterEnd {
			return true
		}
	}

	return false
}

// appendDuckingBefore appends the up-to-3 ducking-before breakpoints
// preceding the emphasis breakpoint at index idx. It is a no-op if the
// emphasis breakpoint is the first breakpoint, or if a previous burst has
// already advanced the output past where ducking-before would start.
func appendDuckingBefore(result []datamodel.AmplitudeBreakpoint, bps []datamodel.AmplitudeBreakpoint, idx int, params EmphasisParams) []datamodel.AmplitudeBreakpoint {
	eb := bps[idx]
	lastTime := lastResultTime(result)
	if idx == 0 || eb.Time <= lastTime {
		return result
	}

	duckStart := max32(max32(eb.Time-secs(params.DuckingBeforeLength), 0), lastTime)

	indexBefore := -1
	for j := idx - 1; j >= 0; j-- {
		if bps[j].Time < duckStart {
			indexBefore = j
			break
		}
	}
	if indexBefore != -1 {
		before := bps[indexBefore]
		in := bps[indexBefore+1]
		result = append(result, interpolateAt(before, in, duckStart))
	}

	result = append(result, datamodel.AmplitudeBreakpoint{Time: duckStart, Amplitude: params.DuckingAmplitude})
	result = append(result, datamodel.AmplitudeBreakpoint{Time: eb.Time, Amplitude: params.DuckingAmplitude})
	return result
}

// appendEmphasisAndDuckingAfter appends the emphasis burst and, unless the
// emphasis breakpoint is the last breakpoint of the clip, the ducking-after
// breakpoints that follow it.
func appendEmphasisAndDuckingAfter(result []datamodel.AmplitudeBreakpoint, bps []datamodel.AmplitudeBreakpoint, idx int, params EmphasisParams) []datamodel.AmplitudeBreakpoint {
	eb := bps[idx]
	lastTime := lastResultTime(result)

	emphasisStart := max32(eb.Time, lastTime)
	emphasisEnd := max32(eb.Time+secs(params.EmphasisLength), lastTime)

	// A sufficiently severe collision with the previous emphasis's
	// ducking-after region can collapse this burst to zero duration; in
	// that case skip it entirely rather than emit a zero-length event.
	if emphasisEnd-emphasisStart <= 1e-6 {
		return result
	}

	result = append(result, datamodel.AmplitudeBreakpoint{Time: emphasisStart, Amplitude: emphasisAmplitude})
	result = append(result, datamodel.AmplitudeBreakpoint{Time: emphasisEnd, Amplitude: emphasisAmplitude})

	if idx == len(bps)-1 {
		return result
	}

	duckAfterStart := emphasisEnd
	result = append(result, datamodel.AmplitudeBreakpoint{Time: duckAfterStart, Amplitude: params.DuckingAmplitude})

	duckAfterEnd := duckAfterStart + secs(params.DuckingAfterLength)
	result = append(result, datamodel.AmplitudeBreakpoint{Time: duckAfterEnd, Amplitude: params.DuckingAmplitude})

	indexAfter := -1
	for j := idx + 1; j < len(bps); j++ {
		if bps[j].Time > duckAfterEnd {
			indexAfter = j
			break
		}
	}
	if indexAfter != -1 {
		after := bps[indexAfter]
		in := bps[indexAfter-1]
		result = append(result, interpolateAt(in, after, duckAfterEnd))
	}

	return result
}

func lastResultTime(result []datamodel.AmplitudeBreakpoint) float32 {
	if len(result) == 0 {
		return 0
	}
	return result[len(result)-1].Time
}

func interpolateAt(a, b datamodel.AmplitudeBreakpoint, t float32) datamodel.AmplitudeBreakpoint {
	frac := (t - a.Time) / (b.Time - a.Time)
	return datamodel.AmplitudeBreakpoint{
		Time:      t,
		Amplitude: a.Amplitude + frac*(b.Amplitude-a.Amplitude),
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
