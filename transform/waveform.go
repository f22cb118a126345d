package transform

import (
	"math"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

// QBits is the fixed amplitude depth of a Waveform cell (§3): 8 bits, so
// MaxAmplitude below is 2^8 - 1.
const QBits = 8

// MaxAmplitude is the highest integer amplitude a Waveform cell can carry.
const MaxAmplitude int32 = 1<<QBits - 1

// Waveform is a sequence of vibration cells: TimingsMS[i] milliseconds at
// constant amplitude Amplitudes[i]. The two slices always have equal
// length.
type Waveform struct {
	TimingsMS  []int64
	Amplitudes []int32
}

// BuildWaveform converts amplitude breakpoints (typically post-emphasis,
// post-interpolation) into a Waveform, per §4.5.
//
// Each cell's amplitude is the left breakpoint's amplitude, scaled to
// round(a * maxAmplitude) and clamped to [0, maxAmplitude]. Because
// durations are rounded to whole milliseconds, rounding error would
// otherwise accumulate: an accumulator tracks total emitted milliseconds
// against the breakpoints' true elapsed time, and the drift is folded into
// the next cell's duration rather than corrected per-cell. Cells that end
// up with a duration of zero milliseconds are dropped.
func BuildWaveform(bps []datamodel.AmplitudeBreakpoint, maxAmplitude int32) Waveform {
	var timings []int64
	var amplitudes []int32
	var accumulatedMS float32

	for i := 0; i < len(bps)-1; i++ {
		a, b := bps[i], bps[i+1]
		duration := b.Time - a.Time
		if duration <= 0 {
			continue
		}

		timingErrorMS := (a.Time - accumulatedMS/1000.0) * 1000.0
		durationMS := int64(math.Round(float64(duration*1000 + timingErrorMS)))
		if durationMS <= 0 {
			continue
		}

		timings = append(timings, durationMS)
		accumulatedMS += float32(durationMS)

		amp := int32(math.Round(float64(a.Amplitude) * float64(maxAmplitude)))
		if amp < 0 {
			amp = 0
		}
		if amp > maxAmplitude {
			amp = maxAmplitude
		}
		amplitudes = append(amplitudes, amp)
	}

	return Waveform{TimingsMS: timings, Amplitudes: amplitudes}
}
