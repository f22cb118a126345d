package transform

import (
	"math"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

// InterpolateParams controls resampling: QBits sets the amplitude
// quantization depth used only to decide which interior samples are
// redundant (used depth is 2^QBits), and MinTimeStep is the resampling
// step, in seconds: a pair of breakpoints further apart than MinTimeStep
// is sampled at max(floor(gap/MinTimeStep)+1, 3) evenly spaced points. A
// non-positive MinTimeStep disables interpolation entirely.
type InterpolateParams struct {
	QBits       int
	MinTimeStep float32
}

// Interpolate resamples every pair of consecutive breakpoints whose gap
// exceeds MinTimeStep, per §4.4. Endpoints of every original pair are
// always retained; interior samples are discarded when they fall in the
// same amplitude quantization bin as the previously retained sample,
// since downstream integer quantization would make them indistinguishable
// anyway. Retained breakpoints can therefore still be further apart than
// MinTimeStep.
func Interpolate(bps []datamodel.AmplitudeBreakpoint, params InterpolateParams) []datamodel.AmplitudeBreakpoint {
	if len(bps) == 0 {
		return nil
	}

	out := make([]datamodel.AmplitudeBreakpoint, 0, len(bps))
	out = append(out, bps[0])

	for i := 0; i < len(bps)-1; i++ {
		a, b := bps[i], bps[i+1]
		dt := b.Time - a.Time

		if params.MinTimeStep <= 0 || dt <= params.MinTimeStep {
			out = append(out, b)
			continue
		}

		n := int(math.Floor(float64(dt/params.MinTimeStep))) + 1
		if n < 3 {
			n = 3
		}

		for k := 1; k < n-1; k++ {
			frac := float32(k) / float32(n-1)
			t := a.Time + dt*frac
			amp := a.Amplitude + (b.Amplitude-a.Amplitude)*frac

			last := out[len(out)-1]
			if quantizeBin(amp, params.QBits) != quantizeBin(last.Amplitude, params.QBits) {
				out = append(out, datamodel.AmplitudeBreakpoint{Time: t, Amplitude: amp})
			}
		}

		out = append(out, b)
	}

	return out
}

// quantizeBin returns the integer amplitude bin that amp rounds to at the
// given quantization depth, used only to compare two samples for
// equivalence — never to produce an output amplitude.
func quantizeBin(amp float32, qBits int) int64 {
	depth := float64(int64(1) << qBits)
	return int64(math.Round(float64(amp) * depth))
}
