package pattern

import (
	"math"

	goccyjson "github.com/goccy/go-json"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

// ExportParams controls the chunking and perceptual mapping applied during
// export, per §4.6.
type ExportParams struct {
	MaxCurvePoints   int
	MaxEventDuration float32
	DuckingFactor    float32
	PatternVersion   float32
}

// DefaultExportParams matches the reference export: 16-point curve chunks,
// 30-second continuous event segments, and a 0.2 ducking factor at emphasis
// breakpoints.
func DefaultExportParams() ExportParams {
	return ExportParams{
		MaxCurvePoints:   16,
		MaxEventDuration: 30,
		DuckingFactor:    0.2,
		PatternVersion:   1.0,
	}
}

// Export converts a validated clip into a single combined pattern carrying
// both continuous curves/events and discrete transient events.
func Export(c *datamodel.Clip, params ExportParams) *Pattern {
	amp := c.Signals.Continuous.Envelopes.Amplitude
	freq := c.Signals.Continuous.Envelopes.Frequency

	return &Pattern{
		Version:          params.PatternVersion,
		IntensityCurves:  intensityCurves(amp, params),
		SharpnessCurves:  sharpnessCurves(freq, params),
		ContinuousEvents: continuousEvents(amp, params),
		TransientEvents:  transientEvents(amp),
	}
}

// ExportAll exports the combined pattern together with a continuous-only
// and a transients-only split, so a host can drive two independent engines
// without the intensity curve distorting the transients. continuousOnly is
// always non-nil; transientsOnly is nil when the clip has no emphasis
// breakpoints.
func ExportAll(c *datamodel.Clip, params ExportParams) (combined, continuousOnly, transientsOnly *Pattern) {
	combined = Export(c, params)

	continuousOnly = &Pattern{
		Version:          combined.Version,
		IntensityCurves:  combined.IntensityCurves,
		SharpnessCurves:  combined.SharpnessCurves,
		ContinuousEvents: combined.ContinuousEvents,
	}

	if len(combined.TransientEvents) == 0 {
		return combined, continuousOnly, nil
	}

	transientsOnly = &Pattern{
		Version:         combined.Version,
		TransientEvents: combined.TransientEvents,
	}
	return combined, continuousOnly, transientsOnly
}

// Marshal serializes a pattern to JSON.
func (p *Pattern) Marshal() ([]byte, error) {
	return goccyjson.Marshal(p)
}

func intensityCurves(amp []datamodel.AmplitudeBreakpoint, params ExportParams) []Curve {
	if len(amp) == 0 {
		return nil
	}
	return chunkCurves(amp, DynamicParameterIntensity, params, func(bp datamodel.AmplitudeBreakpoint) float32 {
		v := sqrt32(bp.Amplitude)
		if bp.Emphasis != nil {
			v *= 1 - params.DuckingFactor
		}
		return v
	})
}

func sharpnessCurves(freq []datamodel.FrequencyBreakpoint, params ExportParams) []Curve {
	if len(freq) == 0 {
		return nil
	}
	points := make([]datamodel.AmplitudeBreakpoint, len(freq))
	for i, bp := range freq {
		points[i] = datamodel.AmplitudeBreakpoint{Time: bp.Time, Amplitude: bp.Frequency}
	}
	return chunkCurves(points, DynamicParameterSharpness, params, func(bp datamodel.AmplitudeBreakpoint) float32 {
		return sqrt32(bp.Amplitude)
	})
}

// chunkCurves splits bps into curve segments of at most params.MaxCurvePoints
// control points each, with the first point of every segment after the
// first repeating the last point of the one before it.
func chunkCurves(bps []datamodel.AmplitudeBreakpoint, id DynamicParameterID, params ExportParams, value func(datamodel.AmplitudeBreakpoint) float32) []Curve {
	maxPoints := params.MaxCurvePoints
	if maxPoints < 2 {
		maxPoints = 2
	}

	var curves []Curve
	anchor := bps[0]
	rest := bps[1:]

	for len(rest) > 0 || curves == nil {
		chunkSize := maxPoints - 1
		if chunkSize > len(rest) {
			chunkSize = len(rest)
		}
		chunk := rest[:chunkSize]
		rest = rest[chunkSize:]

		points := make([]ControlPoint, 0, chunkSize+1)
		points = append(points, ControlPoint{Time: anchor.Time, ParameterValue: value(anchor)})
		for _, bp := range chunk {
			points = append(points, ControlPoint{Time: bp.Time, ParameterValue: value(bp)})
		}

		curves = append(curves, Curve{ParameterID: id, Time: anchor.Time, ControlPoints: points})

		if len(chunk) > 0 {
			anchor = chunk[len(chunk)-1]
		}
		if len(rest) == 0 {
			break
		}
	}

	return curves
}

func continuousEvents(amp []datamodel.AmplitudeBreakpoint, params ExportParams) []ContinuousEvent {
	if len(amp) == 0 {
		return nil
	}
	maxDuration := params.MaxEventDuration
	if maxDuration <= 0 {
		maxDuration = 30
	}

	totalDuration := amp[len(amp)-1].Time
	remaining := totalDuration
	eventCount := int(math.Ceil(float64(totalDuration / maxDuration)))
	if eventCount < 1 {
		eventCount = 1
	}

	events := make([]ContinuousEvent, 0, eventCount)
	for i := 0; i < eventCount; i++ {
		time := float32(i) * maxDuration
		duration := maxDuration
		if remaining < maxDuration {
			duration = remaining
		}
		remaining -= duration

		events = append(events, ContinuousEvent{
			Time:          time,
			EventDuration: duration,
			EventParameters: []EventParameter{
				{ParameterID: ParameterIntensity, ParameterValue: 1.0},
				{ParameterID: ParameterSharpness, ParameterValue: 0.0},
			},
		})
	}
	return events
}

func transientEvents(amp []datamodel.AmplitudeBreakpoint) []TransientEvent {
	var events []TransientEvent
	for _, bp := range amp {
		if bp.Emphasis == nil {
			continue
		}
		events = append(events, TransientEvent{
			Time: bp.Time,
			EventParameters: []EventParameter{
				{ParameterID: ParameterIntensity, ParameterValue: sqrt32(bp.Emphasis.Amplitude)},
				{ParameterID: ParameterSharpness, ParameterValue: sqrt32(bp.Emphasis.Frequency)},
			},
		})
	}
	return events
}

func sqrt32(v float32) float32 {
	if v < 0 {
		return 0
	}
	return float32(math.Sqrt(float64(v)))
}
