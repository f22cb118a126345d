package player

import (
	"math"
	"sort"

	"github.com/Lofelt/NiceVibrations/datamodel"
)

// minBreakpointDistance is the minimum spacing, in seconds, for two
// breakpoints to be treated as distinct. Below this, a seek landing
// between two breakpoints is treated as landing exactly on the second one,
// so no redundant zero-length ramp is synthesized.
const minBreakpointDistance float32 = 0.0001

type positionKind int

const (
	posNone positionKind = iota
	posBeforeInitial
	posInClip
	posAfterLast
)

// envelopePosition is the cursor state for one envelope (amplitude or
// frequency), per §4.7.
type envelopePosition struct {
	kind         positionKind
	pending      []Event // only meaningful when kind == posBeforeInitial
	initialIndex int     // only meaningful when kind == posBeforeInitial
	index        int      // only meaningful when kind == posInClip
}

// EventProvider is a lazy, restartable generator of amplitude and frequency
// ramp events over a clip. It holds two independent cursors and applies
// live amplitude/frequency modulation at emission time.
type EventProvider struct {
	clip              *datamodel.Clip
	amplitudePosition envelopePosition
	frequencyPosition envelopePosition
	ampMul            float32
	freqShift         float32
}

// NewEventProvider creates a provider positioned at the start of clip.
func NewEventProvider(clip *datamodel.Clip) *EventProvider {
	p := &EventProvider{clip: clip, ampMul: 1.0, freqShift: 0}
	p.Seek(0)
	return p
}

// SetAmplitudeMultiplication sets the scalar applied to every amplitude
// event from now on.
func (p *EventProvider) SetAmplitudeMultiplication(m float32) { p.ampMul = m }

// SetFrequencyShift sets the scalar added to every frequency event (and to
// emphasis frequency) from now on.
func (p *EventProvider) SetFrequencyShift(s float32) { p.freqShift = s }

// Stop moves the amplitude cursor to AfterLast (one closing ramp-to-zero
// remains) and drops the frequency cursor entirely.
func (p *EventProvider) Stop() {
	p.amplitudePosition = envelopePosition{kind: posAfterLast}
	p.frequencyPosition = envelopePosition{kind: posNone}
}

// Seek repositions both cursors so that playback would resume at t
// (clamped to ≥ 0).
func (p *EventProvider) Seek(t float32) {
	if t < 0 {
		t = 0
	}
	p.amplitudePosition = p.amplitudePositionForSeek(t)
	p.frequencyPosition = p.frequencyPositionForSeek(t, p.amplitudePosition)
}

func (p *EventProvider) amplitudePositionForSeek(t float32) envelopePosition {
	env := p.clip.Signals.Continuous.Envelopes.Amplitude
	idx := sort.Search(len(env), func(i int) bool { return env[i].Time >= t })
	if idx >= len(env) {
		if p.amplitudePosition.kind != posNone {
			return envelopePosition{kind: posAfterLast}
		}
		return envelopePosition{kind: posNone}
	}

	initial := env[idx]
	var events []Event
	if idx > 0 {
		prev := env[idx-1]
		interp := interpolateAmplitudeAt(prev, initial, t)
		events = append(events, Event{Kind: EventAmplitude, Amplitude: AmplitudeEvent{
			Time: t, Duration: 0, Amplitude: interp.Amplitude, Emphasis: noEmphasis(),
		}})
		if absf32(initial.Time-interp.Time) > minBreakpointDistance {
			events = append(events, amplitudeRampEvent(interp, initial))
		}
	} else {
		events = append(events, amplitudeRampEvent(datamodel.AmplitudeBreakpoint{Time: t, Amplitude: 0}, initial))
	}
	return envelopePosition{kind: posBeforeInitial, pending: events, initialIndex: idx}
}

func (p *EventProvider) frequencyPositionForSeek(t float32, ampPos envelopePosition) envelopePosition {
	ampAtEnd := ampPos.kind == posAfterLast || ampPos.kind == posNone
	if ampAtEnd {
		return envelopePosition{kind: posNone}
	}

	env := p.clip.Signals.Continuous.Envelopes.Frequency
	if len(env) == 0 {
		return envelopePosition{kind: posNone}
	}

	idx := sort.Search(len(env), func(i int) bool { return env[i].Time >= t })
	if idx >= len(env) {
		last := env[len(env)-1]
		return p.frequencyPositionForSeek(last.Time, ampPos)
	}

	initial := env[idx]
	var events []Event
	if idx > 0 {
		prev := env[idx-1]
		interp := interpolateFrequencyAt(prev, initial, t)
		events = append(events, Event{Kind: EventFrequency, Frequency: FrequencyEvent{
			Time: t, Duration: 0, Frequency: interp.Frequency,
		}})
		if absf32(initial.Time-interp.Time) > minBreakpointDistance {
			events = append(events, frequencyRampEvent(interp, initial))
		}
	} else {
		events = append(events, frequencyRampEvent(datamodel.FrequencyBreakpoint{Time: t, Frequency: 0}, initial))
	}
	return envelopePosition{kind: posBeforeInitial, pending: events, initialIndex: idx}
}

// PeekNextTime reports the time of whichever cursor would produce the next
// event, without advancing either cursor.
func (p *EventProvider) PeekNextTime() (float32, bool) {
	pe := p.peek()
	if !pe.has {
		return 0, false
	}
	return pe.event.Time(), true
}

// GetNext advances the winning cursor by one step and returns the event,
// with modulation applied.
func (p *EventProvider) GetNext() (Event, bool) {
	pe := p.peek()
	p.amplitudePosition = pe.ampPosition
	p.frequencyPosition = pe.freqPosition
	return pe.event, pe.has
}

type peekedEvent struct {
	event        Event
	has          bool
	ampPosition  envelopePosition
	freqPosition envelopePosition
}

// peek chooses between the amplitude and frequency cursors' next events by
// lower time, amplitude winning ties, and applies modulation to whichever
// it selects.
func (p *EventProvider) peek() peekedEvent {
	ampEvent, ampHas, newAmpPos := p.peekAmplitudeEvent(p.amplitudePosition)

	var freqEvent Event
	var freqHas bool
	newFreqPos := p.frequencyPosition
	ampAtEnd := p.amplitudePosition.kind == posNone || p.amplitudePosition.kind == posAfterLast
	if !ampAtEnd {
		freqEvent, freqHas, newFreqPos = p.peekFrequencyEvent(p.frequencyPosition)
	} else {
		freqHas = false
		newFreqPos = envelopePosition{kind: posNone}
	}

	switch {
	case !ampHas && !freqHas:
		return peekedEvent{has: false, ampPosition: envelopePosition{kind: posNone}, freqPosition: envelopePosition{kind: posNone}}
	case ampHas && !freqHas:
		return peekedEvent{event: applyModulation(ampEvent, p.ampMul, p.freqShift), has: true, ampPosition: newAmpPos, freqPosition: p.frequencyPosition}
	case !ampHas && freqHas:
		return peekedEvent{event: applyModulation(freqEvent, p.ampMul, p.freqShift), has: true, ampPosition: p.amplitudePosition, freqPosition: newFreqPos}
	default:
		if ampEvent.Time() <= freqEvent.Time() {
			return peekedEvent{event: applyModulation(ampEvent, p.ampMul, p.freqShift), has: true, ampPosition: newAmpPos, freqPosition: p.frequencyPosition}
		}
		return peekedEvent{event: applyModulation(freqEvent, p.ampMul, p.freqShift), has: true, ampPosition: p.amplitudePosition, freqPosition: newFreqPos}
	}
}

func (p *EventProvider) peekAmplitudeEvent(pos envelopePosition) (Event, bool, envelopePosition) {
	env := p.clip.Signals.Continuous.Envelopes.Amplitude
	switch pos.kind {
	case posBeforeInitial:
		if len(pos.pending) > 0 {
			ev := pos.pending[0]
			return ev, true, envelopePosition{kind: posBeforeInitial, pending: pos.pending[1:], initialIndex: pos.initialIndex}
		}
		return p.peekAmplitudeEvent(envelopePosition{kind: posInClip, index: pos.initialIndex})

	case posInClip:
		if pos.index >= len(env) || pos.index+1 >= len(env) {
			return p.peekAmplitudeEvent(envelopePosition{kind: posAfterLast})
		}
		return amplitudeRampEvent(env[pos.index], env[pos.index+1]), true, envelopePosition{kind: posInClip, index: pos.index + 1}

	case posAfterLast:
		if len(env) == 0 {
			return Event{}, false, envelopePosition{kind: posNone}
		}
		last := env[len(env)-1]
		return amplitudeRampEvent(last, datamodel.AmplitudeBreakpoint{Time: last.Time, Amplitude: 0}), true, envelopePosition{kind: posNone}

	default: // posNone
		return Event{}, false, envelopePosition{kind: posNone}
	}
}

func (p *EventProvider) peekFrequencyEvent(pos envelopePosition) (Event, bool, envelopePosition) {
	env := p.clip.Signals.Continuous.Envelopes.Frequency
	switch pos.kind {
	case posBeforeInitial:
		if len(pos.pending) > 0 {
			ev := pos.pending[0]
			return ev, true, envelopePosition{kind: posBeforeInitial, pending: pos.pending[1:], initialIndex: pos.initialIndex}
		}
		return p.peekFrequencyEvent(envelopePosition{kind: posInClip, index: pos.initialIndex})

	case posInClip:
		if len(env) == 0 || pos.index >= len(env) || pos.index+1 >= len(env) {
			return Event{}, false, envelopePosition{kind: posNone}
		}
		return frequencyRampEvent(env[pos.index], env[pos.index+1]), true, envelopePosition{kind: posInClip, index: pos.index + 1}

	default: // posAfterLast never used for frequency, posNone
		return Event{}, false, envelopePosition{kind: posNone}
	}
}

func amplitudeRampEvent(current, next datamodel.AmplitudeBreakpoint) Event {
	emph := noEmphasis()
	if current.Emphasis != nil {
		emph = Emphasis{Amplitude: current.Emphasis.Amplitude, Frequency: current.Emphasis.Frequency}
	}
	return Event{Kind: EventAmplitude, Amplitude: AmplitudeEvent{
		Time: current.Time, Duration: next.Time - current.Time, Amplitude: next.Amplitude, Emphasis: emph,
	}}
}

func frequencyRampEvent(current, next datamodel.FrequencyBreakpoint) Event {
	return Event{Kind: EventFrequency, Frequency: FrequencyEvent{
		Time: current.Time, Duration: next.Time - current.Time, Frequency: next.Frequency,
	}}
}

func interpolateAmplitudeAt(prev, next datamodel.AmplitudeBreakpoint, t float32) datamodel.AmplitudeBreakpoint {
	frac := (t - prev.Time) / (next.Time - prev.Time)
	return datamodel.AmplitudeBreakpoint{Time: t, Amplitude: prev.Amplitude + frac*(next.Amplitude-prev.Amplitude)}
}

func interpolateFrequencyAt(prev, next datamodel.FrequencyBreakpoint, t float32) datamodel.FrequencyBreakpoint {
	frac := (t - prev.Time) / (next.Time - prev.Time)
	return datamodel.FrequencyBreakpoint{Time: t, Frequency: prev.Frequency + frac*(next.Frequency-prev.Frequency)}
}

func absf32(v float32) float32 {
	return float32(math.Abs(float64(v)))
}
