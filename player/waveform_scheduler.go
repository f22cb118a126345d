package player

import (
	"log"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/internal/telemetry"
	"github.com/Lofelt/NiceVibrations/transform"
)

// waveformQBits and waveformMinTimeStep match the quantization depth and
// resampling step used to build a waveform for a backend that cannot play
// the clip natively.
const (
	waveformQBits       = 8
	waveformMinTimeStep = 0.025

	// waveformDuckingAmplitude is set explicitly as the ducking level on
	// transform.DefaultEmphasisParams's result. It is kept just above zero:
	// at amplitude 0 the motor turns off, and turning it back on in time for
	// the next cell would skew the waveform's timings.
	waveformDuckingAmplitude = float32(1.1) / float32(transform.MaxAmplitude)
)

type waveLoad struct{ clip *datamodel.Clip }
type waveUnload struct{}
type wavePlay struct{}
type waveStop struct{}
type waveSeek struct{ t float32 }
type waveSetAmpMul struct{ x float32 }
type waveLoop struct{ enabled bool }
type waveQuit struct{}

// WaveformScheduler is the C9 quantized backend: it pre-converts the whole
// clip into a (duration_ms, amplitude) buffer via the emphasis,
// interpolation, and waveform-construction passes, and reloads that buffer
// whenever the clip, seek position, or amplitude multiplier changes.
type WaveformScheduler struct {
	host     WaveformHost
	reporter telemetry.Reporter
	commands chan interface{}
	done     chan struct{}
}

func NewWaveformScheduler(host WaveformHost) *WaveformScheduler {
	s := &WaveformScheduler{
		host:     host,
		reporter: telemetry.NoopReporter{},
		commands: make(chan interface{}, 32),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// SetReporter installs the telemetry backend used to report host-callback
// failures.
func (s *WaveformScheduler) SetReporter(r telemetry.Reporter) {
	s.reporter = r
}

func (s *WaveformScheduler) send(cmd interface{}) error {
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrSchedulerClosed
	}
}

func (s *WaveformScheduler) Load(clip *datamodel.Clip) error { return s.send(waveLoad{clip: clip}) }
func (s *WaveformScheduler) Unload() error                   { return s.send(waveUnload{}) }
func (s *WaveformScheduler) Play() error                     { return s.send(wavePlay{}) }
func (s *WaveformScheduler) Stop() error                     { return s.send(waveStop{}) }
func (s *WaveformScheduler) Seek(t float32) error            { return s.send(waveSeek{t: t}) }
func (s *WaveformScheduler) SetAmplitudeMultiplication(x float32) error {
	return s.send(waveSetAmpMul{x: x})
}
func (s *WaveformScheduler) SetLooping(enabled bool) error { return s.send(waveLoop{enabled: enabled}) }

// SetFrequencyShift is not supported by the waveform backend: there is no
// per-cell frequency channel to shift.
func (s *WaveformScheduler) SetFrequencyShift(float32) error {
	return ErrFrequencyShiftUnsupported
}

func (s *WaveformScheduler) Close() {
	select {
	case s.commands <- waveQuit{}:
	case <-s.done:
		return
	}
	<-s.done
}

type waveState struct {
	originalClip      *datamodel.Clip
	originalWaveform  *transform.Waveform
	ampMul            float32
	looping           bool
}

func (s *WaveformScheduler) run() {
	var st waveState
	st.ampMul = 1.0

	for cmd := range s.commands {
		if s.handle(&st, cmd) {
			break
		}
	}
	close(s.done)
}

func (s *WaveformScheduler) handle(st *waveState, cmd interface{}) bool {
	switch c := cmd.(type) {
	case waveLoad:
		st.ampMul = 1.0
		st.looping = false
		st.originalClip = c.clip
		w := buildWaveform(c.clip)
		st.originalWaveform = &w
		s.logErr("load", s.host.LoadClip(w.TimingsMS, w.Amplitudes, st.looping))

	case waveUnload:
		st.originalClip = nil
		st.originalWaveform = nil
		s.logErr("unload", s.host.UnloadClip())

	case wavePlay:
		s.logErr("play", s.host.PlayClip())

	case waveStop:
		s.logErr("stop", s.host.StopClip())

	case waveSeek:
		t := max32(c.t, 0)
		if st.looping || st.originalClip == nil {
			return false
		}
		truncated, err := datamodel.TruncateBefore(st.originalClip, t)
		if err != nil {
			s.logErr("seek", s.host.SeekClip(nil, nil))
			return false
		}
		w := applyAmplitudeMultiplication(buildWaveform(truncated), st.ampMul)
		s.logErr("seek", s.host.SeekClip(w.TimingsMS, w.Amplitudes))

	case waveSetAmpMul:
		if st.originalWaveform == nil {
			return false
		}
		st.ampMul = c.x
		w := applyAmplitudeMultiplication(*st.originalWaveform, st.ampMul)
		s.logErr("set amplitude multiplication", s.host.LoadClip(w.TimingsMS, w.Amplitudes, st.looping))

	case waveLoop:
		st.looping = c.enabled
		if st.originalWaveform != nil {
			s.logErr("loop", s.host.LoadClip(st.originalWaveform.TimingsMS, st.originalWaveform.Amplitudes, st.looping))
		}

	case waveQuit:
		return true
	}
	return false
}

func (s *WaveformScheduler) logErr(op string, err error) {
	if err != nil {
		log.Printf("player: waveform host callback (%s) failed: %v", op, err)
		s.reporter.CallbackFailure(op, err)
	}
}

func buildWaveform(clip *datamodel.Clip) transform.Waveform {
	amp := clip.Signals.Continuous.Envelopes.Amplitude
	emphasisParams := transform.DefaultEmphasisParams()
	emphasisParams.DuckingAmplitude = waveformDuckingAmplitude
	emphasized := transform.Emphasize(amp, emphasisParams)
	interpolated := transform.Interpolate(emphasized, transform.InterpolateParams{
		QBits:       waveformQBits,
		MinTimeStep: waveformMinTimeStep,
	})
	return transform.BuildWaveform(interpolated, transform.MaxAmplitude)
}

// applyAmplitudeMultiplication scales every cell's amplitude and clamps it
// to [0, MaxAmplitude]. A negative factor is treated as a no-op, since a
// scheduler caller should have already rejected it at the facade.
func applyAmplitudeMultiplication(w transform.Waveform, factor float32) transform.Waveform {
	if factor < 0 {
		return w
	}
	amplitudes := make([]int32, len(w.Amplitudes))
	for i, a := range w.Amplitudes {
		scaled := int32(min32(float32(a)*factor, float32(transform.MaxAmplitude)))
		if scaled < 0 {
			scaled = 0
		}
		if scaled > transform.MaxAmplitude {
			scaled = transform.MaxAmplitude
		}
		amplitudes[i] = scaled
	}
	return transform.Waveform{TimingsMS: w.TimingsMS, Amplitudes: amplitudes}
}
