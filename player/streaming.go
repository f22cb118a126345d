package player

import (
	"log"
	"sync/atomic"
	"time"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/internal/telemetry"
)

// hugeWait is used as the command-channel receive timeout when nothing is
// scheduled to play; it is large enough to never fire in practice but
// still lets the worker wake up periodically rather than blocking forever.
const hugeWait = 24 * time.Hour

type streamLoad struct {
	clip *datamodel.Clip
}
type streamUnload struct{}
type streamPlay struct{}
type streamStop struct{}
type streamSeek struct{ t float32 }
type streamSetAmpMul struct{ x float32 }
type streamSetFreqShift struct{ x float32 }
type streamLoop struct{ enabled bool }
type streamQuit struct{}

// StreamingScheduler is the C8 event-based backend: a single worker
// goroutine owns an EventProvider and drives a StreamingHost by computing
// each event's real-time deadline and sleeping until it.
type StreamingScheduler struct {
	host     StreamingHost
	reporter telemetry.Reporter
	commands chan interface{}
	done     chan struct{}
	onWorker int32 // atomic; 1 while the worker goroutine is inside a host callback
}

// NewStreamingScheduler starts the worker goroutine immediately. Callback
// failures are only logged until SetReporter installs a telemetry backend.
func NewStreamingScheduler(host StreamingHost) *StreamingScheduler {
	s := &StreamingScheduler{
		host:     host,
		reporter: telemetry.NoopReporter{},
		commands: make(chan interface{}, 32),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

// SetReporter installs the telemetry backend used to report host-callback
// failures. Safe to call before the first command is sent.
func (s *StreamingScheduler) SetReporter(r telemetry.Reporter) {
	s.reporter = r
}

func (s *StreamingScheduler) send(cmd interface{}) error {
	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrSchedulerClosed
	}
}

func (s *StreamingScheduler) Load(clip *datamodel.Clip) error     { return s.send(streamLoad{clip: clip}) }
func (s *StreamingScheduler) Unload() error                       { return s.send(streamUnload{}) }
func (s *StreamingScheduler) Play() error                         { return s.send(streamPlay{}) }
func (s *StreamingScheduler) Stop() error                         { return s.send(streamStop{}) }
func (s *StreamingScheduler) Seek(t float32) error                { return s.send(streamSeek{t: t}) }
func (s *StreamingScheduler) SetAmplitudeMultiplication(x float32) error {
	return s.send(streamSetAmpMul{x: x})
}
func (s *StreamingScheduler) SetFrequencyShift(x float32) error {
	return s.send(streamSetFreqShift{x: x})
}
func (s *StreamingScheduler) SetLooping(enabled bool) error { return s.send(streamLoop{enabled: enabled}) }

// Close stops the worker and waits for it to exit, unless the caller is the
// worker goroutine itself (reentrancy from a host callback), in which case
// it requests the quit and returns immediately to avoid deadlocking on its
// own join.
func (s *StreamingScheduler) Close() {
	select {
	case s.commands <- streamQuit{}:
	case <-s.done:
		return
	}
	if atomic.LoadInt32(&s.onWorker) == 1 {
		return
	}
	<-s.done
}

type streamState struct {
	provider  *EventProvider
	startTime *time.Time
	playDelay time.Duration
	looping   bool
	playing   bool
}

func (s *StreamingScheduler) run() {
	var st streamState
	s.host.OnThreadInit()

	for {
		wait := s.computeWait(&st)
		timer := time.NewTimer(wait)
		select {
		case cmd := <-s.commands:
			timer.Stop()
			if s.handle(&st, cmd) {
				close(s.done)
				return
			}
		case <-timer.C:
			s.emitNext(&st)
		}
	}
}

// computeWait returns how long the worker should block before emitting the
// next event, handling the loop/rewind transition when the provider has
// run dry while playing.
func (s *StreamingScheduler) computeWait(st *streamState) time.Duration {
	if !st.playing || st.provider == nil {
		return hugeWait
	}

	nextT, ok := st.provider.PeekNextTime()
	if !ok {
		if st.looping {
			st.provider.Seek(0)
			now := time.Now()
			st.startTime = &now
			nextT, ok = st.provider.PeekNextTime()
			if !ok {
				st.playing = false
				return hugeWait
			}
		} else {
			st.provider.Seek(0)
			st.playing = false
			st.startTime = nil
			return hugeWait
		}
	}

	playhead := playheadSeconds(st.startTime)
	remaining := secondsToDuration(nextT - playhead)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

func (s *StreamingScheduler) emitNext(st *streamState) {
	if st.provider == nil {
		return
	}
	if ev, ok := st.provider.GetNext(); ok {
		s.emit(ev)
	}
}

// handle dispatches one command and reports whether the worker should exit.
func (s *StreamingScheduler) handle(st *streamState, cmd interface{}) bool {
	switch c := cmd.(type) {
	case streamLoad:
		s.stopAndEmitZero(st)
		st.provider = NewEventProvider(c.clip)
		st.playing = false
		st.startTime = nil
		st.playDelay = 0

	case streamUnload:
		s.stopAndEmitZero(st)
		st.provider = nil
		st.playing = false
		st.startTime = nil

	case streamPlay:
		if st.provider == nil || st.playing {
			return false
		}
		now := time.Now()
		if nextT, ok := st.provider.PeekNextTime(); ok {
			start := now.Add(-secondsToDuration(nextT)).Add(st.playDelay)
			st.startTime = &start
		} else {
			st.startTime = &now
		}
		st.playing = true

	case streamStop:
		if st.provider == nil || !st.playing {
			return false
		}
		s.stopAndEmitZero(st)
		st.provider.Seek(0)
		st.startTime = nil
		st.playing = false

	case streamSeek:
		s.doSeek(st, c.t)

	case streamSetAmpMul:
		if st.provider != nil {
			st.provider.SetAmplitudeMultiplication(c.x)
			if st.playing {
				s.doSeek(st, playheadSeconds(st.startTime))
			}
		}

	case streamSetFreqShift:
		if st.provider != nil {
			st.provider.SetFrequencyShift(c.x)
			if st.playing {
				s.doSeek(st, playheadSeconds(st.startTime))
			}
		}

	case streamLoop:
		st.looping = c.enabled

	case streamQuit:
		return true
	}
	return false
}

// doSeek applies a seek to the provider and, if an amplitude ramp has
// actually started (as opposed to still waiting out a pending pre-play
// delay from an earlier negative seek) and the target time is negative,
// cuts it off immediately rather than letting the motor hold its level
// through the wait for time 0.
func (s *StreamingScheduler) doSeek(st *streamState, t float32) {
	if st.provider == nil {
		return
	}
	started := st.playing && st.startTime != nil && time.Now().After(*st.startTime)
	if t < 0 && started {
		s.emit(immediateStopEvent())
	}
	st.provider.Seek(t)
	if st.playing {
		now := time.Now()
		start := now.Add(-secondsToDuration(t))
		st.startTime = &start
	} else {
		st.playDelay = secondsToDuration(max32(-t, 0))
	}
}

func (s *StreamingScheduler) stopAndEmitZero(st *streamState) {
	if st.provider == nil {
		return
	}
	st.provider.Stop()
	if ev, ok := st.provider.GetNext(); ok {
		s.emit(ev)
	}
}

func (s *StreamingScheduler) emit(ev Event) {
	atomic.StoreInt32(&s.onWorker, 1)
	defer atomic.StoreInt32(&s.onWorker, 0)

	var err error
	switch ev.Kind {
	case EventAmplitude:
		a := ev.Amplitude
		err = s.host.OnAmplitudeEvent(a.Time, a.Duration, a.Amplitude, a.Emphasis.Amplitude, a.Emphasis.Frequency)
	case EventFrequency:
		f := ev.Frequency
		err = s.host.OnFrequencyEvent(f.Time, f.Duration, f.Frequency)
	}
	if err != nil {
		log.Printf("player: streaming host callback failed: %v", err)
		s.reporter.CallbackFailure("streaming", err)
	}
}

func playheadSeconds(startTime *time.Time) float32 {
	if startTime == nil {
		return 0
	}
	return float32(time.Since(*startTime).Seconds())
}

func secondsToDuration(s float32) time.Duration {
	return time.Duration(float64(s) * float64(time.Second))
}
