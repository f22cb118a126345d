package player

// StreamingHost receives event callbacks from a StreamingScheduler. All
// three methods are invoked on the scheduler's worker goroutine. A non-nil
// error from On* is logged by the scheduler and playback continues; it is
// never propagated to the caller that started playback.
type StreamingHost interface {
	OnAmplitudeEvent(time, duration, amplitude, emphasisAmplitude, emphasisFrequency float32) error
	OnFrequencyEvent(time, duration, frequency float32) error
	OnThreadInit()
}

// WaveformHost receives quantized waveform callbacks from a
// WaveformScheduler, also invoked on its worker goroutine.
type WaveformHost interface {
	LoadClip(timingsMS []int64, amplitudes []int32, loop bool) error
	PlayClip() error
	StopClip() error
	UnloadClip() error
	SeekClip(timingsMS []int64, amplitudes []int32) error
}
