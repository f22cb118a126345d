package player

import "errors"

// ErrNoClipLoaded is returned by a Controller mutator that requires a
// loaded clip when none has been loaded yet.
var ErrNoClipLoaded = errors.New("player: no clip loaded")

// ErrInvalidModulation is returned when a modulation parameter is outside
// its legal range or non-finite.
var ErrInvalidModulation = errors.New("player: modulation parameter out of range")

// ErrSchedulerClosed is returned when a command cannot be enqueued because
// the worker has already exited.
var ErrSchedulerClosed = errors.New("player: scheduler worker is no longer running")

// ErrFrequencyShiftUnsupported is returned by WaveformScheduler.SetFrequencyShift:
// a quantized waveform has no separate frequency channel to shift.
var ErrFrequencyShiftUnsupported = errors.New("player: frequency shift is not supported by the waveform backend")
