package player

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/internal/telemetry"
)

// backend is satisfied by both StreamingScheduler and WaveformScheduler,
// letting Controller stay agnostic of which one it owns.
type backend interface {
	Load(clip *datamodel.Clip) error
	Unload() error
	Play() error
	Stop() error
	Seek(t float32) error
	SetAmplitudeMultiplication(x float32) error
	SetFrequencyShift(x float32) error
	SetLooping(enabled bool) error
	Close()
}

// Controller is the C10 facade: it owns exactly one backend (streaming or
// waveform), picked at construction, and enforces the preconditions the
// spec assigns to the facade rather than the worker.
type Controller struct {
	backend      backend
	clipLoaded   bool
	clipDuration float32
	sessionID    uuid.UUID
}

// NewStreamingController creates a Controller backed by the event-based
// scheduler.
func NewStreamingController(host StreamingHost) *Controller {
	return &Controller{backend: NewStreamingScheduler(host)}
}

// NewWaveformController creates a Controller backed by the quantized
// waveform scheduler.
func NewWaveformController(host WaveformHost) *Controller {
	return &Controller{backend: NewWaveformScheduler(host)}
}

// Load validates and parses bytes as a clip and hands it to the backend.
// On success, GetClipDuration reflects the new clip's duration.
func (c *Controller) Load(data []byte) (datamodel.VersionSupport, error) {
	result, err := datamodel.Load(data)
	if err != nil {
		return 0, fmt.Errorf("player: load: %w", err)
	}
	if err := c.backend.Load(result.Clip); err != nil {
		return 0, fmt.Errorf("player: load: %w", err)
	}
	c.clipLoaded = true
	c.clipDuration = result.Clip.Duration()
	c.sessionID = uuid.New()
	return result.Support, nil
}

// SessionID identifies the current load->play->stop lifecycle, so a host
// can correlate scheduler logs and telemetry events across one clip's
// playback. It is the zero UUID until the first successful Load.
func (c *Controller) SessionID() uuid.UUID {
	return c.sessionID
}

func (c *Controller) Play() error {
	if !c.clipLoaded {
		return ErrNoClipLoaded
	}
	return c.backend.Play()
}

// Stop is a no-op when no clip is loaded, unlike the other mutators.
func (c *Controller) Stop() error {
	if !c.clipLoaded {
		return nil
	}
	return c.backend.Stop()
}

func (c *Controller) Unload() error {
	if !c.clipLoaded {
		return nil
	}
	err := c.backend.Unload()
	c.clipLoaded = false
	c.clipDuration = 0
	return err
}

func (c *Controller) Seek(t float32) error {
	if !c.clipLoaded {
		return ErrNoClipLoaded
	}
	return c.backend.Seek(t)
}

// SetAmplitudeMultiplication requires a finite, non-negative factor.
func (c *Controller) SetAmplitudeMultiplication(x float32) error {
	if !c.clipLoaded {
		return ErrNoClipLoaded
	}
	if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) || x < 0 {
		return ErrInvalidModulation
	}
	return c.backend.SetAmplitudeMultiplication(x)
}

// SetFrequencyShift requires a finite value in [-1, 1].
func (c *Controller) SetFrequencyShift(x float32) error {
	if !c.clipLoaded {
		return ErrNoClipLoaded
	}
	if math.IsNaN(float64(x)) || x < -1 || x > 1 {
		return ErrInvalidModulation
	}
	return c.backend.SetFrequencyShift(x)
}

func (c *Controller) SetLooping(enabled bool) error {
	if !c.clipLoaded {
		return ErrNoClipLoaded
	}
	return c.backend.SetLooping(enabled)
}

// GetClipDuration returns the last loaded clip's duration in seconds, or 0
// if no clip is loaded.
func (c *Controller) GetClipDuration() float32 {
	return c.clipDuration
}

// Close releases the backend's worker goroutine.
func (c *Controller) Close() {
	c.backend.Close()
}

// reporterSetter is implemented by backends that can report host-callback
// failures through telemetry; NullBackend does not, since it never calls a
// host.
type reporterSetter interface {
	SetReporter(r telemetry.Reporter)
}

// SetReporter installs the telemetry backend used to report host-callback
// failures, if the underlying backend supports it.
func (c *Controller) SetReporter(r telemetry.Reporter) {
	if rs, ok := c.backend.(reporterSetter); ok {
		rs.SetReporter(r)
	}
}
