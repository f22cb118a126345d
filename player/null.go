package player

import "github.com/Lofelt/NiceVibrations/datamodel"

// NullBackend is a backend that does nothing: it tracks only whether a
// clip is loaded, for platforms with no haptic engine and for tests that
// exercise Controller's precondition logic without a real worker.
type NullBackend struct {
	loaded bool
}

// NewNullController creates a Controller backed by NullBackend.
func NewNullController() *Controller {
	return &Controller{backend: &NullBackend{}}
}

func (b *NullBackend) Load(clip *datamodel.Clip) error { b.loaded = true; return nil }
func (b *NullBackend) Unload() error                   { b.loaded = false; return nil }

func (b *NullBackend) Play() error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) Stop() error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) Seek(t float32) error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) SetAmplitudeMultiplication(x float32) error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) SetFrequencyShift(x float32) error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) SetLooping(enabled bool) error {
	if !b.loaded {
		return ErrNoClipLoaded
	}
	return nil
}

func (b *NullBackend) Close() {}
