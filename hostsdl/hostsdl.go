// Package hostsdl adapts an SDL2 haptic rumble device to
// player.WaveformHost, so a desktop build without a native haptics SDK
// can still drive a gamepad or steering-wheel rumble motor from a
// loaded clip. It is built only with the sdlhost tag, since it pulls in
// cgo through veandco/go-sdl2.
//go:build sdlhost

package hostsdl

import (
	"fmt"
	"sync"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

// Device wraps an SDL haptic device opened for simple rumble effects and
// implements player.WaveformHost by replaying each (duration, amplitude)
// cell as a RumblePlay call timed by a background goroutine.
type Device struct {
	haptic *sdl.Haptic

	mu         sync.Mutex
	cancel     chan struct{}
	playing    bool
	timingsMS  []int64
	amplitudes []int32
	loop       bool
}

// Open initializes SDL's haptic subsystem and opens the joystick at the
// given device index for simple rumble playback.
func Open(deviceIndex int) (*Device, error) {
	if err := sdl.InitSubSystem(sdl.INIT_HAPTIC | sdl.INIT_JOYSTICK); err != nil {
		return nil, fmt.Errorf("hostsdl: init: %w", err)
	}

	joystick := sdl.JoystickOpen(deviceIndex)
	if joystick == nil {
		sdl.QuitSubSystem(sdl.INIT_HAPTIC | sdl.INIT_JOYSTICK)
		return nil, fmt.Errorf("hostsdl: no joystick at index %d", deviceIndex)
	}

	haptic := sdl.HapticOpenFromJoystick(joystick)
	if haptic == nil {
		sdl.QuitSubSystem(sdl.INIT_HAPTIC | sdl.INIT_JOYSTICK)
		return nil, fmt.Errorf("hostsdl: device %d has no haptic support", deviceIndex)
	}

	if err := haptic.RumbleInit(); err != nil {
		haptic.Close()
		sdl.QuitSubSystem(sdl.INIT_HAPTIC | sdl.INIT_JOYSTICK)
		return nil, fmt.Errorf("hostsdl: rumble init: %w", err)
	}

	return &Device{haptic: haptic}, nil
}

// Close stops any running playback and releases the SDL haptic device.
func (d *Device) Close() {
	d.stopLoop()
	d.haptic.Close()
	sdl.QuitSubSystem(sdl.INIT_HAPTIC | sdl.INIT_JOYSTICK)
}

// LoadClip stores the waveform to be played and starts it paused; PlayClip
// starts the background loop that replays cells against the rumble motor.
func (d *Device) LoadClip(timingsMS []int64, amplitudes []int32, loop bool) error {
	d.stopLoop()
	d.mu.Lock()
	d.timingsMS = append([]int64(nil), timingsMS...)
	d.amplitudes = append([]int32(nil), amplitudes...)
	d.loop = loop
	d.mu.Unlock()
	return nil
}

func (d *Device) PlayClip() error {
	d.mu.Lock()
	timingsMS := d.timingsMS
	amplitudes := d.amplitudes
	loop := d.loop
	d.mu.Unlock()

	d.startLoop(timingsMS, amplitudes, loop)
	return nil
}

func (d *Device) StopClip() error {
	d.stopLoop()
	return d.haptic.RumbleStop()
}

func (d *Device) UnloadClip() error {
	d.stopLoop()
	d.mu.Lock()
	d.timingsMS = nil
	d.amplitudes = nil
	d.mu.Unlock()
	return d.haptic.RumbleStop()
}

func (d *Device) SeekClip(timingsMS []int64, amplitudes []int32) error {
	d.mu.Lock()
	wasPlaying := d.playing
	loop := d.loop
	d.timingsMS = append([]int64(nil), timingsMS...)
	d.amplitudes = append([]int32(nil), amplitudes...)
	d.mu.Unlock()

	if !wasPlaying {
		return nil
	}
	d.stopLoop()
	d.startLoop(timingsMS, amplitudes, loop)
	return nil
}

func (d *Device) startLoop(timingsMS []int64, amplitudes []int32, loop bool) {
	d.stopLoop()
	if len(timingsMS) == 0 {
		return
	}

	cancel := make(chan struct{})
	d.mu.Lock()
	d.cancel = cancel
	d.playing = true
	d.mu.Unlock()

	go d.run(timingsMS, amplitudes, loop, cancel)
}

func (d *Device) stopLoop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.playing = false
	d.mu.Unlock()
	if cancel != nil {
		close(cancel)
	}
}

// run replays the waveform's cells as a sequence of RumblePlay calls,
// scaling the clip's 0..255 amplitude into SDL's 0..1 rumble strength.
func (d *Device) run(timingsMS []int64, amplitudes []int32, loop bool, cancel chan struct{}) {
	for {
		for i, ms := range timingsMS {
			strength := float32(amplitudes[i]) / 255.0
			if err := d.haptic.RumblePlay(strength, uint32(ms)); err != nil {
				return
			}
			select {
			case <-time.After(time.Duration(ms) * time.Millisecond):
			case <-cancel:
				d.haptic.RumbleStop()
				return
			}
		}
		if !loop {
			break
		}
	}
	d.mu.Lock()
	d.playing = false
	d.mu.Unlock()
}
