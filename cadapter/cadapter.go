// Package cadapter documents and implements the thin boundary between a
// foreign host (C, JNI, or a scripting VM) and a player.Controller. It is
// the Go side of the C11 contract: everything host-specific (marshalling
// host arrays, pinning host callback objects, translating errors into the
// host's own convention) lives outside this package; cadapter only owns
// the handle table and the per-handle last-error buffer described below.
//
// The package is intentionally thin. A real cgo or purego binding built on
// top of it is out of scope here; what matters is the contract a binding
// would need to satisfy.
package cadapter

import (
	"fmt"
	"sync"

	"github.com/Lofelt/NiceVibrations/datamodel"
	"github.com/Lofelt/NiceVibrations/player"
)

// Status is the three-valued result a foreign caller gets from Load,
// mirroring datamodel.VersionSupport collapsed to what a C caller can
// branch on without touching Go types.
type Status int32

const (
	StatusOK Status = iota
	StatusPartial
	StatusErr
)

// Handle is an opaque reference a foreign caller holds instead of a Go
// pointer, so the Go runtime's garbage collector never has to reason
// about pointers living in foreign memory.
type Handle uint64

type entry struct {
	controller *player.Controller
	lastError  string
}

var (
	mu      sync.Mutex
	handles = map[Handle]*entry{}
	nextID  Handle = 1
)

// CreateStreaming and CreateWaveform are the create half of capability 1:
// a create/destroy pair returning an opaque controller handle. The host
// passes its own callback adapter satisfying player.StreamingHost or
// player.WaveformHost; pinning that adapter for the handle's lifetime is
// the host binding's responsibility, not this package's.
func CreateStreaming(host player.StreamingHost) Handle {
	return register(player.NewStreamingController(host))
}

func CreateWaveform(host player.WaveformHost) Handle {
	return register(player.NewWaveformController(host))
}

func register(c *player.Controller) Handle {
	mu.Lock()
	defer mu.Unlock()
	id := nextID
	nextID++
	handles[id] = &entry{controller: c}
	return id
}

// Destroy closes the controller's worker and releases the handle. Calling
// it twice, or with an unknown handle, is a no-op.
func Destroy(h Handle) {
	mu.Lock()
	e, ok := handles[h]
	delete(handles, h)
	mu.Unlock()
	if ok {
		e.controller.Close()
	}
}

// Load implements capability 2: load(handle, bytes, len) -> status. The
// byte slice is assumed to already be a Go-owned copy of the host's
// buffer; converting a raw host pointer into that copy, including the
// "load direct from byte pointer" fast path for hosts whose
// managed-to-native conversion is expensive, is the binding's job.
func Load(h Handle, data []byte) Status {
	e, ok := lookup(h)
	if !ok {
		return StatusErr
	}
	support, err := e.controller.Load(data)
	if err != nil {
		setError(e, err)
		return StatusErr
	}
	if support != datamodel.Full {
		return StatusPartial
	}
	return StatusOK
}

// Play, Stop, Seek, SetAmplitudeMultiplication, SetFrequencyShift, and
// SetLooping are capability 3's mutators. Each returns false and records
// a last-error string on failure instead of returning a Go error value,
// since the foreign side cannot unwrap one.
func Play(h Handle) bool   { return call(h, func(c *player.Controller) error { return c.Play() }) }
func Stop(h Handle) bool   { return call(h, func(c *player.Controller) error { return c.Stop() }) }
func Unload(h Handle) bool { return call(h, func(c *player.Controller) error { return c.Unload() }) }

func Seek(h Handle, t float32) bool {
	return call(h, func(c *player.Controller) error { return c.Seek(t) })
}

func SetAmplitudeMultiplication(h Handle, x float32) bool {
	return call(h, func(c *player.Controller) error { return c.SetAmplitudeMultiplication(x) })
}

func SetFrequencyShift(h Handle, x float32) bool {
	return call(h, func(c *player.Controller) error { return c.SetFrequencyShift(x) })
}

func SetLooping(h Handle, enabled bool) bool {
	return call(h, func(c *player.Controller) error { return c.SetLooping(enabled) })
}

// GetClipDuration returns 0 for an unknown handle, matching Controller's
// own zero-value-when-unloaded behavior.
func GetClipDuration(h Handle) float32 {
	e, ok := lookup(h)
	if !ok {
		return 0
	}
	return e.controller.GetClipDuration()
}

// LastError implements capability 4: a thread-local last-error buffer the
// host queries by length then by copy. cadapter keeps one buffer per
// handle rather than per OS thread, since Go goroutines have no stable
// thread identity to key on; a binding that needs true thread-local
// semantics should keep its own buffer and populate it from the bool
// returned by the mutators above.
func LastError(h Handle) string {
	e, ok := lookup(h)
	if !ok {
		return ""
	}
	mu.Lock()
	defer mu.Unlock()
	return e.lastError
}

func lookup(h Handle) (*entry, bool) {
	mu.Lock()
	defer mu.Unlock()
	e, ok := handles[h]
	return e, ok
}

func call(h Handle, fn func(*player.Controller) error) bool {
	e, ok := lookup(h)
	if !ok {
		return false
	}
	if err := fn(e.controller); err != nil {
		setError(e, err)
		return false
	}
	return true
}

func setError(e *entry, err error) {
	mu.Lock()
	defer mu.Unlock()
	e.lastError = fmt.Sprint(err)
}
