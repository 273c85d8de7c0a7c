// Package device holds the process-wide display resources a lesson may take: the
// screen wake lock and the forced landscape orientation. Both are scoped handles
// whose release is idempotent so it can sit on every exit path.
package device

import (
	"errors"

	"github.com/copypastelearn/cpl/log"
)

// ErrUnsupported is returned when the platform cannot perform the request.
var ErrUnsupported = errors.New("not supported on this device")

// KeepAwaker inhibits the screensaver.
type KeepAwaker interface {
	SetKeepAwake(on bool) error
}

// Orienter forces the landscape (fullscreen) presentation.
type Orienter interface {
	SetFullscreen(on bool) error
}

// WakeLock keeps the screen on while held.
type WakeLock struct {
	backend KeepAwaker
	held    bool
}

// NewWakeLock returns a WakeLock. A nil backend makes every call a no-op.
func NewWakeLock(backend KeepAwaker) *WakeLock {
	return &WakeLock{backend: backend}
}

// Held reports whether the lock is currently taken.
func (w *WakeLock) Held() bool {
	return w.held
}

// Sync acquires or releases the lock to match want.
func (w *WakeLock) Sync(want bool) {
	if want {
		w.Acquire()
	} else {
		w.Release()
	}
}

// Acquire takes the lock. A failed acquisition is retried on the next call.
func (w *WakeLock) Acquire() {
	if w.held || w.backend == nil {
		return
	}
	if err := w.backend.SetKeepAwake(true); err != nil {
		log.Warnf("device: wake lock not acquired: %v", err)
		return
	}
	w.held = true
}

// Release drops the lock. It is safe to call when not held.
func (w *WakeLock) Release() {
	if !w.held {
		return
	}
	w.held = false
	if err := w.backend.SetKeepAwake(false); err != nil {
		log.Warnf("device: wake lock release failed: %v", err)
	}
}

// Orientation toggles between the default and the forced landscape presentation.
type Orientation struct {
	backend Orienter
	locked  bool
}

// NewOrientation returns an Orientation. A nil backend means orientation control is unsupported.
func NewOrientation(backend Orienter) *Orientation {
	return &Orientation{backend: backend}
}

// Supported reports whether the control should be offered at all.
func (o *Orientation) Supported() bool {
	return o.backend != nil
}

// Locked reports whether landscape is forced.
func (o *Orientation) Locked() bool {
	return o.locked
}

// Toggle flips the forced orientation.
func (o *Orientation) Toggle() error {
	if !o.Supported() {
		return ErrUnsupported
	}
	if err := o.backend.SetFullscreen(!o.locked); err != nil {
		return err
	}
	o.locked = !o.locked
	return nil
}

// Unlock returns to the default orientation. It is safe to call when not locked.
func (o *Orientation) Unlock() {
	if !o.locked {
		return
	}
	o.locked = false
	if err := o.backend.SetFullscreen(false); err != nil {
		log.Warnf("device: orientation unlock failed: %v", err)
	}
}
