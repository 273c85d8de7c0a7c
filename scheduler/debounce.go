package scheduler

import "time"

// Debouncer collapses bursts of triggers into one call carrying the last value.
// It must only be used from the event loop.
type Debouncer[T any] struct {
	sched   Scheduler
	wait    time.Duration
	fn      func(T)
	timer   Timer
	last    T
	pending bool
}

// NewDebouncer returns a Debouncer calling fn once wait has passed without a new trigger.
func NewDebouncer[T any](s Scheduler, wait time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{sched: s, wait: wait, fn: fn}
}

// Trigger records v and restarts the quiet period.
func (d *Debouncer[T]) Trigger(v T) {
	d.last = v
	d.pending = true
	d.stop()
	d.timer = d.sched.AfterFunc(d.wait, d.fire)
}

// Pending reports whether a call is waiting for the quiet period to end.
func (d *Debouncer[T]) Pending() bool {
	return d.pending
}

// Flush runs a pending call immediately.
func (d *Debouncer[T]) Flush() {
	d.stop()
	d.fire()
}

// Cancel drops a pending call.
func (d *Debouncer[T]) Cancel() {
	d.stop()
	d.pending = false
}

func (d *Debouncer[T]) stop() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

func (d *Debouncer[T]) fire() {
	if !d.pending {
		return
	}
	d.pending = false
	d.timer = nil
	d.fn(d.last)
}
