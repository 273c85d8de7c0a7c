// Package scheduler runs timers and background work on behalf of a single event loop.
//
// Callbacks handed to a Scheduler never run concurrently with each other: the real
// implementation posts them to the loop, the manual one runs them from Advance and Flush.
package scheduler

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/copypastelearn/cpl/log"
)

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call stopped it.
	Stop() bool
}

// Scheduler schedules work that is delivered back onto the event loop.
type Scheduler interface {
	// AfterFunc runs f on the loop once d has elapsed.
	AfterFunc(d time.Duration, f func()) Timer

	// Go runs task off the loop. A non-nil continuation returned by task is run on the loop.
	Go(task func() func())
}

// Loop is the wall-clock Scheduler.
type Loop struct {
	post  func(func())
	tasks sync.WaitGroup
}

// New returns a Scheduler that hands every callback to post, which must enqueue it on the event loop.
func New(post func(func())) *Loop {
	return &Loop{post: post}
}

const (
	pending int32 = iota
	fired
	stopped
)

type loopTimer struct {
	state atomic.Int32
	t     *time.Timer
}

func (t *loopTimer) Stop() bool {
	if !t.state.CompareAndSwap(pending, stopped) {
		return false
	}
	t.t.Stop()
	return true
}

// AfterFunc implements Scheduler. A timer stopped after its callback was posted but before the loop ran it does not fire.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.t = time.AfterFunc(d, func() {
		l.post(func() {
			if t.state.CompareAndSwap(pending, fired) {
				Protect(f)
			}
		})
	})
	return t
}

// Go implements Scheduler.
func (l *Loop) Go(task func() func()) {
	l.tasks.Add(1)
	go func() {
		var next func()
		Protect(func() { next = task() })
		l.tasks.Done()
		if next != nil {
			l.post(func() { Protect(next) })
		}
	}()
}

// Drain waits for background tasks started with Go, giving up when ctx is done.
// Continuations are still posted; once the loop is gone they are dropped by post.
func (l *Loop) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.tasks.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Protect runs f and logs a panic instead of propagating it.
func Protect(f func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("recovered from panic in scheduled callback: %v\n%s", r, debug.Stack())
		}
	}()
	f()
}
