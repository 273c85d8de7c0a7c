// Package autoplay counts down to the next lesson after one finishes.
package autoplay

import (
	"time"

	"github.com/copypastelearn/cpl/scheduler"
)

// DefaultFrom is the countdown length in seconds.
const DefaultFrom = 5

// Options configure a Sequencer.
type Options struct {
	Scheduler scheduler.Scheduler

	// From is the first value shown. Zero means DefaultFrom.
	From int

	// Enabled is the user's preference, captured once for the session.
	Enabled bool

	// OnTick receives every countdown value, starting with From.
	OnTick func(remaining int)

	// OnDone fires once when the countdown reaches zero.
	OnDone func()
}

// Sequencer runs at most one countdown at a time. It must only be used from the event loop.
type Sequencer struct {
	opts      Options
	running   bool
	remaining int
	gen       int
	timer     scheduler.Timer
}

// New returns an idle Sequencer.
func New(opts Options) *Sequencer {
	if opts.From <= 0 {
		opts.From = DefaultFrom
	}
	return &Sequencer{opts: opts}
}

// Enabled reports the preference captured at construction.
func (s *Sequencer) Enabled() bool {
	return s.opts.Enabled
}

// Running reports whether a countdown is in progress.
func (s *Sequencer) Running() bool {
	return s.running
}

// Remaining returns the current countdown value.
func (s *Sequencer) Remaining() int {
	return s.remaining
}

// Start begins a countdown unless autoplay is off, there is nothing to play next,
// the user is already navigating away, or a countdown is running. It reports whether one started.
func (s *Sequencer) Start(hasNext, navigating bool) bool {
	if !s.opts.Enabled || !hasNext || navigating || s.running {
		return false
	}

	s.running = true
	s.remaining = s.opts.From
	s.gen++
	s.tick()
	s.arm(s.gen)
	return true
}

// Cancel stops the countdown. No further ticks are delivered.
func (s *Sequencer) Cancel() bool {
	if !s.running {
		return false
	}
	s.running = false
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	return true
}

func (s *Sequencer) arm(gen int) {
	s.timer = s.opts.Scheduler.AfterFunc(time.Second, func() {
		if gen != s.gen || !s.running {
			return
		}
		s.remaining--
		s.tick()
		if s.remaining > 0 {
			s.arm(gen)
			return
		}

		s.running = false
		s.timer = nil
		if s.opts.OnDone != nil {
			s.opts.OnDone()
		}
	})
}

func (s *Sequencer) tick() {
	if s.opts.OnTick != nil {
		s.opts.OnTick(s.remaining)
	}
}
