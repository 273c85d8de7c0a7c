package scheduler

import (
	"sort"
	"time"
)

// Manual is a virtual-time Scheduler. Nothing happens until Advance or Flush is called.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
	queue  []func()
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	m   *Manual
	at  time.Duration
	seq int
	f   func()
}

func (t *manualTimer) Stop() bool {
	for i, p := range t.m.timers {
		if p == t {
			t.m.timers = append(t.m.timers[:i], t.m.timers[i+1:]...)
			return true
		}
	}
	return false
}

// Now returns the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of timers that have not fired or been stopped.
func (m *Manual) Pending() int {
	return len(m.timers)
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	t := &manualTimer{m: m, at: m.now + d, seq: m.seq, f: f}
	m.seq++
	m.timers = append(m.timers, t)
	return t
}

// Go implements Scheduler. The task and its continuation run on the next Flush.
func (m *Manual) Go(task func() func()) {
	m.queue = append(m.queue, func() {
		if next := task(); next != nil {
			next()
		}
	})
}

// Flush runs queued tasks, including tasks queued while flushing.
func (m *Manual) Flush() {
	for len(m.queue) > 0 {
		f := m.queue[0]
		m.queue = m.queue[1:]
		f()
	}
}

// Advance moves virtual time forward by d, firing due timers in order and flushing after each.
func (m *Manual) Advance(d time.Duration) {
	m.Flush()
	target := m.now + d
	for {
		t := m.next(target)
		if t == nil {
			break
		}
		t.Stop()
		m.now = t.at
		t.f()
		m.Flush()
	}
	m.now = target
}

func (m *Manual) next(until time.Duration) *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	due := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		if t.at <= until {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at == due[j].at {
			return due[i].seq < due[j].seq
		}
		return due[i].at < due[j].at
	})
	return due[0]
}
