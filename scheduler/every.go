package scheduler

import "time"

type interval struct {
	current Timer
	stopped bool
}

func (i *interval) Stop() bool {
	if i.stopped {
		return false
	}
	i.stopped = true
	return i.current.Stop()
}

// Every runs f on the loop each time d elapses until the returned Timer is stopped.
// Ticks missed while the loop was busy are not replayed.
func Every(s Scheduler, d time.Duration, f func()) Timer {
	i := &interval{}
	var arm func()
	arm = func() {
		i.current = s.AfterFunc(d, func() {
			if i.stopped {
				return
			}
			f()
			if !i.stopped {
				arm()
			}
		})
	}
	arm()
	return i
}
