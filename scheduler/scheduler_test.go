package scheduler

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestManual(t *testing.T) {
	Convey("Given a manual scheduler", t, func() {
		m := NewManual()
		var fired []string

		Convey("Timers fire in due order", func() {
			m.AfterFunc(300*time.Millisecond, func() { fired = append(fired, "c") })
			m.AfterFunc(100*time.Millisecond, func() { fired = append(fired, "a") })
			m.AfterFunc(200*time.Millisecond, func() { fired = append(fired, "b") })

			m.Advance(250 * time.Millisecond)
			So(fired, ShouldResemble, []string{"a", "b"})
			So(m.Now(), ShouldEqual, 250*time.Millisecond)

			m.Advance(50 * time.Millisecond)
			So(fired, ShouldResemble, []string{"a", "b", "c"})
			So(m.Pending(), ShouldEqual, 0)
		})

		Convey("Timers due at the same instant keep creation order", func() {
			m.AfterFunc(time.Second, func() { fired = append(fired, "first") })
			m.AfterFunc(time.Second, func() { fired = append(fired, "second") })
			m.Advance(time.Second)
			So(fired, ShouldResemble, []string{"first", "second"})
		})

		Convey("Stopped timers never fire", func() {
			timer := m.AfterFunc(time.Second, func() { fired = append(fired, "x") })
			So(timer.Stop(), ShouldBeTrue)
			So(timer.Stop(), ShouldBeFalse)
			m.Advance(time.Hour)
			So(fired, ShouldBeEmpty)
		})

		Convey("Tasks and continuations run on flush", func() {
			m.Go(func() func() {
				fired = append(fired, "task")
				return func() { fired = append(fired, "continuation") }
			})
			So(fired, ShouldBeEmpty)
			m.Flush()
			So(fired, ShouldResemble, []string{"task", "continuation"})
		})
	})
}

func TestEvery(t *testing.T) {
	Convey("Given an interval of one second", t, func() {
		m := NewManual()
		ticks := 0
		timer := Every(m, time.Second, func() { ticks++ })

		Convey("It ticks once per elapsed interval", func() {
			m.Advance(3500 * time.Millisecond)
			So(ticks, ShouldEqual, 3)
		})

		Convey("It stops ticking when stopped", func() {
			m.Advance(2 * time.Second)
			So(timer.Stop(), ShouldBeTrue)
			m.Advance(10 * time.Second)
			So(ticks, ShouldEqual, 2)
			So(m.Pending(), ShouldEqual, 0)
		})
	})
}

func TestDebouncer(t *testing.T) {
	Convey("Given a 300ms debouncer", t, func() {
		m := NewManual()
		var calls []string
		d := NewDebouncer(m, 300*time.Millisecond, func(v string) { calls = append(calls, v) })

		Convey("A burst collapses into one call with the last value", func() {
			d.Trigger("a")
			m.Advance(100 * time.Millisecond)
			d.Trigger("ab")
			m.Advance(100 * time.Millisecond)
			d.Trigger("abc")
			m.Advance(299 * time.Millisecond)
			So(calls, ShouldBeEmpty)

			m.Advance(time.Millisecond)
			So(calls, ShouldResemble, []string{"abc"})

			m.Advance(time.Second)
			So(len(calls), ShouldEqual, 1)
		})

		Convey("Flush runs the pending call immediately", func() {
			d.Trigger("now")
			So(d.Pending(), ShouldBeTrue)
			d.Flush()
			So(calls, ShouldResemble, []string{"now"})
			So(d.Pending(), ShouldBeFalse)

			m.Advance(time.Second)
			So(len(calls), ShouldEqual, 1)
		})

		Convey("Cancel drops the pending call", func() {
			d.Trigger("dropped")
			d.Cancel()
			d.Flush()
			m.Advance(time.Second)
			So(calls, ShouldBeEmpty)
		})
	})
}

func TestLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	Convey("Given a loop fed through a channel", t, func() {
		posted := make(chan func(), 4)
		loop := New(func(f func()) { posted <- f })

		runNext := func() bool {
			select {
			case f := <-posted:
				f()
				return true
			case <-time.After(2 * time.Second):
				return false
			}
		}

		Convey("Timers are delivered through the loop", func() {
			done := false
			loop.AfterFunc(5*time.Millisecond, func() { done = true })
			So(runNext(), ShouldBeTrue)
			So(done, ShouldBeTrue)
		})

		Convey("A timer stopped after posting does not run", func() {
			done := false
			timer := loop.AfterFunc(time.Millisecond, func() { done = true })
			f := <-posted
			So(timer.Stop(), ShouldBeTrue)
			f()
			So(done, ShouldBeFalse)
		})

		Convey("Task continuations run on the loop", func() {
			result := 0
			loop.Go(func() func() {
				v := 42
				return func() { result = v }
			})
			So(runNext(), ShouldBeTrue)
			So(result, ShouldEqual, 42)
		})

		Convey("Drain waits for running tasks", func() {
			release := make(chan struct{})
			loop.Go(func() func() {
				<-release
				return nil
			})

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
			defer cancel()
			So(loop.Drain(ctx), ShouldEqual, context.DeadlineExceeded)

			close(release)
			So(loop.Drain(context.Background()), ShouldBeNil)
		})

		Convey("A panicking task does not take the process down", func() {
			loop.Go(func() func() { panic("boom") })
			loop.Go(func() func() { return func() {} })
			So(runNext(), ShouldBeTrue)
		})
	})
}
