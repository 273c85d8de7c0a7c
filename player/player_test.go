package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers IPC commands the way mpv does, including unsolicited events.
type fakeMPV struct {
	ln       net.Listener
	path     string
	mu       sync.Mutex
	commands [][]any
	observer net.Conn
	observed chan struct{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "cpl")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	path := filepath.Join(dir, "mpv.sock")
	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeMPV{ln: ln, path: path, observed: make(chan struct{}, 1)}
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go f.serve(conn)
		}
	}()
	return f
}

func (f *fakeMPV) serve(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var cmd ipcCommand
		if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil {
			continue
		}

		f.mu.Lock()
		f.commands = append(f.commands, cmd.Command)
		f.mu.Unlock()

		var data any
		status := "success"
		switch cmd.Command[0] {
		case "get_property":
			if cmd.Command[1] == "pid" {
				data = 4242
			} else {
				status = "property unavailable"
			}
		case "observe_property":
			f.mu.Lock()
			first := f.observer == nil
			f.observer = conn
			f.mu.Unlock()
			if first {
				f.observed <- struct{}{}
			}
		}

		fmt.Fprintln(conn, `{"event":"idle"}`)
		reply, _ := json.Marshal(map[string]any{"request_id": cmd.RequestID, "error": status, "data": data})
		fmt.Fprintln(conn, string(reply))
	}
}

func (f *fakeMPV) push(line string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fmt.Fprintln(f.observer, line)
}

func (f *fakeMPV) names() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, c := range f.commands {
		name := fmt.Sprint(c[0])
		if name == "set_property" {
			name += ":" + fmt.Sprint(c[1])
		}
		names = append(names, name)
	}
	return names
}

func TestCommands(t *testing.T) {
	Convey("Given mpv listening on a socket", t, func() {
		fake := newFakeMPV(t)
		m := NewMPV("")
		m.socketPath = fake.path

		Convey("Load sets the start offset and title, then plays", func() {
			So(m.Load("https://stream.mux.com/abc.m3u8?token=t", "Intro\nto Go", 42), ShouldBeNil)
			So(fake.names(), ShouldResemble, []string{
				"set_property:start",
				"set_property:force-media-title",
				"loadfile",
				"set_property:pause",
			})

			fake.mu.Lock()
			So(fake.commands[0][2], ShouldEqual, "42.000")
			So(fake.commands[1][2], ShouldEqual, "Intro to Go")
			So(fake.commands[3][2], ShouldEqual, false)
			fake.mu.Unlock()
		})

		Convey("Load rejects anything but http streams", func() {
			So(m.Load("--script=evil.lua", "x", 0), ShouldNotBeNil)
			So(m.Load("file:///etc/passwd", "x", 0), ShouldNotBeNil)
			So(fake.names(), ShouldBeEmpty)
		})

		Convey("Replies are matched by request id past broadcast events", func() {
			So(m.Running(), ShouldBeTrue)
		})

		Convey("Error replies are returned without retrying", func() {
			_, err := m.sendCommand("get_property", "time-pos")
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
			So(len(fake.names()), ShouldEqual, 1)
		})

		Convey("Playback controls map to properties", func() {
			So(m.SetRate(1.5), ShouldBeNil)
			So(m.SetKeepAwake(true), ShouldBeNil)
			So(m.SetFullscreen(false), ShouldBeNil)
			So(m.Seek(0), ShouldBeNil)
			So(m.Stop(), ShouldBeNil)
			So(fake.names(), ShouldResemble, []string{
				"set_property:speed",
				"set_property:stop-screensaver",
				"set_property:fullscreen",
				"seek",
				"stop",
			})
		})

		Convey("The event listener reports status changes", func() {
			statuses := make(chan Status, 16)
			errs := make(chan error, 1)
			So(m.listen(Listener{
				OnStatus: func(s Status) { statuses <- s },
				OnError:  func(err error) { errs <- err },
			}), ShouldBeNil)
			defer m.events.Stop()

			select {
			case <-fake.observed:
			case <-time.After(2 * time.Second):
				t.Fatal("no observe_property received")
			}

			fake.push(`{"event":"file-loaded"}`)
			fake.push(`{"event":"property-change","id":3,"name":"pause","data":false}`)

			var last Status
			for !last.Playing {
				select {
				case last = <-statuses:
				case <-time.After(2 * time.Second):
					t.Fatal("no playing status received")
				}
			}
			So(last.Loaded, ShouldBeTrue)

			fake.push(`{"event":"end-file","reason":"error","file_error":"loading failed"}`)
			select {
			case err := <-errs:
				So(err.Error(), ShouldContainSubstring, "loading failed")
			case <-time.After(2 * time.Second):
				t.Fatal("no error received")
			}
		})
	})
}

func TestTracker(t *testing.T) {
	Convey("Given a status tracker", t, func() {
		var got []Status
		var errs []error
		clock := time.Unix(0, 0)
		tr := newTracker(Listener{
			OnStatus: func(s Status) { got = append(got, s) },
			OnError:  func(err error) { errs = append(errs, err) },
		})
		tr.now = func() time.Time { return clock }

		prop := func(name string, data any) {
			tr.handle(ipcMessage{Event: "property-change", Name: name, Data: data})
		}
		last := func() Status { return got[len(got)-1] }

		tr.handle(ipcMessage{Event: "file-loaded"})
		prop("pause", false)

		Convey("A loaded, unpaused file is playing", func() {
			So(last().Playing, ShouldBeTrue)
			So(last().Rate, ShouldEqual, 1)
		})

		Convey("Position-only updates are throttled", func() {
			n := len(got)
			clock = clock.Add(time.Second)
			prop("time-pos", 1.0)
			clock = clock.Add(10 * time.Millisecond)
			prop("time-pos", 1.01)
			So(len(got), ShouldEqual, n+1)
			So(last().Position, ShouldEqual, 1.0)

			clock = clock.Add(positionInterval)
			prop("time-pos", 1.3)
			So(last().Position, ShouldEqual, 1.3)
		})

		Convey("Cache stalls and seeks are buffering", func() {
			prop("paused-for-cache", true)
			So(last().Buffering, ShouldBeTrue)
			prop("paused-for-cache", false)
			prop("seeking", true)
			So(last().Buffering, ShouldBeTrue)
			prop("seeking", false)
			So(last().Buffering, ShouldBeFalse)
		})

		Convey("End of stream is reported once", func() {
			prop("eof-reached", true)
			So(last().DidJustFinish, ShouldBeTrue)
			So(last().Playing, ShouldBeFalse)

			prop("pause", true)
			So(last().DidJustFinish, ShouldBeFalse)
			prop("eof-reached", true)
			So(last().DidJustFinish, ShouldBeFalse)

			Convey("and again after rewinding", func() {
				prop("eof-reached", false)
				prop("eof-reached", true)
				So(last().DidJustFinish, ShouldBeTrue)
			})
		})

		Convey("Load errors are reported and unload the file", func() {
			tr.handle(ipcMessage{Event: "end-file", Reason: "error", FileError: "HTTP 403"})
			So(len(errs), ShouldEqual, 1)
			So(last().Loaded, ShouldBeFalse)
			So(last().Playing, ShouldBeFalse)
		})

		Convey("A stopped file is unloaded without an error", func() {
			tr.handle(ipcMessage{Event: "end-file", Reason: "stop"})
			So(errs, ShouldBeEmpty)
			So(last().Loaded, ShouldBeFalse)
			So(last().Position, ShouldEqual, 0)
		})

		Convey("Unrelated events are ignored", func() {
			n := len(got)
			tr.handle(ipcMessage{Event: "idle"})
			prop("volume", 50.0)
			So(len(got), ShouldEqual, n)
		})
	})
}
