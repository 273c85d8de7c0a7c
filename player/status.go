package player

import (
	"fmt"
	"sync"
	"time"
)

// positionInterval limits how often position-only changes are reported.
const positionInterval = 250 * time.Millisecond

// tracker folds mpv messages into Status snapshots.
type tracker struct {
	listener Listener
	now      func() time.Time

	mu       sync.Mutex
	status   Status
	paused   bool
	cache    bool
	seeking  bool
	eof      bool
	lastEmit time.Time
}

func newTracker(l Listener) *tracker {
	return &tracker{listener: l, now: time.Now, status: Status{Rate: 1}}
}

func (t *tracker) handle(msg ipcMessage) {
	t.mu.Lock()

	var (
		emit     = true
		finished bool
		failure  error
	)

	switch msg.Event {
	case "property-change":
		switch msg.Name {
		case "time-pos":
			if v, ok := msg.Data.(float64); ok {
				t.status.Position = v
			}
			emit = t.now().Sub(t.lastEmit) >= positionInterval
		case "duration":
			if v, ok := msg.Data.(float64); ok {
				t.status.Duration = v
			}
		case "pause":
			t.paused, _ = msg.Data.(bool)
		case "paused-for-cache":
			t.cache, _ = msg.Data.(bool)
		case "seeking":
			t.seeking, _ = msg.Data.(bool)
		case "speed":
			if v, ok := msg.Data.(float64); ok {
				t.status.Rate = v
			}
		case "eof-reached":
			reached, _ := msg.Data.(bool)
			finished = reached && !t.eof && t.status.Loaded
			t.eof = reached
		default:
			emit = false
		}
	case "start-file":
		t.status.Loaded = false
		t.status.Position = 0
		t.eof = false
	case "file-loaded":
		t.status.Loaded = true
		t.eof = false
	case "end-file":
		t.status.Loaded = false
		t.status.Position = 0
		if msg.Reason == "error" {
			failure = fmt.Errorf("playback failed: %s", msg.FileError)
		}
	default:
		emit = false
	}

	t.status.Playing = t.status.Loaded && !t.paused && !t.eof
	t.status.Buffering = t.status.Loaded && (t.cache || t.seeking)

	snapshot := t.status
	snapshot.DidJustFinish = finished
	if emit {
		t.lastEmit = t.now()
	}
	t.mu.Unlock()

	if failure != nil && t.listener.OnError != nil {
		t.listener.OnError(failure)
	}
	if emit && t.listener.OnStatus != nil {
		t.listener.OnStatus(snapshot)
	}
}
