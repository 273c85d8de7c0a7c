// Package progress persists lesson playback position and completion to the server.
//
// Writes are best effort. Neither Save nor MarkComplete reports failure to the caller;
// outcomes are emitted as telemetry events only.
package progress

import (
	"context"
	"math"
	"time"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/scheduler"
	"github.com/copypastelearn/cpl/telemetry"
)

// Store is the server side of progress tracking.
type Store interface {
	SavePosition(ctx context.Context, lessonID string, seconds float64) error
	MarkComplete(ctx context.Context, lessonID string) (api.CompleteResult, error)
}

// Reasons a save was attempted, reported with telemetry.
const (
	ReasonInterval   = "interval"
	ReasonBackground = "background"
	ReasonPause      = "pause"
	ReasonSeek       = "seek"
	ReasonNavigate   = "navigate"
	ReasonUnmount    = "unmount"
)

const (
	DefaultInterval     = 10 * time.Second
	DefaultMinDelta     = 2.0
	DefaultSeekDebounce = time.Second
)

// Options configure an Engine.
type Options struct {
	LessonID string

	// From is where playback starts. Positions within MinDelta of it are not written.
	From float64

	Interval     time.Duration
	MinDelta     float64
	SeekDebounce time.Duration

	Scheduler scheduler.Scheduler
	Store     Store
	Tracker   telemetry.Tracker

	// Position samples the current playback offset for periodic saves.
	Position func() float64

	// OnCompleted receives the server's answer to a successful completion.
	OnCompleted func(api.CompleteResult)
}

// Engine owns the save schedule of one lesson session. Every method must be called from the event loop.
type Engine struct {
	opts Options

	lastSaved float64
	played    bool
	attempt   int
	completed bool
	closed    bool

	ticker scheduler.Timer
	seeks  *scheduler.Debouncer[float64]
}

// New returns an Engine. Zero durations and deltas take the package defaults.
func New(opts Options) *Engine {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.MinDelta <= 0 {
		opts.MinDelta = DefaultMinDelta
	}
	if opts.SeekDebounce <= 0 {
		opts.SeekDebounce = DefaultSeekDebounce
	}
	if opts.Tracker == nil {
		opts.Tracker = telemetry.Nop
	}
	if opts.Position == nil {
		opts.Position = func() float64 { return 0 }
	}

	e := &Engine{opts: opts, lastSaved: opts.From}
	e.seeks = scheduler.NewDebouncer(opts.Scheduler, opts.SeekDebounce, func(pos float64) {
		e.Save(pos, ReasonSeek)
	})
	return e
}

// Start begins periodic saves. Calling it again has no effect.
func (e *Engine) Start() {
	if e.ticker != nil || e.closed {
		return
	}
	e.ticker = scheduler.Every(e.opts.Scheduler, e.opts.Interval, func() {
		e.Save(e.opts.Position(), ReasonInterval)
	})
}

// StartFrom moves the save baseline to where playback restarts, such as an accepted
// resume offer. It has no effect once a save was issued.
func (e *Engine) StartFrom(position float64) {
	if e.closed || e.attempt > 0 {
		return
	}
	e.lastSaved = position
}

// NotePlaying records that playback was running since the last save attempt.
func (e *Engine) NotePlaying() {
	e.played = true
}

// LastSaved returns the most recent position sent to the server.
func (e *Engine) LastSaved() float64 {
	return e.lastSaved
}

// Completed reports whether completion was already sent for this session.
func (e *Engine) Completed() bool {
	return e.completed
}

// Seeked schedules a save once seeking settles.
func (e *Engine) Seeked(position float64) {
	if e.closed {
		return
	}
	e.seeks.Trigger(position)
}

// Save sends position if playback ran since the last attempt and it moved at least MinDelta.
// It reports whether a write was issued.
func (e *Engine) Save(position float64, reason string) bool {
	if e.closed || !e.played {
		return false
	}
	if math.Abs(position-e.lastSaved) < e.opts.MinDelta {
		return false
	}

	previous := e.lastSaved
	e.lastSaved = position
	e.played = false
	e.attempt++
	attempt := e.attempt

	id := e.opts.LessonID
	e.opts.Scheduler.Go(func() func() {
		err := e.opts.Store.SavePosition(context.Background(), id, position)
		return func() { e.saved(attempt, previous, position, reason, err) }
	})
	return true
}

func (e *Engine) saved(attempt int, previous, position float64, reason string, err error) {
	props := telemetry.Properties{
		"lessonId":        e.opts.LessonID,
		"positionSeconds": position,
		"reason":          reason,
		"op":              "position",
	}

	if err == nil {
		e.opts.Tracker.Track(telemetry.ProgressSaveSuccess, props)
		return
	}

	log.Warnf("progress: save of %s at %.1fs failed: %v", e.opts.LessonID, position, err)
	props["error"] = api.KindOf(err).String()
	e.opts.Tracker.Track(telemetry.ProgressSaveFail, props)

	if e.closed || attempt != e.attempt {
		return
	}
	e.lastSaved = previous
	e.played = true
}

// MarkComplete sends completion once per session and reports whether this call sent it.
// A failed request is not retried; the lesson stays completed locally.
func (e *Engine) MarkComplete() bool {
	if e.completed || e.closed {
		return false
	}
	e.completed = true

	id := e.opts.LessonID
	e.opts.Scheduler.Go(func() func() {
		res, err := e.opts.Store.MarkComplete(context.Background(), id)
		return func() { e.marked(res, err) }
	})
	return true
}

func (e *Engine) marked(res api.CompleteResult, err error) {
	props := telemetry.Properties{"lessonId": e.opts.LessonID, "op": "complete"}

	if err != nil {
		log.Warnf("progress: completion of %s failed: %v", e.opts.LessonID, err)
		props["error"] = api.KindOf(err).String()
		e.opts.Tracker.Track(telemetry.ProgressSaveFail, props)
		return
	}

	if res.PercentComplete != nil {
		props["percentComplete"] = *res.PercentComplete
	}
	e.opts.Tracker.Track(telemetry.ProgressSaveSuccess, props)

	if !e.closed && e.opts.OnCompleted != nil {
		e.opts.OnCompleted(res)
	}
}

// Close stops every timer, issues a final save and ignores results that arrive afterwards.
func (e *Engine) Close(position float64, reason string) {
	if e.closed {
		return
	}
	if e.ticker != nil {
		e.ticker.Stop()
	}
	e.seeks.Cancel()
	e.Save(position, reason)
	e.closed = true
}
