// Package playback runs the lesson playback screen: loading the lesson and its video
// credential, reconciling engine status, saving progress, offering to resume, counting
// down to the next lesson and releasing device resources on the way out.
//
// A Controller is driven by a single event loop. Every exported method and every
// scheduler callback must run on that loop; asynchronous work posts its result back
// through the Scheduler.
package playback

import (
	"context"
	"errors"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/autoplay"
	"github.com/copypastelearn/cpl/device"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/player"
	"github.com/copypastelearn/cpl/progress"
	"github.com/copypastelearn/cpl/scheduler"
	"github.com/copypastelearn/cpl/telemetry"
	"github.com/google/uuid"
	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
)

// Lessons is the part of the API the controller needs.
type Lessons interface {
	Lesson(ctx context.Context, courseSlug, lessonSlug string) (api.LessonDetail, error)
	PlaybackTokens(ctx context.Context, playbackID string) (api.PlaybackTokens, error)
	progress.Store
}

// Deps are the collaborators of a Controller.
type Deps struct {
	API       Lessons
	Engine    player.Engine
	Scheduler scheduler.Scheduler
	Tracker   telemetry.Tracker

	WakeLock    *device.WakeLock
	Orientation *device.Orientation

	// Navigate opens another lesson. The current session is already torn down when it runs.
	Navigate func(courseSlug, lessonSlug string)

	// OnChange receives a snapshot after every handled event.
	OnChange func(Session)
}

// Controller owns one lesson session.
type Controller struct {
	cfg  Config
	deps Deps
	log  *logrus.Entry

	s        Session
	progress *progress.Engine
	autoplay *autoplay.Sequencer

	bufferTimer scheduler.Timer

	// Guards checked and set within a single handler.
	tokenRetried    bool
	finished        bool
	resumeDismissed bool
	navigating      bool
	closed          bool
	awaitingLoad    bool
	// issued is set once this session has loaded its own video into the shared engine.
	issued  bool
	loadGen int
}

// ErrFatal is returned by Retry when the failure cannot be retried.
var ErrFatal = errors.New("this error cannot be retried")

// New returns a controller for one lesson. Nothing happens until Mount.
func New(courseSlug, lessonSlug string, cfg Config, deps Deps) *Controller {
	if deps.Tracker == nil {
		deps.Tracker = telemetry.Nop
	}
	if deps.WakeLock == nil {
		deps.WakeLock = device.NewWakeLock(nil)
	}
	if deps.Orientation == nil {
		deps.Orientation = device.NewOrientation(nil)
	}

	id := uuid.NewString()
	c := &Controller{
		cfg:  cfg,
		deps: deps,
		log:  log.WithFields(log.Fields{"session": id, "course": courseSlug, "lesson": lessonSlug}),
		s: Session{
			ID:                   id,
			CourseSlug:           courseSlug,
			LessonSlug:           lessonSlug,
			State:                Loading,
			Rate:                 Rates[0],
			OrientationSupported: deps.Orientation.Supported(),
		},
	}
	c.autoplay = autoplay.New(autoplay.Options{
		Scheduler: deps.Scheduler,
		From:      cfg.AutoplayFrom,
		Enabled:   cfg.Autoplay,
		OnTick:    c.onCountdown,
		OnDone:    c.onCountdownDone,
	})
	return c
}

// Session returns the current snapshot.
func (c *Controller) Session() Session {
	return c.snapshot()
}

func (c *Controller) snapshot() Session {
	s := c.s
	if c.progress != nil {
		s.LastSaved = c.progress.LastSaved()
	}
	s.Landscape = c.deps.Orientation.Locked()
	s.KeepAwake = c.deps.WakeLock.Held()
	return s
}

// commit reconciles the wake lock with the state and publishes a snapshot.
// Every handler defers it, so the lock follows the state on every exit path.
func (c *Controller) commit() {
	holding := !c.closed && c.cfg.KeepAwake && (c.s.State == Playing || c.s.State == Buffering)
	c.deps.WakeLock.Sync(holding)

	if c.deps.OnChange != nil {
		c.deps.OnChange(c.snapshot())
	}
}

func (c *Controller) to(state State) {
	if c.s.State == state {
		return
	}
	c.log.Debugf("%s -> %s", c.s.State, state)
	c.s.State = state
}

func (c *Controller) props(kv ...any) telemetry.Properties {
	p := telemetry.Properties{"lessonId": c.s.LessonID, "courseSlug": c.s.CourseSlug, "lessonSlug": c.s.LessonSlug}
	for i := 0; i+1 < len(kv); i += 2 {
		p[kv[i].(string)] = kv[i+1]
	}
	return p
}

// Mount loads the lesson and, when it has a video, its playback credential.
func (c *Controller) Mount() {
	defer c.commit()
	c.load()
}

func (c *Controller) load() {
	c.to(Loading)
	c.s.Err = mo.None[Failure]()
	c.loadGen++
	gen := c.loadGen
	course, slug := c.s.CourseSlug, c.s.LessonSlug

	c.deps.Scheduler.Go(func() func() {
		ctx := context.Background()
		lesson, err := c.deps.API.Lesson(ctx, course, slug)

		var tokens api.PlaybackTokens
		if err == nil && lesson.PlaybackID() != "" {
			tokens, err = c.deps.API.PlaybackTokens(ctx, lesson.PlaybackID())
		}
		return func() { c.loaded(gen, lesson, tokens, err) }
	})
}

func (c *Controller) loaded(gen int, lesson api.LessonDetail, tokens api.PlaybackTokens, err error) {
	if c.closed || gen != c.loadGen {
		return
	}
	defer c.commit()

	if err != nil {
		c.log.Warnf("load failed: %v", err)
		c.s.Err = mo.Some(Failure{Message: api.Message(err), Fatal: api.IsAuth(err)})
		c.to(LoadFailed)
		return
	}

	c.s.Lesson = mo.Some(lesson)
	c.s.LessonID = lesson.ID
	c.s.Title = lesson.Title
	c.s.Next = optionalNav(lesson.NextLesson)
	c.s.Previous = optionalNav(lesson.PreviousLesson)
	c.deps.Tracker.Track(telemetry.LessonView, c.props())

	if c.progress == nil {
		c.progress = progress.New(progress.Options{
			LessonID:     lesson.ID,
			Interval:     c.cfg.SaveInterval,
			MinDelta:     c.cfg.MinSaveDelta,
			SeekDebounce: c.cfg.SeekSaveDebounce,
			Scheduler:    c.deps.Scheduler,
			Store:        c.deps.API,
			Tracker:      c.deps.Tracker,
			Position:     func() float64 { return c.s.Position },
			OnCompleted:  c.onCompleted,
		})
		c.progress.Start()
	}

	c.to(Ready)
	if lesson.PlaybackID() == "" {
		return
	}
	c.s.Credential = mo.Some(tokens)

	prior := lesson.PriorPosition()
	if prior > c.cfg.ResumeThreshold && !c.resumeDismissed {
		c.s.Resume = mo.Some(ResumeOffer{Position: prior})
		c.to(ResumePrompt)
		c.deps.Tracker.Track(telemetry.ResumePromptShown, c.props("positionSeconds", prior))
		return
	}
	c.start(0)
}

func optionalNav(nav *api.LessonNav) mo.Option[api.LessonNav] {
	if nav == nil {
		return mo.None[api.LessonNav]()
	}
	return mo.Some(*nav)
}

// start loads the current credential into the engine at the given offset.
func (c *Controller) start(at float64) {
	tokens, ok := c.s.Credential.Get()
	if !ok {
		return
	}

	c.awaitingLoad = true
	c.issued = true
	c.s.Position = at
	c.to(Playing)

	if err := c.deps.Engine.Load(api.StreamURL(c.cfg.StreamHost, tokens), c.s.Title, at); err != nil {
		c.engineFailed(err)
		return
	}
	if c.s.Rate != Rates[0] {
		c.warn(c.deps.Engine.SetRate(c.s.Rate))
	}
}

func (c *Controller) warn(err error) {
	if err != nil {
		c.log.Warnf("engine: %v", err)
	}
}

// OnStatus applies an engine status report. Reports that arrive before this session
// loaded its own video describe another file and are dropped.
func (c *Controller) OnStatus(st player.Status) {
	if c.closed || !c.issued {
		return
	}
	defer c.commit()

	if st.Loaded && c.awaitingLoad {
		c.awaitingLoad = false
		c.tokenRetried = false
		c.s.Err = mo.None[Failure]()
		if c.s.State == Error || c.s.State == Loading {
			c.to(Playing)
		}
		c.deps.Tracker.Track(telemetry.LessonPlayStart, c.props("positionSeconds", st.Position))
	}

	switch c.s.State {
	case Playing, Buffering, Paused, Completed:
	default:
		return
	}

	if !st.Loaded {
		return
	}
	c.s.Position = st.Position
	c.s.Duration = st.Duration
	if st.Playing {
		c.progress.NotePlaying()
	}

	if st.DidJustFinish {
		c.complete()
		return
	}
	if c.s.State == Completed {
		if st.Playing {
			c.rewatch()
		}
		return
	}

	c.s.Playing = st.Playing
	c.updateBuffering(st.Buffering && st.Playing)

	switch {
	case st.Playing && c.s.Buffering:
		c.to(Buffering)
	case st.Playing:
		c.to(Playing)
	default:
		if c.s.State != Paused {
			c.progress.Save(c.s.Position, progress.ReasonPause)
		}
		c.to(Paused)
	}
}

// updateBuffering shows the indicator only once buffering has lasted BufferingDelay.
func (c *Controller) updateBuffering(raw bool) {
	if !raw {
		c.stopBufferTimer()
		c.s.Buffering = false
		return
	}
	if c.s.Buffering || c.bufferTimer != nil {
		return
	}
	c.bufferTimer = c.deps.Scheduler.AfterFunc(c.cfg.BufferingDelay, func() {
		c.bufferTimer = nil
		if c.closed {
			return
		}
		defer c.commit()
		c.s.Buffering = true
		if c.s.State == Playing {
			c.to(Buffering)
		}
	})
}

func (c *Controller) stopBufferTimer() {
	if c.bufferTimer != nil {
		c.bufferTimer.Stop()
		c.bufferTimer = nil
	}
}

// OnEngineError handles a video load or playback failure. The first one after
// credentials were issued is answered with a single credential refresh.
func (c *Controller) OnEngineError(err error) {
	if c.closed {
		return
	}
	defer c.commit()
	c.engineFailed(err)
}

func (c *Controller) engineFailed(err error) {
	c.log.Warnf("playback error: %v", err)
	c.deps.Tracker.Track(telemetry.LessonPlayError, c.props("error", err.Error(), "retried", c.tokenRetried))

	c.awaitingLoad = false
	c.stopBufferTimer()
	c.s.Buffering = false
	c.s.Playing = false

	if !c.tokenRetried && c.s.Credential.IsPresent() {
		c.tokenRetried = true
		c.refresh(c.s.Position)
		return
	}

	c.s.Err = mo.Some(Failure{Message: "The video could not be played.", Retried: c.tokenRetried})
	c.to(Error)
}

// refresh requests a new credential and reloads the engine at position.
func (c *Controller) refresh(position float64) {
	tokens, _ := c.s.Credential.Get()
	c.loadGen++
	gen := c.loadGen

	c.deps.Scheduler.Go(func() func() {
		fresh, err := c.deps.API.PlaybackTokens(context.Background(), tokens.PlaybackID)
		return func() { c.refreshed(gen, position, fresh, err) }
	})
}

func (c *Controller) refreshed(gen int, position float64, tokens api.PlaybackTokens, err error) {
	if c.closed || gen != c.loadGen {
		return
	}
	defer c.commit()

	if err != nil {
		c.log.Warnf("credential refresh failed: %v", err)
		c.s.Err = mo.Some(Failure{Message: api.Message(err), Retried: true, Fatal: api.IsAuth(err)})
		c.to(Error)
		return
	}

	c.s.Credential = mo.Some(tokens)
	c.start(position)
}

// Retry answers the retry control of either error presentation.
func (c *Controller) Retry() error {
	if c.closed {
		return nil
	}
	defer c.commit()

	failure, _ := c.s.Err.Get()
	if failure.Fatal {
		return ErrFatal
	}

	switch c.s.State {
	case LoadFailed:
		c.load()
	case Error:
		c.s.Err = mo.None[Failure]()
		c.to(Loading)
		c.refresh(c.s.Position)
	}
	return nil
}

// Resume dismisses the resume offer and plays from the offered position.
func (c *Controller) Resume() {
	c.dismissResume(true)
}

// StartOver dismisses the resume offer and plays from the beginning.
func (c *Controller) StartOver() {
	c.dismissResume(false)
}

func (c *Controller) dismissResume(resume bool) {
	if c.closed || c.s.State != ResumePrompt {
		return
	}
	defer c.commit()

	offer, _ := c.s.Resume.Get()
	c.s.Resume = mo.None[ResumeOffer]()
	c.resumeDismissed = true

	at := 0.0
	if resume {
		at = offer.Position
		c.progress.StartFrom(at)
	} else {
		c.deps.Tracker.Track(telemetry.ResumeStartOver, c.props("positionSeconds", offer.Position))
	}
	c.start(at)
}

func (c *Controller) complete() {
	if c.finished {
		return
	}
	c.finished = true

	c.stopBufferTimer()
	c.s.Buffering = false
	c.s.Playing = false
	c.s.Completion = Complete
	c.to(Completed)

	c.progress.MarkComplete()
	c.deps.Tracker.Track(telemetry.LessonComplete, c.props())

	c.autoplay.Start(c.s.Next.IsPresent(), c.navigating)
}

func (c *Controller) onCompleted(res api.CompleteResult) {
	if res.PercentComplete != nil {
		c.s.PercentComplete = mo.Some(*res.PercentComplete)
	}
	c.commit()
}

// WatchAgain replays a completed lesson from the start.
func (c *Controller) WatchAgain() {
	if c.closed || c.s.State != Completed {
		return
	}
	defer c.commit()

	c.warn(c.deps.Engine.Seek(0))
	c.s.Position = 0
	c.rewatch()
	c.warn(c.deps.Engine.SetPaused(false))
}

func (c *Controller) rewatch() {
	c.autoplay.Cancel()
	c.s.Countdown = mo.None[int]()
	c.finished = false
	c.to(Playing)
}

func (c *Controller) onCountdown(remaining int) {
	c.s.Countdown = mo.Some(remaining)
	c.commit()
}

func (c *Controller) onCountdownDone() {
	if next, ok := c.s.Next.Get(); ok {
		c.navigate(next)
	}
}

// CancelAutoplay stops a running countdown.
func (c *Controller) CancelAutoplay() {
	if c.closed {
		return
	}
	defer c.commit()
	c.autoplay.Cancel()
	c.s.Countdown = mo.None[int]()
}

// GoNext leaves for the next lesson. It reports whether there was one.
func (c *Controller) GoNext() bool {
	next, ok := c.s.Next.Get()
	if !ok || c.closed {
		return false
	}
	c.navigate(next)
	return true
}

// GoPrevious leaves for the previous lesson. It reports whether there was one.
func (c *Controller) GoPrevious() bool {
	prev, ok := c.s.Previous.Get()
	if !ok || c.closed {
		return false
	}
	c.navigate(prev)
	return true
}

func (c *Controller) navigate(to api.LessonNav) {
	if c.navigating {
		return
	}
	c.navigating = true
	c.shutdown(progress.ReasonNavigate)
	c.commit()

	if c.deps.Navigate != nil {
		c.deps.Navigate(c.s.CourseSlug, to.Slug)
	}
}

// TogglePlay pauses or resumes playback.
func (c *Controller) TogglePlay() {
	if c.closed {
		return
	}
	defer c.commit()

	switch c.s.State {
	case Playing, Buffering:
		c.warn(c.deps.Engine.SetPaused(true))
		c.s.Playing = false
		c.stopBufferTimer()
		c.s.Buffering = false
		c.progress.Save(c.s.Position, progress.ReasonPause)
		c.to(Paused)
	case Paused:
		c.warn(c.deps.Engine.SetPaused(false))
		c.to(Playing)
	}
}

// CycleRate advances to the next playback rate.
func (c *Controller) CycleRate() float64 {
	if c.closed {
		return c.s.Rate
	}
	defer c.commit()

	c.s.Rate = NextRate(c.s.Rate)
	switch c.s.State {
	case Playing, Paused, Buffering, Completed:
		c.warn(c.deps.Engine.SetRate(c.s.Rate))
	}
	return c.s.Rate
}

// Seek jumps to seconds and saves the position once seeking settles.
func (c *Controller) Seek(seconds float64) {
	if c.closed {
		return
	}
	defer c.commit()

	switch c.s.State {
	case Playing, Paused, Buffering, Completed:
	default:
		return
	}
	if seconds < 0 {
		seconds = 0
	}
	c.warn(c.deps.Engine.Seek(seconds))
	c.s.Position = seconds
	c.progress.Seeked(seconds)
}

// ToggleOrientation flips the forced landscape presentation.
func (c *Controller) ToggleOrientation() error {
	if c.closed {
		return nil
	}
	defer c.commit()
	return c.deps.Orientation.Toggle()
}

// Background saves the position when the app loses focus.
func (c *Controller) Background() {
	if c.closed || c.progress == nil {
		return
	}
	defer c.commit()
	c.progress.Save(c.s.Position, progress.ReasonBackground)
}

// Foreground re-publishes the session when the app regains focus.
func (c *Controller) Foreground() {
	if c.closed {
		return
	}
	c.commit()
}

// Close tears the session down: final save, timers cancelled, device resources released.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	defer c.commit()
	c.shutdown(progress.ReasonUnmount)
}

func (c *Controller) shutdown(reason string) {
	defer c.deps.Orientation.Unlock()
	defer c.deps.WakeLock.Release()

	c.stopBufferTimer()
	c.autoplay.Cancel()
	c.s.Countdown = mo.None[int]()
	if c.progress != nil {
		c.progress.Close(c.s.Position, reason)
	}
	if c.issued {
		c.warn(c.deps.Engine.Stop())
		c.s.Playing = false
	}

	c.closed = true
	c.to(Closed)
}
