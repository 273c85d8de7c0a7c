// Package tui runs the interactive playback screen.
//
// The bubbletea program is the event loop: engine events, timers and the results of
// background requests are all delivered to Update as messages, so the playback
// controller only ever runs on one goroutine.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/device"
	"github.com/copypastelearn/cpl/internal/ui"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/player"
	"github.com/copypastelearn/cpl/scheduler"
	"github.com/copypastelearn/cpl/telemetry"
)

// API is the part of the server the screen reads.
type API interface {
	playback.Lessons
	Course(ctx context.Context, slug string) (api.CourseDetail, error)
}

// Engine is a video engine that also controls the display.
type Engine interface {
	player.Engine
	device.KeepAwaker
	device.Orienter
}

// Launcher is an Engine that has to be started before use.
type Launcher interface {
	Engine
	Launch(l player.Listener) error
}

// Options configure Run.
type Options struct {
	CourseSlug string

	// LessonSlug opens the lesson directly. Empty shows the course's lessons first.
	LessonSlug string

	API     API
	Engine  Launcher
	Tracker telemetry.Tracker
	Config  playback.Config

	// Notices are shown on screen as they arrive.
	Notices <-chan string
}

// drainTimeout bounds how long pending saves may hold up exit.
const drainTimeout = 5 * time.Second

// Run shows the screen until the user quits or the video window is closed.
func Run(options *Options) error {
	if options.Tracker == nil {
		options.Tracker = telemetry.Nop
	}

	bubble := newBubble(options)
	program := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithReportFocus())

	loop := scheduler.New(func(f func()) { program.Send(runMsg(f)) })
	bubble.sched = loop

	err := options.Engine.Launch(player.Listener{
		OnStatus: func(s player.Status) { program.Send(statusMsg(s)) },
		OnError:  func(err error) { program.Send(engineErrorMsg{err}) },
		OnExit:   func() { program.Send(engineExitMsg{}) },
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	go forwardNotices(done, options.Notices, program.Send)

	_, runErr := program.Run()
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := loop.Drain(ctx); err != nil {
		log.Warnf("tui: gave up waiting for pending requests: %v", err)
	}

	return errors.Join(runErr, options.Engine.Close())
}

// forwardNotices hands each notice to send until done is closed.
func forwardNotices(done <-chan struct{}, notices <-chan string, send func(tea.Msg)) {
	for {
		select {
		case <-done:
			return
		case text, ok := <-notices:
			if !ok {
				return
			}
			send(ui.Notify(text)())
		}
	}
}
