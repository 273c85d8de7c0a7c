package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/copypastelearn/cpl/device"
	"github.com/copypastelearn/cpl/internal/ui"
	"github.com/copypastelearn/cpl/open"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/player"
)

// seekStep is how far the arrow keys jump, in seconds.
const seekStep = 10

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		return b, nil
	case runMsg:
		msg()
		return b, nil
	case statusMsg:
		if b.controller != nil {
			b.controller.OnStatus(player.Status(msg))
		}
		return b, nil
	case engineErrorMsg:
		if b.controller != nil {
			b.controller.OnEngineError(msg.err)
		}
		return b, nil
	case engineExitMsg:
		return b, b.quit()
	case tea.BlurMsg:
		if b.controller != nil {
			b.controller.Background()
		}
		return b, nil
	case tea.FocusMsg:
		if b.controller != nil {
			b.controller.Foreground()
		}
		return b, nil
	case courseLoadedMsg:
		return b, b.onCourseLoaded(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case tea.KeyMsg:
		if key.Matches(msg, b.keymap.forceQuit) {
			return b, b.quit()
		}
	}

	if cmd := b.notice.Update(msg); cmd != nil {
		return b, cmd
	}

	switch b.state {
	case lessonsState:
		return b.updateLessons(msg)
	case watchState:
		return b.updateWatch(msg)
	case errorState, loadingState:
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, b.keymap.quit) {
			return b, b.quit()
		}
	}

	return b, nil
}

// quit ends the session, flushing the final save, and stops the program.
func (b *statefulBubble) quit() tea.Cmd {
	if b.controller != nil {
		b.controller.Close()
	}
	b.quitting = true
	return tea.Quit
}

func (b *statefulBubble) updateLessons(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && b.lessonsC.FilterState() != list.Filtering {
		switch {
		case key.Matches(msg, b.keymap.confirm):
			item, ok := b.lessonsC.SelectedItem().(*lessonItem)
			if !ok {
				return b, nil
			}
			if !item.lesson.IsAccessible {
				return b, ui.Notify("This lesson is locked")
			}
			course, _ := b.course.Get()
			b.open(course.Slug, item.lesson.Slug)
			return b, nil
		case key.Matches(msg, b.keymap.quit):
			return b, b.quit()
		}
	}

	var cmd tea.Cmd
	b.lessonsC, cmd = b.lessonsC.Update(msg)
	return b, cmd
}

func (b *statefulBubble) updateWatch(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}

	c := b.controller
	s := b.session
	k := b.keymap

	if key.Matches(keyMsg, k.quit) {
		return b, b.quit()
	}

	switch s.State {
	case playback.ResumePrompt:
		switch {
		case key.Matches(keyMsg, k.resume):
			c.Resume()
		case key.Matches(keyMsg, k.startOver):
			c.StartOver()
		}
	case playback.Playing, playback.Paused, playback.Buffering:
		switch {
		case key.Matches(keyMsg, k.playPause):
			c.TogglePlay()
		case key.Matches(keyMsg, k.rate):
			rate := c.CycleRate()
			return b, ui.Notify(fmt.Sprintf("Speed %s×", strconv.FormatFloat(rate, 'f', -1, 64)))
		case key.Matches(keyMsg, k.seekBack):
			c.Seek(s.Position - seekStep)
		case key.Matches(keyMsg, k.seekForward):
			c.Seek(s.Position + seekStep)
		}
	case playback.Completed:
		switch {
		case key.Matches(keyMsg, k.watchAgain):
			c.WatchAgain()
		case key.Matches(keyMsg, k.cancelAutoplay):
			c.CancelAutoplay()
		}
	case playback.Error, playback.LoadFailed:
		if key.Matches(keyMsg, k.retry) {
			if err := c.Retry(); errors.Is(err, playback.ErrFatal) {
				return b, ui.Notify("Sign in again with `cpl login`")
			}
		}
	}

	switch {
	case key.Matches(keyMsg, k.next):
		if !c.GoNext() {
			return b, ui.Notify("This is the last lesson")
		}
	case key.Matches(keyMsg, k.previous):
		if !c.GoPrevious() {
			return b, ui.Notify("This is the first lesson")
		}
	case key.Matches(keyMsg, k.orientation):
		if !s.OrientationSupported {
			return b, nil
		}
		if err := c.ToggleOrientation(); err != nil && !errors.Is(err, device.ErrUnsupported) {
			return b, ui.Notify("Could not change orientation")
		}
	case key.Matches(keyMsg, k.transcript):
		b.showTranscript = !b.showTranscript
	case key.Matches(keyMsg, k.openResource):
		return b, b.openResource(keyMsg.String())
	}

	return b, nil
}

func (b *statefulBubble) openResource(digit string) tea.Cmd {
	lesson, ok := b.session.Lesson.Get()
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > len(lesson.Resources) {
		return nil
	}

	resource := lesson.Resources[n-1]
	if err := open.Start(resource.URL); err != nil {
		return ui.Notify("Could not open " + resource.Title)
	}
	return ui.Notify("Opened " + resource.Title)
}
