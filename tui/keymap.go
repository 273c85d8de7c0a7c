package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/style"
)

type statefulKeymap struct {
	state   state
	session playback.Session

	quit, forceQuit,
	confirm,
	up, down, left, right,
	top, bottom,
	filter, back,
	playPause, rate, seekBack, seekForward,
	resume, startOver,
	watchAgain, cancelAutoplay,
	next, previous,
	retry,
	orientation,
	transcript, openResource,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp(style.Fg(color.Orange)("enter"), style.Fg(color.Orange)("watch")),
		),
		up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓", "down"),
		),
		left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "top"),
		),
		bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "bottom"),
		),
		filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "p"),
			key.WithHelp("space", "pause/resume"),
		),
		rate: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "speed"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "-10s"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "+10s"),
		),
		resume: key.NewBinding(
			key.WithKeys("enter", "y"),
			key.WithHelp("enter", "resume"),
		),
		startOver: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start over"),
		),
		watchAgain: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "watch again"),
		),
		cancelAutoplay: key.NewBinding(
			key.WithKeys("c", "esc"),
			key.WithHelp("c", "cancel autoplay"),
		),
		next: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "next lesson"),
		),
		previous: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "previous lesson"),
		),
		retry: key.NewBinding(
			key.WithKeys("enter", "R"),
			key.WithHelp("enter", "retry"),
		),
		orientation: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "landscape"),
		),
		transcript: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "transcript"),
		),
		openResource: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "open resource"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

// watchBindings returns the controls that apply to the current session.
func (k *statefulKeymap) watchBindings() []key.Binding {
	s := k.session
	var bindings []key.Binding

	switch s.State {
	case playback.ResumePrompt:
		bindings = append(bindings, k.resume, k.startOver)
	case playback.Playing, playback.Paused, playback.Buffering:
		bindings = append(bindings, k.playPause, k.rate, k.seekBack, k.seekForward)
	case playback.Completed:
		bindings = append(bindings, k.watchAgain)
		if s.Countdown.IsPresent() {
			bindings = append(bindings, k.cancelAutoplay)
		}
	case playback.Error:
		bindings = append(bindings, k.retry)
	case playback.LoadFailed:
		if failure, ok := s.Err.Get(); !ok || !failure.Fatal {
			bindings = append(bindings, k.retry)
		}
	}

	if s.Next.IsPresent() {
		bindings = append(bindings, k.next)
	}
	if s.Previous.IsPresent() {
		bindings = append(bindings, k.previous)
	}
	if s.OrientationSupported && s.HasVideo() {
		bindings = append(bindings, k.orientation)
	}
	if lesson, ok := s.Lesson.Get(); ok {
		if lesson.Transcript != nil {
			bindings = append(bindings, k.transcript)
		}
		if len(lesson.Resources) > 0 {
			bindings = append(bindings, k.openResource)
		}
	}

	return append(bindings, k.quit)
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case lessonsState:
		return to2(h(k.confirm, k.filter))
	case watchState:
		return to2(k.watchBindings())
	case errorState:
		return to2(h(k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		Filter:               k.filter,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}
