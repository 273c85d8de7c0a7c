package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/device"
	"github.com/copypastelearn/cpl/internal/ui"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/recent"
	"github.com/copypastelearn/cpl/scheduler"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/util"
	"github.com/samber/mo"
)

type statefulBubble struct {
	state state

	keymap *statefulKeymap

	spinnerC  spinner.Model
	progressC progress.Model
	lessonsC  list.Model
	helpC     help.Model
	notice    ui.Notice

	options     *Options
	sched       scheduler.Scheduler
	wakeLock    *device.WakeLock
	orientation *device.Orientation

	course     mo.Option[api.CourseDetail]
	controller *playback.Controller
	session    playback.Session
	remembered string

	showTranscript bool
	lastError      error
	quitting       bool

	width, height int
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	xx, yy := listExtraPaddingStyle.GetFrameSize()

	b.lessonsC.SetSize(width-xx, height-yy)
	b.lessonsC.Help.Width = width - xx

	b.width = width - x
	b.height = height - y
	b.progressC.Width = util.Max(b.width-12, 10)
	b.helpC.Width = b.width
}

// open replaces the current session with one for the given lesson.
func (b *statefulBubble) open(courseSlug, lessonSlug string) {
	if b.controller != nil {
		b.controller.Close()
	}

	b.remembered = ""
	b.showTranscript = false
	b.controller = playback.New(courseSlug, lessonSlug, b.options.Config, playback.Deps{
		API:         b.options.API,
		Engine:      b.options.Engine,
		Scheduler:   b.sched,
		Tracker:     b.options.Tracker,
		WakeLock:    b.wakeLock,
		Orientation: b.orientation,
		Navigate:    b.open,
		OnChange:    b.onChange,
	})
	b.session = b.controller.Session()
	b.setState(watchState)
	b.controller.Mount()
}

func (b *statefulBubble) onChange(s playback.Session) {
	b.session = s
	b.keymap.session = s

	key := s.CourseSlug + "/" + s.LessonSlug
	if s.Title != "" && b.remembered != key {
		b.remembered = key
		if err := recent.Save(s.CourseSlug, s.LessonSlug, s.Title); err != nil {
			log.Warnf("tui: remember %s: %v", key, err)
		}
	}
}

func newBubble(options *Options) *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := statefulBubble{
		keymap:      keymap,
		options:     options,
		wakeLock:    device.NewWakeLock(nil),
		orientation: device.NewOrientation(nil),
	}
	if options.Engine != nil {
		bubble.wakeLock = device.NewWakeLock(options.Engine)
		bubble.orientation = device.NewOrientation(options.Engine)
	}

	bubble.helpC = help.New()

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = lipgloss.NewStyle().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(style.AccentColor).
		Foreground(style.AccentColor).
		Padding(0, 0, 0, 1)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedTitle

	bubble.lessonsC = list.New([]list.Item{}, delegate, 0, 0)
	bubble.lessonsC.KeyMap = keymap.forList()
	bubble.lessonsC.AdditionalShortHelpKeys = keymap.ShortHelp
	bubble.lessonsC.Styles.Title = lipgloss.NewStyle().Foreground(style.Base).Background(style.Peach).Padding(0, 1)
	bubble.lessonsC.StatusMessageLifetime = time.Hour * 999
	bubble.lessonsC.SetShowPagination(false)
	bubble.lessonsC.SetShowStatusBar(false)
	bubble.lessonsC.SetStatusBarItemName("lesson", "lessons")

	if w, h, err := util.TerminalSize(); err == nil {
		bubble.resize(w, h)
	}

	return &bubble
}
