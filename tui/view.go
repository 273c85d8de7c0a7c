package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

var (
	listExtraPaddingStyle = lipgloss.NewStyle().Padding(1, 2, 1, 0)
	paddingStyle          = lipgloss.NewStyle().Padding(1, 2)
)

// transcriptLines caps the transcript shown under the player.
const transcriptLines = 12

func (b *statefulBubble) View() string {
	if b.quitting {
		return ""
	}

	var output string

	switch b.state {
	case loadingState:
		output = b.viewLoading()
	case lessonsState:
		output = b.viewLessons()
	case watchState:
		output = b.viewWatch()
	case errorState:
		output = b.viewError()
	default:
		output = "Unknown state"
	}

	return b.notice.View(output)
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Fetching " + b.options.CourseSlug,
		},
	)
}

func (b *statefulBubble) viewLessons() string {
	return listExtraPaddingStyle.Render(b.lessonsC.View())
}

func (b *statefulBubble) viewWatch() string {
	s := b.session
	title := s.Title
	if title == "" {
		title = s.LessonSlug
	}

	lines := []string{
		style.Title(title),
		style.Faint(s.CourseSlug),
		"",
	}

	switch s.State {
	case playback.Loading:
		lines = append(lines, b.spinnerC.View()+" Loading lesson")
	case playback.LoadFailed:
		lines = append(lines, b.viewFailure(s)...)
	case playback.ResumePrompt:
		offer, _ := s.Resume.Get()
		lines = append(lines,
			fmt.Sprintf("%s Continue from %s?", icon.Get(icon.Play), style.Bold(util.Clock(offer.Position))),
		)
	case playback.Ready:
		lines = append(lines, style.Faint("This lesson has no video."))
	default:
		lines = append(lines, b.viewPlayer(s)...)
	}

	if lesson, ok := s.Lesson.Get(); ok {
		lines = append(lines, b.viewExtras(lesson)...)
	}

	return b.renderLines(true, lines)
}

func (b *statefulBubble) viewPlayer(s playback.Session) []string {
	var status string
	switch s.State {
	case playback.Playing:
		status = icon.Get(icon.Play) + " Playing"
	case playback.Paused:
		status = icon.Get(icon.Pause) + " Paused"
	case playback.Buffering:
		status = b.spinnerC.View() + " Buffering"
	case playback.Completed:
		status = style.Fg(color.Green)(icon.Get(icon.Complete) + " Completed")
	case playback.Error:
		status = style.Fg(color.Red)(icon.Get(icon.Fail) + " Playback failed")
	}

	if s.Rate != playback.Rates[0] {
		status += style.Faint(fmt.Sprintf("  %s×", strconv.FormatFloat(s.Rate, 'f', -1, 64)))
	}
	if s.Landscape {
		status += style.Faint("  landscape")
	}

	percent := 0.0
	if s.Duration > 0 {
		percent = util.Clamp(s.Position/s.Duration, 0, 1)
	}

	lines := []string{
		status,
		"",
		fmt.Sprintf("%s %s / %s", b.progressC.ViewAs(percent), util.Clock(s.Position), util.Clock(s.Duration)),
	}

	switch s.State {
	case playback.Completed:
		if pct, ok := s.PercentComplete.Get(); ok {
			lines = append(lines, "", fmt.Sprintf("Course progress: %.0f%%", pct))
		}
		if next, ok := s.Next.Get(); ok {
			if n, counting := s.Countdown.Get(); counting {
				lines = append(lines, "", fmt.Sprintf("%s Up next in %d: %s", icon.Get(icon.Next), n, style.Fg(color.Purple)(next.Title)))
			} else {
				lines = append(lines, "", fmt.Sprintf("%s Next: %s", icon.Get(icon.Next), style.Fg(color.Purple)(next.Title)))
			}
		}
	case playback.Error:
		lines = append(lines, "")
		lines = append(lines, b.viewFailure(s)...)
	}

	return lines
}

func (b *statefulBubble) viewFailure(s playback.Session) []string {
	failure, ok := s.Err.Get()
	if !ok {
		return nil
	}

	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	lines := []string{wrap.String(errorStyle.Render(failure.Message), b.width)}
	if failure.Fatal {
		lines = append(lines, style.Faint("Run `cpl login` and try again."))
	}
	return lines
}

func (b *statefulBubble) viewExtras(lesson api.LessonDetail) []string {
	var lines []string

	if len(lesson.Resources) > 0 {
		lines = append(lines, "", style.Bold("Resources"))
		for i, r := range lesson.Resources {
			if i >= 9 {
				break
			}
			lines = append(lines, fmt.Sprintf("%s %d. %s", icon.Get(icon.Link), i+1, r.Title))
		}
	}

	if b.showTranscript && lesson.Transcript != nil {
		text := strings.Split(wordwrap.String(*lesson.Transcript, b.width), "\n")
		if len(text) > transcriptLines {
			text = append(text[:transcriptLines], "…")
		}
		lines = append(lines, "", style.Bold("Transcript"))
		lines = append(lines, text...)
	}

	return lines
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(style.ErrorColor).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(api.Message(b.lastError)), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	h := len(lines)
	l := strings.Join(lines, "\n")
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}
