package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/util"
)

// lessonItem is one row of the lesson picker.
type lessonItem struct {
	lesson api.LessonSummary
}

func (t *lessonItem) mark() string {
	switch {
	case !t.lesson.IsAccessible:
		return icon.Get(icon.Lock)
	case t.lesson.UserProgress != nil && t.lesson.UserProgress.Completed:
		return lipgloss.NewStyle().Foreground(style.SuccessColor).Render(icon.Get(icon.Complete))
	case t.lesson.UserProgress != nil && t.lesson.UserProgress.VideoPositionSeconds > 0:
		return icon.Get(icon.Pause)
	default:
		return ""
	}
}

func (t *lessonItem) Title() string {
	title := fmt.Sprintf("%d. %s", t.lesson.SortOrder, t.lesson.Title)
	if mark := t.mark(); mark != "" {
		title += " " + mark
	}
	return title
}

func (t *lessonItem) Description() string {
	var parts []string
	if d := t.lesson.DurationSeconds; d != nil {
		parts = append(parts, util.Clock(float64(*d)))
	}
	if t.lesson.IsFree {
		parts = append(parts, "free")
	}
	if t.lesson.HasLab {
		parts = append(parts, "lab")
	}
	if p := t.lesson.UserProgress; p != nil && !p.Completed && p.VideoPositionSeconds > 0 {
		parts = append(parts, "stopped at "+util.Clock(p.VideoPositionSeconds))
	}
	return style.Faint(strings.Join(parts, " · "))
}

func (t *lessonItem) FilterValue() string {
	return t.lesson.Title
}
