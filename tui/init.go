package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Init opens the requested lesson, or loads the course to pick one.
func (b *statefulBubble) Init() tea.Cmd {
	if b.options.LessonSlug != "" {
		b.open(b.options.CourseSlug, b.options.LessonSlug)
		return b.spinnerC.Tick
	}

	b.setState(loadingState)
	return tea.Batch(b.spinnerC.Tick, b.loadCourse(b.options.CourseSlug))
}
