package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/telemetry"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

func (b *statefulBubble) loadCourse(slug string) tea.Cmd {
	fetch := b.options.API.Course
	return func() tea.Msg {
		course, err := fetch(context.Background(), slug)
		return courseLoadedMsg{course: course, err: err}
	}
}

func (b *statefulBubble) onCourseLoaded(msg courseLoadedMsg) tea.Cmd {
	if msg.err != nil {
		b.raiseError(msg.err)
		return nil
	}

	b.course = mo.Some(msg.course)
	b.options.Tracker.Track(telemetry.CourseView, telemetry.Properties{"courseSlug": msg.course.Slug})

	items := lo.Map(msg.course.Lessons, func(l api.LessonSummary, _ int) list.Item {
		return &lessonItem{lesson: l}
	})
	b.lessonsC.Title = msg.course.Title
	cmd := b.lessonsC.SetItems(items)

	// Land on the first lesson that is not finished yet.
	if i, ok := lo.Find(lo.Range(len(msg.course.Lessons)), func(i int) bool {
		p := msg.course.Lessons[i].UserProgress
		return p == nil || !p.Completed
	}); ok {
		b.lessonsC.Select(i)
	}

	b.setState(lessonsState)
	return cmd
}
