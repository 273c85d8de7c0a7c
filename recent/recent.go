// Package recent remembers the lessons opened on this machine so that
// `watch --continue` can reopen the last one. Positions are never stored here;
// the server is the only source of truth for progress.
package recent

import (
	"sort"
	"time"

	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Limit is the number of lessons kept.
const Limit = 20

// Lesson is one remembered lesson.
type Lesson struct {
	CourseSlug string    `json:"course_slug"`
	LessonSlug string    `json:"lesson_slug"`
	Title      string    `json:"title"`
	OpenedAt   time.Time `json:"opened_at"`
}

func (l Lesson) encode() string {
	return l.CourseSlug + "/" + l.LessonSlug
}

var cacher = filesystem.NewCache[map[string]Lesson](where.Recent(), 0)

func load() (map[string]Lesson, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]Lesson), nil
	}
	return cached, nil
}

// Get returns the remembered lessons, most recently opened first.
func Get() ([]Lesson, error) {
	saved, err := load()
	if err != nil {
		return nil, err
	}

	lessons := lo.Values(saved)
	sort.Slice(lessons, func(i, j int) bool {
		return lessons[i].OpenedAt.After(lessons[j].OpenedAt)
	})
	return lessons, nil
}

// Last returns the most recently opened lesson, if any.
func Last() (mo.Option[Lesson], error) {
	lessons, err := Get()
	if err != nil {
		return mo.None[Lesson](), err
	}
	if len(lessons) == 0 {
		return mo.None[Lesson](), nil
	}
	return mo.Some(lessons[0]), nil
}

// Save records that a lesson was opened now, dropping the oldest entries past Limit.
func Save(courseSlug, lessonSlug, title string) error {
	return save(Lesson{
		CourseSlug: courseSlug,
		LessonSlug: lessonSlug,
		Title:      title,
		OpenedAt:   time.Now(),
	})
}

func save(lesson Lesson) error {
	saved, err := load()
	if err != nil {
		return err
	}

	if existing, ok := saved[lesson.encode()]; ok && lesson.Title == "" {
		lesson.Title = existing.Title
	}
	saved[lesson.encode()] = lesson

	if len(saved) > Limit {
		oldest := lo.MinBy(lo.Values(saved), func(a, b Lesson) bool {
			return a.OpenedAt.Before(b.OpenedAt)
		})
		delete(saved, oldest.encode())
	}

	return cacher.Set(saved)
}

// Remove forgets one lesson.
func Remove(lesson Lesson) error {
	saved, err := load()
	if err != nil {
		return err
	}

	delete(saved, lesson.encode())
	return cacher.Set(saved)
}
