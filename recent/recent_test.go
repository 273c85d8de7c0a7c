package recent

import (
	"fmt"
	"testing"
	"time"

	"github.com/copypastelearn/cpl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestRecent(t *testing.T) {
	Convey("Given an empty list of recent lessons", t, func() {
		So(cacher.Set(map[string]Lesson{}), ShouldBeNil)

		Convey("Last is empty", func() {
			last, err := Last()
			So(err, ShouldBeNil)
			So(last.IsPresent(), ShouldBeFalse)
		})

		Convey("When two lessons are opened", func() {
			now := time.Now()
			So(save(Lesson{CourseSlug: "bash", LessonSlug: "pipes", Title: "Pipes", OpenedAt: now.Add(-time.Minute)}), ShouldBeNil)
			So(save(Lesson{CourseSlug: "bash", LessonSlug: "redirects", Title: "Redirects", OpenedAt: now}), ShouldBeNil)

			Convey("The newest comes first", func() {
				lessons, err := Get()
				So(err, ShouldBeNil)
				So(lessons, ShouldHaveLength, 2)
				So(lessons[0].LessonSlug, ShouldEqual, "redirects")

				last, err := Last()
				So(err, ShouldBeNil)
				So(last.MustGet().Title, ShouldEqual, "Redirects")
			})

			Convey("Reopening a lesson moves it to the front", func() {
				So(Save("bash", "pipes", ""), ShouldBeNil)
				last, _ := Last()
				So(last.MustGet().LessonSlug, ShouldEqual, "pipes")
				So(last.MustGet().Title, ShouldEqual, "Pipes")
			})

			Convey("A lesson can be forgotten", func() {
				lessons, _ := Get()
				So(Remove(lessons[0]), ShouldBeNil)
				lessons, _ = Get()
				So(lessons, ShouldHaveLength, 1)
				So(lessons[0].LessonSlug, ShouldEqual, "pipes")
			})
		})

		Convey("Only the newest lessons are kept", func() {
			start := time.Now()
			for i := 0; i < Limit+5; i++ {
				So(save(Lesson{CourseSlug: "go", LessonSlug: fmt.Sprint(i), OpenedAt: start.Add(time.Duration(i) * time.Second)}), ShouldBeNil)
			}

			lessons, err := Get()
			So(err, ShouldBeNil)
			So(lessons, ShouldHaveLength, Limit)
			So(lessons[len(lessons)-1].LessonSlug, ShouldEqual, "5")
		})
	})
}
