package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeSource struct {
	courses []api.CourseListItem
	err     error
	calls   int
}

func (f *fakeSource) Courses(context.Context) ([]api.CourseListItem, error) {
	f.calls++
	return f.courses, f.err
}

var courses = []api.CourseListItem{
	{ID: "1", Title: "Bash Basics", Slug: "bash-basics"},
	{ID: "2", Title: "Docker Deep Dive", Slug: "docker"},
	{ID: "3", Title: "Go for Operators", Slug: "go-ops"},
}

func TestCatalog(t *testing.T) {
	Convey("Given a catalog backed by an in-memory disk", t, func() {
		filesystem.SetMemMapFs()
		src := &fakeSource{courses: courses}
		c := New(Options{Source: src, Path: "/cache/catalog.json"})

		Convey("The second read is served from disk", func() {
			first, err := c.Courses(context.Background())
			So(err, ShouldBeNil)
			second, err := c.Courses(context.Background())
			So(err, ShouldBeNil)

			So(second, ShouldResemble, first)
			So(src.calls, ShouldEqual, 1)
		})

		Convey("Refresh always asks the server", func() {
			_, _ = c.Courses(context.Background())
			_, err := c.Refresh(context.Background())
			So(err, ShouldBeNil)
			So(src.calls, ShouldEqual, 2)
		})

		Convey("Clear drops the cached copy", func() {
			_, _ = c.Courses(context.Background())
			So(c.Clear(), ShouldBeNil)
			_, _ = c.Courses(context.Background())
			So(src.calls, ShouldEqual, 2)
		})

		Convey("Server errors are returned", func() {
			src.err = errors.New("offline")
			_, err := c.Courses(context.Background())
			So(err, ShouldNotBeNil)
		})

		Convey("A disabled cache always asks the server", func() {
			c := New(Options{Source: src, Path: "/cache/other.json", Disabled: true})
			_, _ = c.Courses(context.Background())
			_, _ = c.Courses(context.Background())
			So(src.calls, ShouldEqual, 2)
		})
	})
}

func TestSearch(t *testing.T) {
	Convey("Filter", t, func() {
		Convey("An empty query keeps everything", func() {
			So(Filter(courses, " "), ShouldResemble, courses)
		})

		Convey("Matches titles and slugs case-insensitively", func() {
			got := Filter(courses, "docker")
			So(got, ShouldHaveLength, 1)
			So(got[0].Slug, ShouldEqual, "docker")

			got = Filter(courses, "GOOPS")
			So(got, ShouldHaveLength, 1)
			So(got[0].ID, ShouldEqual, "3")
		})

		Convey("Nothing matches nonsense", func() {
			So(Filter(courses, "zzz"), ShouldBeEmpty)
		})
	})

	Convey("Suggest", t, func() {
		slugs := Slugs(courses)

		Convey("Proposes a close slug", func() {
			So(Suggest(slugs, "dokcer").MustGet(), ShouldEqual, "docker")
		})

		Convey("Stays quiet for exact or distant input", func() {
			So(Suggest(slugs, "docker").IsPresent(), ShouldBeFalse)
			So(Suggest(slugs, "kubernetes").IsPresent(), ShouldBeFalse)
			So(Suggest(nil, "docker").IsPresent(), ShouldBeFalse)
		})
	})
}
