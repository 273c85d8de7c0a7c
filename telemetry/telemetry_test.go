package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRecorder(t *testing.T) {
	Convey("Given an enabled recorder", t, func() {
		r := NewRecorder(true)

		Convey("It counts each event by name", func() {
			r.Track(LessonView, Properties{"lessonId": "l1"})
			r.Track(ProgressSaveSuccess, nil)
			r.Track(ProgressSaveSuccess, nil)

			So(testutil.ToFloat64(r.events.WithLabelValues(string(LessonView))), ShouldEqual, 1)
			So(testutil.ToFloat64(r.events.WithLabelValues(string(ProgressSaveSuccess))), ShouldEqual, 2)
			So(testutil.ToFloat64(r.events.WithLabelValues(string(LessonComplete))), ShouldEqual, 0)
		})

		Convey("It remembers the last properties", func() {
			r.Track(ProgressSaveFail, Properties{"op": "position"})
			props, ok := r.Last(ProgressSaveFail)
			So(ok, ShouldBeTrue)
			So(props["op"], ShouldEqual, "position")
		})

		Convey("It has a session id", func() {
			So(r.Session(), ShouldNotBeEmpty)
			So(NewRecorder(true).Session(), ShouldNotEqual, r.Session())
		})

		Convey("It exports every event series", func() {
			r.Track(CatalogView, nil)
			path := filepath.Join(t.TempDir(), "metrics.prom")
			So(r.Export(path), ShouldBeNil)

			data, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			So(strings.Count(string(data), "cpl_events_total{"), ShouldEqual, len(Events))
			So(string(data), ShouldContainSubstring, `cpl_events_total{event="catalog_view"} 1`)
		})
	})

	Convey("Given a disabled recorder", t, func() {
		r := NewRecorder(false)
		r.Track(LessonComplete, nil)

		So(testutil.ToFloat64(r.events.WithLabelValues(string(LessonComplete))), ShouldEqual, 0)
		_, ok := r.Last(LessonComplete)
		So(ok, ShouldBeFalse)
	})

	Convey("Nop accepts anything", t, func() {
		So(func() { Nop.Track(LessonView, Properties{"x": 1}) }, ShouldNotPanic)
	})
}
