package util

import (
	"math"
	"testing"

	"github.com/copypastelearn/cpl/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "lesson", "lessons"), ShouldEqual, "1 lesson")
		So(Quantify(2, "lesson", "lessons"), ShouldEqual, "2 lessons")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestClock(t *testing.T) {
	Convey("Clock", t, func() {
		So(Clock(0), ShouldEqual, "0:00")
		So(Clock(65.9), ShouldEqual, "1:05")
		So(Clock(3725), ShouldEqual, "1:02:05")
		So(Clock(-4), ShouldEqual, "0:00")
		So(Clock(math.NaN()), ShouldEqual, "0:00")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min/Clamp", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
		So(Clamp(7, 0, 5), ShouldEqual, 5)
		So(Clamp(-1.5, 0, 1), ShouldEqual, 0)
		So(Clamp(0.5, 0, 1), ShouldEqual, 0.5)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		fs := filesystem.API()
		So(fs.MkdirAll("/tmp/cpl/dir", 0o755), ShouldBeNil)
		So(fs.WriteFile("/tmp/cpl/dir/file", []byte("x"), 0o644), ShouldBeNil)

		So(Delete("/tmp/cpl/dir"), ShouldBeNil)
		So(lo.Must(fs.Exists("/tmp/cpl/dir")), ShouldBeFalse)
		So(Delete("/tmp/cpl/missing"), ShouldNotBeNil)
	})
}
