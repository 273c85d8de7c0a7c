package ui

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestNotice(t *testing.T) {
	Convey("Given a notice", t, func() {
		n := &Notice{}

		Convey("It shows the latest text", func() {
			cmd := n.Update(Notify("saved")())
			So(cmd, ShouldNotBeNil)
			So(n.Text(), ShouldEqual, "saved")
			So(n.View("body"), ShouldContainSubstring, "saved")
		})

		Convey("A stale clear does not hide a newer notice", func() {
			n.Update(Notify("first")())
			n.Update(Notify("second")())
			n.Update(clearNoticeMsg{seq: 1})
			So(n.Text(), ShouldEqual, "second")

			n.Update(clearNoticeMsg{seq: 2})
			So(n.Text(), ShouldBeEmpty)
			So(n.View("body"), ShouldEqual, "body")
		})
	})
}
