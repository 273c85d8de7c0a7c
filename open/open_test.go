package open

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCheck(t *testing.T) {
	Convey("Web links are accepted", t, func() {
		So(check("https://copypastelearn.com/courses/docker-basics"), ShouldBeNil)
		So(check("http://localhost:3000/cheatsheet.pdf"), ShouldBeNil)
	})

	Convey("Other links are refused", t, func() {
		for _, link := range []string{
			"file:///etc/passwd",
			"javascript:alert(1)",
			"/relative/path",
			"https://",
			"",
		} {
			So(check(link), ShouldNotBeNil)
		}
	})
}
