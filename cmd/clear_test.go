package cmd

import (
	"path/filepath"
	"testing"

	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestClearPath(t *testing.T) {
	Convey("Given saved local state", t, func() {
		recent := where.Recent()
		So(filesystem.API().WriteFile(recent, []byte(`[]`), 0o644), ShouldBeNil)

		cached := filepath.Join(where.Cache(), "course", "bash.json")
		So(filesystem.API().MkdirAll(filepath.Dir(cached), 0o755), ShouldBeNil)
		So(filesystem.API().WriteFile(cached, []byte(`{}`), 0o644), ShouldBeNil)

		Convey("Files and whole directories are removed", func() {
			So(clearPath(recent), ShouldBeNil)
			So(clearPath(where.Cache()), ShouldBeNil)
			So(lo.Must(filesystem.API().Exists(recent)), ShouldBeFalse)
			So(lo.Must(filesystem.API().Exists(cached)), ShouldBeFalse)
		})

		Convey("Clearing twice is not an error", func() {
			So(clearPath(recent), ShouldBeNil)
			So(clearPath(recent), ShouldBeNil)
		})
	})
}
