package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeFalse)

		Convey("Structured entries are discarded", func() {
			So(func() { WithFields(Fields{"lesson": "l1"}).Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)
		So(Enabled(), ShouldBeTrue)

		Convey("Today's file is created", func() {
			name := time.Now().Format("2006-01-02") + ".log"
			So(lo.Must(filesystem.API().Exists(filepath.Join(where.Logs(), name))), ShouldBeTrue)
		})
	})
}

func TestExpired(t *testing.T) {
	Convey("Given a logs directory with files of several ages", t, func() {
		dir := where.Logs()
		today := time.Date(2026, 3, 20, 9, 0, 0, 0, time.Local)
		for _, name := range []string{"2026-03-20.log", "2026-03-06.log", "2026-03-05.log", "2025-12-31.log", "notes.log", "2026-01-01.txt"} {
			So(filesystem.API().WriteFile(filepath.Join(dir, name), []byte("x"), 0o644), ShouldBeNil)
		}

		Convey("Only daily files older than the retention are listed", func() {
			So(expired(dir, today), ShouldResemble, []string{
				filepath.Join(dir, "2025-12-31.log"),
				filepath.Join(dir, "2026-03-05.log"),
			})
		})
	})
}
