package cmd

import (
	"testing"

	"github.com/copypastelearn/cpl/config"
	"github.com/copypastelearn/cpl/key"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseValue(t *testing.T) {
	Convey("Values take the type of the default", t, func() {
		v, err := parseValue(config.Default[key.PlayerAutoplay], []string{"false"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, false)

		v, err = parseValue(config.Default[key.PlayerSaveIntervalMs], []string{"5000"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, 5000)

		v, err = parseValue(config.Default[key.PlayerBinary], []string{"/opt/mpv/bin/mpv"})
		So(err, ShouldBeNil)
		So(v, ShouldEqual, "/opt/mpv/bin/mpv")
	})

	Convey("Malformed values are rejected", t, func() {
		_, err := parseValue(config.Default[key.PlayerAutoplay], []string{"sometimes"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.PlayerAutoplayCountdown], []string{"-1"})
		So(err, ShouldNotBeNil)

		_, err = parseValue(config.Default[key.PlayerBinary], nil)
		So(err, ShouldNotBeNil)
	})
}

func TestErrUnknownKey(t *testing.T) {
	Convey("Unknown keys suggest the closest known one", t, func() {
		err := errUnknownKey("player.autoply")
		So(err.Error(), ShouldContainSubstring, key.PlayerAutoplay)
	})
}
