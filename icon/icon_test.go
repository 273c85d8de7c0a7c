package icon

import (
	"testing"

	"github.com/copypastelearn/cpl/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestGet(t *testing.T) {
	Convey("Given a registered icon", t, func() {
		target := Buffering

		Convey("It renders for each variant", func() {
			for _, variant := range AvailableVariants() {
				Convey("variant="+variant, func() {
					viper.Set(key.IconsVariant, variant)
					So(Get(target), ShouldNotBeEmpty)
				})
			}
		})

		Convey("It returns empty for an unknown variant", func() {
			viper.Set(key.IconsVariant, "")
			So(Get(target), ShouldBeEmpty)
		})
	})

	Convey("Every icon has all variants", t, func() {
		for i, d := range icons {
			So(i, ShouldBeGreaterThan, 0)
			So(d.emoji, ShouldNotBeEmpty)
			So(d.nerd, ShouldNotBeEmpty)
			So(d.plain, ShouldNotBeEmpty)
			So(d.squares, ShouldNotBeEmpty)
		}
	})
}
