package version

import (
	"context"
	"fmt"

	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/util"
	"github.com/spf13/viper"
)

// Notify prints a notice when a newer release exists. It is silent unless cli.version_check is set.
func Notify(ctx context.Context) {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Buffering)))
	latest, err := Latest(ctx)
	erase()
	if err != nil {
		return
	}
	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(ReleasesURL+"/tag/v"+latest),
	)
}
