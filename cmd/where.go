package cmd

import (
	"os"

	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// location is a path cpl reads or writes. Hidden ones are only printed when asked for.
type location struct {
	label  string
	flag   string
	short  string
	path   func() string
	hidden bool
}

var locations = []location{
	{"Config", "config", "c", where.Config, false},
	{"Logs", "logs", "l", where.Logs, false},
	{"Recent lessons", "recent", "r", where.Recent, false},
	{"Cache", "cache", "", where.Cache, true},
	{"Course catalog", "catalog", "", where.Catalog, true},
	{"Metrics", "metrics", "", where.Metrics, true},
	{"Temp", "temp", "", where.Temp, true},
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, l := range locations {
		whereCmd.Flags().BoolP(l.flag, l.short, false, "print the "+l.label+" path")
		if l.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(l.flag))
		}
	}
	whereCmd.MarkFlagsMutuallyExclusive(lo.Map(locations, func(l location, _ int) string {
		return l.flag
	})...)

	whereCmd.SetOut(os.Stdout)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Display the paths of files cpl reads and writes",
	Example: `  cpl where
  cpl where --logs`,
	Run: func(cmd *cobra.Command, args []string) {
		if l, ok := lo.Find(locations, func(l location) bool {
			return lo.Must(cmd.Flags().GetBool(l.flag))
		}); ok {
			cmd.Println(l.path())
			return
		}

		label := style.New().Bold(true).Foreground(color.HiPurple).Render
		flag := style.Fg(color.Yellow)
		for i, l := range lo.Reject(locations, func(l location, _ int) bool { return l.hidden }) {
			if i > 0 {
				cmd.Println()
			}
			cmd.Printf("%s %s\n", label(l.label), flag("--"+l.flag))
			cmd.Println(l.path())
		}
	},
}
