package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/util"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

// clearable is local state that can be removed without losing anything stored on the server.
type clearable struct {
	flag  string
	short string
	what  string
	path  func() string
}

var clearables = []clearable{
	{"cache", "c", "cache directory", where.Cache},
	{"catalog", "a", "course catalog", where.Catalog},
	{"recent", "r", "recent lessons", where.Recent},
	{"metrics", "", "metrics file", where.Metrics},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, c := range clearables {
		clearCmd.Flags().BoolP(c.flag, c.short, false, "clear the "+c.what)
	}
	clearCmd.Flags().Bool("all", false, "clear all of the above")
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and locally saved data",
	Long: `Clear cached and locally saved data.

Progress and completion live on the server and are never touched.`,
	Example: `  cpl clear --catalog
  cpl clear --all`,
	Run: func(cmd *cobra.Command, args []string) {
		all := lo.Must(cmd.Flags().GetBool("all"))
		chosen := lo.Filter(clearables, func(c clearable, _ int) bool {
			return all || lo.Must(cmd.Flags().GetBool(c.flag))
		})
		if len(chosen) == 0 {
			handleErr(cmd.Help())
			return
		}

		for _, c := range chosen {
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing the %s...", icon.Get(icon.Buffering), c.what))
			err := clearPath(c.path())
			erase()
			handleErr(err)
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(c.what))
		}
	},
}

// clearPath removes a file or directory. A path that is already gone is not an error.
func clearPath(path string) error {
	if err := util.Delete(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
