package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)

	dashboardCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	dashboardCmd.SetOut(os.Stdout)
}

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Short:   "Show your progress",
	Aliases: []string{"me"},
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()

		var (
			dashboard api.DashboardData
			courses   []api.CourseListItem
		)

		erase := util.PrintErasable(fmt.Sprintf("%s Fetching progress...", icon.Get(icon.Buffering)))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() (err error) {
			dashboard, err = client.Dashboard(ctx)
			return err
		})
		g.Go(func() (err error) {
			courses, err = newCatalog(client).Courses(ctx)
			return err
		})
		err := g.Wait()
		erase()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(dashboard))
			return
		}

		header := style.New().Bold(true).Foreground(color.HiPurple).Render
		if name := dashboard.UserName; name != nil {
			cmd.Println(style.Title("Hi, " + *name))
			cmd.Println()
		}

		started := len(dashboard.InProgressCourses) + len(dashboard.CompletedCourses)
		cmd.Printf("%s completed · %s started of %d\n\n",
			util.Quantify(dashboard.TotalLessonsCompleted, "lesson", "lessons"),
			util.Quantify(started, "course", "courses"),
			len(courses),
		)

		if len(dashboard.InProgressCourses) > 0 {
			cmd.Println(header("In progress"))
			for _, c := range dashboard.InProgressCourses {
				cmd.Printf("%s %s %s\n", c.Title, style.Fg(color.Yellow)(c.Slug), style.Faint(fmt.Sprintf("%.0f%%", c.PercentComplete)))
				if next := c.NextLesson; next != nil {
					cmd.Printf("  %s %s %s\n", icon.Get(icon.Next), next.Title, style.Faint("cpl watch "+c.Slug+" "+next.Slug))
				}
			}
			cmd.Println()
		}

		if len(dashboard.CompletedCourses) > 0 {
			cmd.Println(header("Completed"))
			for _, c := range dashboard.CompletedCourses {
				cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Complete)), c.Title)
			}
			cmd.Println()
		}

		if len(dashboard.RecentLessons) > 0 {
			cmd.Println(header("Recent lessons"))
			for _, l := range lo.Slice(dashboard.RecentLessons, 0, 5) {
				mark := " "
				if l.Completed {
					mark = style.Fg(color.Green)(icon.Get(icon.Complete))
				}
				cmd.Printf("%s %s %s\n", mark, l.Title, style.Faint(l.CourseTitle))
			}
		}
	},
}
