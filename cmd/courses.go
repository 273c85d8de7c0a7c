package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/catalog"
	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/telemetry"
	"github.com/copypastelearn/cpl/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(coursesCmd)

	coursesCmd.Flags().StringP("filter", "f", "", "Only show courses whose title or slug fuzzily matches")
	coursesCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	coursesCmd.Flags().Bool("schema", false, "Print the JSON schema of the --json output")
	coursesCmd.Flags().BoolP("refresh", "r", false, "Ignore the cached catalog")
	coursesCmd.MarkFlagsMutuallyExclusive("json", "schema")

	coursesCmd.SetOut(os.Stdout)
}

var coursesCmd = &cobra.Command{
	Use:     "courses",
	Short:   "List the course catalog",
	Aliases: []string{"catalog"},
	Run: func(cmd *cobra.Command, args []string) {
		if lo.Must(cmd.Flags().GetBool("schema")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(schemaOf([]api.CourseListItem{})))
			return
		}

		defer exportMetrics()

		c := newCatalog(newClient())
		fetch := c.Courses
		if lo.Must(cmd.Flags().GetBool("refresh")) {
			fetch = c.Refresh
		}

		erase := util.PrintErasable(fmt.Sprintf("%s Fetching courses...", icon.Get(icon.Buffering)))
		courses, err := fetch(cmd.Context())
		erase()
		handleErr(err)

		tracker().Track(telemetry.CatalogView, telemetry.Properties{"courses": len(courses)})
		courses = catalog.Filter(courses, lo.Must(cmd.Flags().GetString("filter")))

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(courses))
			return
		}

		if len(courses) == 0 {
			cmd.Println(style.Faint("No courses found"))
			return
		}

		for i, course := range courses {
			title := style.New().Bold(true).Foreground(color.Purple).Render(course.Title)
			cmd.Printf("%s %s\n", title, style.Faint(string(course.Difficulty)))
			cmd.Printf("%s · %s", style.Fg(color.Yellow)(course.Slug), util.Quantify(course.LessonCount, "lesson", "lessons"))
			if p := course.UserProgress; p != nil {
				cmd.Printf(" · %s", style.Fg(color.Green)(fmt.Sprintf("%.0f%% complete", p.PercentComplete)))
			}
			cmd.Println()
			if course.Description != "" {
				cmd.Println(style.Faint(style.Truncate(80)(course.Description)))
			}

			if i < len(courses)-1 {
				cmd.Println()
			}
		}
	},
}

func schemaOf(v any) *jsonschema.Schema {
	reflector := new(jsonschema.Reflector)
	reflector.Anonymous = true
	reflector.Namer = func(t reflect.Type) string {
		return "api." + t.Name()
	}
	return reflector.Reflect(v)
}
