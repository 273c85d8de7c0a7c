package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/catalog"
	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/telemetry"
	"github.com/copypastelearn/cpl/util"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(courseCmd)

	courseCmd.Flags().BoolP("json", "j", false, "Format the output as JSON")
	courseCmd.SetOut(os.Stdout)
}

var courseCmd = &cobra.Command{
	Use:   "course [slug]",
	Short: "Show a course and its lessons",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defer exportMetrics()

		client := newClient()
		course, err := client.Course(cmd.Context(), args[0])
		if api.KindOf(err) == api.APIError {
			err = withSuggestion(cmd.Context(), client, args[0], err)
		}
		handleErr(err)

		tracker().Track(telemetry.CourseView, telemetry.Properties{"courseSlug": course.Slug})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(course))
			return
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil {
			width = util.Min(w, 100)
		}

		cmd.Println(style.Title(course.Title))
		cmd.Println(style.Faint(fmt.Sprintf("%s · %s", course.Slug, course.Difficulty)))
		if p := course.UserProgress; p != nil {
			cmd.Println(style.Fg(color.Green)(fmt.Sprintf("%.0f%% complete", p.PercentComplete)))
		}
		cmd.Println()
		if course.Description != "" {
			cmd.Println(wordwrap.String(course.Description, width))
			cmd.Println()
		}

		for _, lesson := range course.Lessons {
			mark := " "
			switch {
			case !lesson.IsAccessible:
				mark = icon.Get(icon.Lock)
			case lesson.UserProgress != nil && lesson.UserProgress.Completed:
				mark = style.Fg(color.Green)(icon.Get(icon.Complete))
			}

			duration := ""
			if d := lesson.DurationSeconds; d != nil {
				duration = style.Faint(util.Clock(float64(*d)))
			}
			cmd.Printf("%s %2d. %s %s %s\n", mark, lesson.SortOrder, lesson.Title, style.Fg(color.Yellow)(lesson.Slug), duration)
		}
	},
}

// withSuggestion adds the closest catalog slug to a failed course lookup.
func withSuggestion(ctx context.Context, client *api.Client, slug string, err error) error {
	courses, listErr := newCatalog(client).Courses(ctx)
	if listErr != nil {
		return err
	}
	if suggestion, ok := catalog.Suggest(catalog.Slugs(courses), slug).Get(); ok {
		return fmt.Errorf("%w, did you mean %s?", err, style.Fg(color.Yellow)(suggestion))
	}
	return err
}
