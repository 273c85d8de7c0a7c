package cmd

import (
	"context"
	"errors"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/playback"
	"github.com/copypastelearn/cpl/player"
	"github.com/copypastelearn/cpl/recent"
	"github.com/copypastelearn/cpl/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolP("continue", "c", false, "Continue the most recently opened lesson")
	watchCmd.Flags().Bool("no-autoplay", false, "Do not play the next lesson automatically")
}

var watchCmd = &cobra.Command{
	Use:   "watch [course] [lesson]",
	Short: "Watch a lesson",
	Long: `Watch a lesson in mpv while its progress is saved to your account.

Without a lesson, the lessons of the course are listed to pick from.`,
	Example: `  cpl watch docker-basics images
  cpl watch docker-basics
  cpl watch --continue`,
	Args: cobra.RangeArgs(0, 2),
	Run: func(cmd *cobra.Command, args []string) {
		// Notices are shown inside the screen while it runs.
		notices := make(chan string, 4)
		client := newClientWith(func(text string) {
			select {
			case notices <- text:
			default:
			}
		})
		defer exportMetrics()

		var courseSlug, lessonSlug string
		switch {
		case lo.Must(cmd.Flags().GetBool("continue")):
			last, err := lastLesson(cmd.Context(), client)
			handleErr(err)
			courseSlug, lessonSlug = last.CourseSlug, last.LessonSlug
		case len(args) == 0:
			handleErr(cmd.Help())
			return
		default:
			courseSlug = args[0]
			if len(args) == 2 {
				lessonSlug = args[1]
			}
		}

		checkPlayer()

		cfg := playback.ConfigFromViper()
		if lo.Must(cmd.Flags().GetBool("no-autoplay")) {
			cfg.Autoplay = false
		}

		err := tui.Run(&tui.Options{
			CourseSlug: courseSlug,
			LessonSlug: lessonSlug,
			API:        client,
			Engine:     player.NewMPV(viper.GetString(key.PlayerBinary)),
			Tracker:    tracker(),
			Config:     cfg,
			Notices:    notices,
		})
		flushNotices(notices)
		handleErr(err)
	},
}

// flushNotices prints notices that arrived after the screen closed.
func flushNotices(notices <-chan string) {
	for {
		select {
		case text := <-notices:
			printNotice(text)
		default:
			return
		}
	}
}

// lastLesson asks the server for the most recent lesson and falls back to the local list when it is unreachable.
func lastLesson(ctx context.Context, client *api.Client) (recent.Lesson, error) {
	dashboard, err := client.Dashboard(ctx)
	if err == nil && len(dashboard.RecentLessons) > 0 {
		r := dashboard.RecentLessons[0]
		return recent.Lesson{CourseSlug: r.CourseSlug, LessonSlug: r.Slug, Title: r.Title, OpenedAt: r.LastAccessedAt}, nil
	}
	if api.IsAuth(err) {
		return recent.Lesson{}, err
	}
	if err != nil {
		log.Warnf("dashboard unavailable, using local history: %v", err)
	}

	local, localErr := recent.Last()
	if localErr != nil {
		return recent.Lesson{}, localErr
	}
	lesson, ok := local.Get()
	if !ok {
		return recent.Lesson{}, errors.New("no lesson to continue, start one with `cpl watch <course> <lesson>`")
	}
	return lesson, nil
}
