package playback

import (
	"github.com/copypastelearn/cpl/api"
	"github.com/samber/mo"
)

// State is the controller's position in the lesson lifecycle.
type State int

const (
	Loading State = iota
	Ready
	ResumePrompt
	Playing
	Paused
	Buffering
	// Error is a video failure shown over the player with a retry control.
	Error
	// LoadFailed is a failed initial load shown as a full-screen retry.
	LoadFailed
	Completed
	Closed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case ResumePrompt:
		return "resume-prompt"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Buffering:
		return "buffering"
	case Error:
		return "error"
	case LoadFailed:
		return "load-failed"
	case Completed:
		return "completed"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Completion records whether the lesson was finished in this session. It never reverts.
type Completion int

const (
	NotStarted Completion = iota
	Complete
)

// Rates are the playback speeds, in cycling order.
var Rates = []float64{1, 1.25, 1.5, 1.75, 2}

// NextRate returns the rate after r, wrapping to the first. Unknown rates restart the cycle.
func NextRate(r float64) float64 {
	for i, rate := range Rates {
		if rate == r {
			return Rates[(i+1)%len(Rates)]
		}
	}
	return Rates[0]
}

// ResumeOffer proposes continuing from a previously saved position.
type ResumeOffer struct {
	Position float64
}

// Failure is a user-visible error.
type Failure struct {
	Message string

	// Retried is set once the automatic credential refresh has been spent.
	Retried bool

	// Fatal failures end the session; no retry is offered.
	Fatal bool
}

// Session is a snapshot of one lesson's playback screen.
type Session struct {
	ID         string
	LessonID   string
	CourseSlug string
	LessonSlug string
	Title      string

	Lesson     mo.Option[api.LessonDetail]
	Credential mo.Option[api.PlaybackTokens]

	State     State
	Position  float64
	Duration  float64
	LastSaved float64
	Playing   bool
	Buffering bool
	Rate      float64

	Completion      Completion
	PercentComplete mo.Option[float64]

	Resume    mo.Option[ResumeOffer]
	Countdown mo.Option[int]
	Err       mo.Option[Failure]

	Next     mo.Option[api.LessonNav]
	Previous mo.Option[api.LessonNav]

	OrientationSupported bool
	Landscape            bool
	KeepAwake            bool
}

// HasVideo reports whether the lesson has something to play.
func (s Session) HasVideo() bool {
	lesson, ok := s.Lesson.Get()
	return ok && lesson.PlaybackID() != ""
}
