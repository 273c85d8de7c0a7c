package api

import "time"

// Difficulty of a course.
type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
)

type CourseListItem struct {
	ID           string           `json:"id"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	Description  string           `json:"description"`
	Difficulty   Difficulty       `json:"difficulty" jsonschema:"enum=BEGINNER,enum=INTERMEDIATE,enum=ADVANCED"`
	LessonCount  int              `json:"lessonCount"`
	ThumbnailURL *string          `json:"thumbnailUrl"`
	UserProgress *PercentComplete `json:"userProgress,omitempty"`
}

type PercentComplete struct {
	PercentComplete float64 `json:"percentComplete" jsonschema_description:"Server computed, 0 to 100"`
}

type CourseDetail struct {
	ID                string              `json:"id"`
	Title             string              `json:"title"`
	Slug              string              `json:"slug"`
	Description       string              `json:"description"`
	Outcomes          []string            `json:"outcomes"`
	Prerequisites     []string            `json:"prerequisites"`
	Difficulty        Difficulty          `json:"difficulty"`
	EstimatedDuration *int                `json:"estimatedDuration"`
	ThumbnailURL      *string             `json:"thumbnailUrl"`
	Lessons           []LessonSummary     `json:"lessons"`
	UserProgress      *CourseProgressInfo `json:"userProgress,omitempty"`
}

type CourseProgressInfo struct {
	PercentComplete float64    `json:"percentComplete"`
	StartedAt       time.Time  `json:"startedAt"`
	CompletedAt     *time.Time `json:"completedAt"`
}

type LessonSummary struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Slug            string      `json:"slug"`
	SortOrder       int         `json:"sortOrder"`
	DurationSeconds *int        `json:"durationSeconds"`
	HasLab          bool        `json:"hasLab"`
	IsFree          bool        `json:"isFree"`
	IsAccessible    bool        `json:"isAccessible"`
	UserProgress    *LessonMark `json:"userProgress,omitempty"`
}

type LessonMark struct {
	Completed            bool    `json:"completed"`
	VideoPositionSeconds float64 `json:"videoPositionSeconds"`
}

// LessonDetail is everything needed to open a lesson.
type LessonDetail struct {
	ID              string              `json:"id"`
	Title           string              `json:"title"`
	CourseSlug      string              `json:"courseSlug"`
	VideoPlaybackID *string             `json:"videoPlaybackId"`
	Transcript      *string             `json:"transcript"`
	CodeSnippets    []CodeSnippet       `json:"codeSnippets"`
	Resources       []Resource          `json:"resources"`
	LabDefinitionID *string             `json:"labDefinitionId"`
	UserProgress    *LessonProgressInfo `json:"userProgress"`
	NextLesson      *LessonNav          `json:"nextLesson"`
	PreviousLesson  *LessonNav          `json:"previousLesson"`
}

// PlaybackID returns the video playback id, or "" for lessons without video.
func (l LessonDetail) PlaybackID() string {
	if l.VideoPlaybackID == nil {
		return ""
	}
	return *l.VideoPlaybackID
}

// PriorPosition returns the server-reported resume position in seconds.
func (l LessonDetail) PriorPosition() float64 {
	if l.UserProgress == nil {
		return 0
	}
	return l.UserProgress.VideoPositionSeconds
}

type CodeSnippet struct {
	Label    string `json:"label"`
	Language string `json:"language"`
	Code     string `json:"code"`
}

type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"`
}

type LessonNav struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

type LessonProgressInfo struct {
	VideoPositionSeconds float64   `json:"videoPositionSeconds"`
	Completed            bool      `json:"completed"`
	LastAccessedAt       time.Time `json:"lastAccessedAt"`
}

type DashboardCourse struct {
	CourseID        string     `json:"courseId"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	ThumbnailURL    *string    `json:"thumbnailUrl"`
	PercentComplete float64    `json:"percentComplete"`
	CompletedAt     *time.Time `json:"completedAt"`
	NextLesson      *LessonNav `json:"nextLesson"`
}

type RecentLesson struct {
	LessonID       string    `json:"lessonId"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	CourseTitle    string    `json:"courseTitle"`
	CourseSlug     string    `json:"courseSlug"`
	LastAccessedAt time.Time `json:"lastAccessedAt"`
	Completed      bool      `json:"completed"`
}

type DashboardData struct {
	UserName              *string           `json:"userName"`
	TotalLessonsCompleted int               `json:"totalLessonsCompleted"`
	InProgressCourses     []DashboardCourse `json:"inProgressCourses"`
	CompletedCourses      []DashboardCourse `json:"completedCourses"`
	RecentLessons         []RecentLesson    `json:"recentLessons"`
}

// PlaybackTokens is the signed-or-unsigned credential for one video.
type PlaybackTokens struct {
	Signed     bool   `json:"signed"`
	PlaybackID string `json:"playbackId"`
	Playback   string `json:"playback,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Storyboard string `json:"storyboard,omitempty"`
}

// CompleteResult is returned when a lesson is marked complete.
type CompleteResult struct {
	Success         bool     `json:"success"`
	PercentComplete *float64 `json:"percentComplete,omitempty"`
}

type saveResult struct {
	Success bool `json:"success"`
}

type positionRequest struct {
	LessonID        string  `json:"lessonId"`
	PositionSeconds float64 `json:"positionSeconds"`
}

type completeRequest struct {
	LessonID string `json:"lessonId"`
}
