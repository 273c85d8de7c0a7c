package api

import (
	"context"
	"fmt"
	"net/url"
)

// Courses lists the catalog.
func (c *Client) Courses(ctx context.Context) ([]CourseListItem, error) {
	return Get[[]CourseListItem](ctx, c, "/courses")
}

// Course returns one course with its lessons.
func (c *Client) Course(ctx context.Context, slug string) (CourseDetail, error) {
	return Get[CourseDetail](ctx, c, "/courses/"+url.PathEscape(slug))
}

// Dashboard returns the signed-in user's progress overview.
func (c *Client) Dashboard(ctx context.Context) (DashboardData, error) {
	return Get[DashboardData](ctx, c, "/dashboard")
}

// Lesson returns the detail of one lesson, including prior progress and navigation.
func (c *Client) Lesson(ctx context.Context, courseSlug, lessonSlug string) (LessonDetail, error) {
	return Get[LessonDetail](ctx, c, fmt.Sprintf("/lessons/%s/%s", url.PathEscape(courseSlug), url.PathEscape(lessonSlug)))
}

// PlaybackTokens requests a playback credential for a video.
func (c *Client) PlaybackTokens(ctx context.Context, playbackID string) (PlaybackTokens, error) {
	return Get[PlaybackTokens](ctx, c, "/mux/tokens/"+url.PathEscape(playbackID))
}

// SavePosition records the playback position of a lesson.
func (c *Client) SavePosition(ctx context.Context, lessonID string, seconds float64) error {
	res, err := Post[saveResult](ctx, c, "/progress/position", positionRequest{LessonID: lessonID, PositionSeconds: seconds})
	if err != nil {
		return err
	}
	if !res.Success {
		return &Error{Kind: APIError, Method: "POST", Path: "/progress/position", Message: "position not saved"}
	}
	return nil
}

// MarkComplete records that a lesson was watched to the end.
func (c *Client) MarkComplete(ctx context.Context, lessonID string) (CompleteResult, error) {
	res, err := Post[CompleteResult](ctx, c, "/progress/complete", completeRequest{LessonID: lessonID})
	if err != nil {
		return res, err
	}
	if !res.Success {
		return res, &Error{Kind: APIError, Method: "POST", Path: "/progress/complete", Message: "completion not recorded"}
	}
	return res, nil
}
