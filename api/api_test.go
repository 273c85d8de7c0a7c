package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	. "github.com/smartystreets/goconvey/convey"
)

type staticTokens string

func (s staticTokens) Token(context.Context) (string, error) {
	return string(s), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func newServer() (*httptest.Server, *http.Request) {
	var last http.Request
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			last = *req
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/lessons/{course}/{lesson}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{
			"id":              "lesson-1",
			"title":           chi.URLParam(req, "lesson"),
			"courseSlug":      chi.URLParam(req, "course"),
			"videoPlaybackId": "pb-1",
			"userProgress":    map[string]any{"videoPositionSeconds": 42.5, "completed": false, "lastAccessedAt": "2026-01-01T00:00:00Z"},
			"nextLesson":      map[string]any{"slug": "two", "title": "Two"},
			"previousLesson":  nil,
		}))
	})
	r.Get("/mux/tokens/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{"signed": true, "playbackId": chi.URLParam(req, "id"), "playback": "tok"}))
	})
	r.Post("/progress/position", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		if body["lessonId"] != "lesson-1" || body["positionSeconds"] != 103.0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": map[string]any{"code": "BAD_BODY", "message": "bad body"}})
			return
		}
		writeJSON(w, http.StatusOK, ok(map[string]any{"success": true}))
	})
	r.Post("/progress/complete", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, ok(map[string]any{"success": true, "percentComplete": 50}))
	})
	r.Get("/unauthorized", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false})
	})
	r.Get("/forbidden", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	r.Get("/html", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>" + strings.Repeat("x", 500) + "</html>"))
	})
	r.Get("/failure", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": map[string]any{"code": "NOT_ENROLLED", "message": "Enroll first"}})
	})
	r.Get("/bare", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": 1})
	})
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		select {
		case <-req.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	return httptest.NewServer(r), &last
}

func TestClient(t *testing.T) {
	Convey("Given an API server", t, func() {
		srv, last := newServer()
		defer srv.Close()

		signedOut := 0
		c := New(Options{
			BaseURL:        srv.URL + "/",
			Tokens:         staticTokens("secret"),
			OnUnauthorized: func() { signedOut++ },
			HTTP:           srv.Client(),
		})
		ctx := context.Background()

		Convey("A lesson is decoded from the envelope", func() {
			lesson, err := c.Lesson(ctx, "go-basics", "one")
			So(err, ShouldBeNil)
			So(lesson.ID, ShouldEqual, "lesson-1")
			So(lesson.CourseSlug, ShouldEqual, "go-basics")
			So(lesson.PlaybackID(), ShouldEqual, "pb-1")
			So(lesson.PriorPosition(), ShouldEqual, 42.5)
			So(lesson.NextLesson.Slug, ShouldEqual, "two")
			So(lesson.PreviousLesson, ShouldBeNil)

			So(last.Header.Get("Authorization"), ShouldEqual, "Bearer secret")
			So(last.Header.Get("Accept"), ShouldEqual, "application/json")
		})

		Convey("Requests without a token carry no Authorization header", func() {
			anon := New(Options{BaseURL: srv.URL, HTTP: srv.Client()})
			_, err := anon.PlaybackTokens(ctx, "pb-1")
			So(err, ShouldBeNil)
			So(last.Header.Get("Authorization"), ShouldBeEmpty)
		})

		Convey("Position saves send the lesson and seconds", func() {
			So(c.SavePosition(ctx, "lesson-1", 103), ShouldBeNil)
			So(last.Method, ShouldEqual, http.MethodPost)

			err := c.SavePosition(ctx, "lesson-1", 1)
			So(KindOf(err), ShouldEqual, APIError)
			So(err.(*Error).Code, ShouldEqual, "BAD_BODY")
			So(err.(*Error).Status, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Completion returns the new percentage", func() {
			res, err := c.MarkComplete(ctx, "lesson-1")
			So(err, ShouldBeNil)
			So(*res.PercentComplete, ShouldEqual, 50)
		})

		Convey("401 signs out and is Unauthorized", func() {
			_, err := Get[any](ctx, c, "/unauthorized")
			So(KindOf(err), ShouldEqual, Unauthorized)
			So(IsAuth(err), ShouldBeTrue)
			So(signedOut, ShouldEqual, 1)
		})

		Convey("403 signs out and is Forbidden", func() {
			_, err := Get[any](ctx, c, "/forbidden")
			So(KindOf(err), ShouldEqual, Forbidden)
			So(signedOut, ShouldEqual, 1)
		})

		Convey("Non-JSON bodies are InvalidResponse with an excerpt", func() {
			_, err := Get[any](ctx, c, "/html")
			So(KindOf(err), ShouldEqual, InvalidResponse)
			body := err.(*Error).Body
			So(body, ShouldStartWith, "<html>")
			So(len(body), ShouldBeLessThanOrEqualTo, maxExcerpt+3)
			So(signedOut, ShouldEqual, 0)
		})

		Convey("success:false is an APIError with the server's code", func() {
			_, err := Get[any](ctx, c, "/failure")
			So(KindOf(err), ShouldEqual, APIError)
			So(err.(*Error).Code, ShouldEqual, "NOT_ENROLLED")
			So(Message(err), ShouldEqual, "Enroll first")
		})

		Convey("JSON without an envelope is InvalidResponse", func() {
			_, err := Get[any](ctx, c, "/bare")
			So(KindOf(err), ShouldEqual, InvalidResponse)
		})

		Convey("A payload of the wrong shape is InvalidResponse", func() {
			_, err := Get[[]string](ctx, c, "/mux/tokens/pb-1")
			So(KindOf(err), ShouldEqual, InvalidResponse)
		})

		Convey("Slow responses time out", func() {
			fast := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond, HTTP: srv.Client()})
			_, err := Get[any](ctx, fast, "/slow")
			So(KindOf(err), ShouldEqual, Timeout)
			So(KindOf(err).Transient(), ShouldBeTrue)
		})

		Convey("An unreachable server is a NetworkError", func() {
			dead := httptest.NewServer(http.NotFoundHandler())
			url := dead.URL
			dead.Close()

			_, err := Get[any](ctx, New(Options{BaseURL: url}), "/courses")
			So(KindOf(err), ShouldEqual, NetworkError)
			So(Message(err), ShouldContainSubstring, "connection")
		})
	})
}

func TestStreamURL(t *testing.T) {
	Convey("StreamURL", t, func() {
		Convey("Signed credentials carry the token", func() {
			u := StreamURL("stream.mux.com", PlaybackTokens{Signed: true, PlaybackID: "abc", Playback: "t.o.k"})
			So(u, ShouldEqual, "https://stream.mux.com/abc.m3u8?token=t.o.k")
		})

		Convey("Unsigned credentials do not", func() {
			u := StreamURL("stream.mux.com", PlaybackTokens{PlaybackID: "abc", Playback: "ignored"})
			So(u, ShouldEqual, "https://stream.mux.com/abc.m3u8")
		})
	})
}

func TestExcerpt(t *testing.T) {
	Convey("excerpt", t, func() {
		So(excerpt([]byte("  short  ")), ShouldEqual, "short")
		long := excerpt([]byte(strings.Repeat("é", 300)))
		So(strings.HasSuffix(long, "..."), ShouldBeTrue)
		So(len(long), ShouldBeLessThanOrEqualTo, maxExcerpt+3)
	})
}
