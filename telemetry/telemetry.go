// Package telemetry records analytics events. Tracking never fails and never blocks the caller.
package telemetry

import (
	"fmt"
	"sync"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/log"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Event names an analytics event.
type Event string

const (
	CatalogView         Event = "catalog_view"
	CourseView          Event = "course_view"
	LessonView          Event = "lesson_view"
	LessonPlayStart     Event = "lesson_play_start"
	LessonPlayError     Event = "lesson_play_error"
	LessonComplete      Event = "lesson_complete"
	ResumePromptShown   Event = "resume_prompt_shown"
	ResumeStartOver     Event = "resume_start_over"
	ProgressSaveSuccess Event = "progress_save_success"
	ProgressSaveFail    Event = "progress_save_fail"
)

// Events lists every known event.
var Events = []Event{
	CatalogView,
	CourseView,
	LessonView,
	LessonPlayStart,
	LessonPlayError,
	LessonComplete,
	ResumePromptShown,
	ResumeStartOver,
	ProgressSaveSuccess,
	ProgressSaveFail,
}

// Properties are free-form event attributes.
type Properties map[string]any

// Tracker receives analytics events.
type Tracker interface {
	Track(event Event, props Properties)
}

// Nop discards every event.
var Nop Tracker = nopTracker{}

type nopTracker struct{}

func (nopTracker) Track(Event, Properties) {}

// Recorder logs events and counts them per name.
type Recorder struct {
	enabled  bool
	session  string
	registry *prometheus.Registry
	events   *prometheus.CounterVec

	mu   sync.Mutex
	last map[Event]Properties
}

// NewRecorder returns a Recorder with its own registry. A disabled Recorder drops everything.
func NewRecorder(enabled bool) *Recorder {
	registry := prometheus.NewRegistry()
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: constant.App,
		Name:      "events_total",
		Help:      "Analytics events recorded, by event name.",
	}, []string{"event"})
	registry.MustRegister(events)

	for _, e := range Events {
		events.WithLabelValues(string(e))
	}

	return &Recorder{
		enabled:  enabled,
		session:  uuid.NewString(),
		registry: registry,
		events:   events,
		last:     make(map[Event]Properties),
	}
}

// Session identifies this process in every logged event.
func (r *Recorder) Session() string {
	return r.session
}

// Registry exposes the counters for export.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Track implements Tracker.
func (r *Recorder) Track(event Event, props Properties) {
	if !r.enabled {
		return
	}

	defer func() {
		if err := recover(); err != nil {
			log.Errorf("telemetry: dropping %s: %v", event, err)
		}
	}()

	r.events.WithLabelValues(string(event)).Inc()

	r.mu.Lock()
	r.last[event] = props
	r.mu.Unlock()

	fields := log.Fields{"event": string(event), "session": r.session}
	for k, v := range props {
		fields[k] = v
	}
	log.WithFields(fields).Info("telemetry")
}

// Last returns the properties of the most recent occurrence of event.
func (r *Recorder) Last(event Event) (Properties, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	props, ok := r.last[event]
	return props, ok
}

// Export writes the counters in Prometheus text format to path.
func (r *Recorder) Export(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("export metrics: %w", err)
	}
	return nil
}
