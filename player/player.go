// Package player drives the external video engine that lessons are played in.
// The implementation targets mpv through its JSON-IPC interface.
package player

// Status is a snapshot of the engine's playback state.
type Status struct {
	Loaded    bool
	Position  float64
	Duration  float64
	Playing   bool
	Buffering bool
	Rate      float64

	// DidJustFinish is set on the one snapshot reporting the natural end of the stream.
	DidJustFinish bool
}

// Engine plays one video at a time.
type Engine interface {
	// Load replaces the current video and starts playing it from start seconds.
	Load(uri, title string, start float64) error

	SetPaused(paused bool) error
	Seek(seconds float64) error
	SetRate(rate float64) error

	// Stop unloads the current video and leaves the engine idle.
	Stop() error
	Close() error
}

// Listener receives engine events. Callbacks arrive on a background goroutine.
type Listener struct {
	OnStatus func(Status)
	OnError  func(error)
	OnExit   func()
}
