package playback

import (
	"time"

	"github.com/copypastelearn/cpl/autoplay"
	"github.com/copypastelearn/cpl/config"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/progress"
	"github.com/spf13/viper"
)

// Config holds the tunables of a session. Values are read once when the session starts.
type Config struct {
	SaveInterval     time.Duration
	MinSaveDelta     float64
	SeekSaveDebounce time.Duration

	// ResumeThreshold is exclusive: a prior position must exceed it to offer resuming.
	ResumeThreshold float64
	BufferingDelay  time.Duration

	Autoplay     bool
	AutoplayFrom int

	KeepAwake  bool
	StreamHost string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		SaveInterval:     progress.DefaultInterval,
		MinSaveDelta:     progress.DefaultMinDelta,
		SeekSaveDebounce: progress.DefaultSeekDebounce,
		ResumeThreshold:  10,
		BufferingDelay:   500 * time.Millisecond,
		Autoplay:         true,
		AutoplayFrom:     autoplay.DefaultFrom,
		KeepAwake:        true,
		StreamHost:       "stream.mux.com",
	}
}

// ConfigFromViper reads the current settings.
func ConfigFromViper() Config {
	return Config{
		SaveInterval:     config.Millis(key.PlayerSaveIntervalMs),
		MinSaveDelta:     viper.GetFloat64(key.PlayerMinSaveDelta),
		SeekSaveDebounce: config.Millis(key.PlayerSeekSaveDebounce),
		ResumeThreshold:  viper.GetFloat64(key.PlayerResumeThreshold),
		BufferingDelay:   config.Millis(key.PlayerBufferingDelayMs),
		Autoplay:         viper.GetBool(key.PlayerAutoplay),
		AutoplayFrom:     viper.GetInt(key.PlayerAutoplayCountdown),
		KeepAwake:        viper.GetBool(key.PlayerKeepAwake),
		StreamHost:       viper.GetString(key.StreamHost),
	}
}
