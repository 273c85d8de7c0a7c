// Package key names every configuration key cpl reads.
package key

// DefinedFieldsCount is the number of registered configuration fields.
const DefinedFieldsCount = 22

// Learning platform API.
const (
	APIBaseURL   = "api.base_url"
	APITimeoutMs = "api.timeout_ms"
	AuthToken    = "auth.token"
)

// Video delivery.
const (
	StreamHost = "stream.host"
)

// Lesson playback. Durations are in milliseconds, positions in seconds.
const (
	PlayerBinary            = "player.binary"
	PlayerSaveIntervalMs    = "player.save_interval_ms"
	PlayerMinSaveDelta      = "player.min_save_delta"
	PlayerResumeThreshold   = "player.resume_threshold"
	PlayerBufferingDelayMs  = "player.buffering_delay_ms"
	PlayerSeekSaveDebounce  = "player.seek_save_debounce_ms"
	PlayerAutoplay          = "player.autoplay"
	PlayerAutoplayCountdown = "player.autoplay_countdown"
	PlayerKeepAwake         = "player.keep_awake"
)

// Catalog reads.
const (
	CatalogCache = "catalog.cache"
)

// Analytics events and counters.
const (
	TelemetryEnabled     = "telemetry.enabled"
	TelemetryMetricsFile = "telemetry.metrics_file"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Diagnostics written under the logs directory.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// Command line output.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
