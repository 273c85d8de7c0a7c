// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/copypastelearn/cpl/color"
	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.APIBaseURL, "http://localhost:3000/api/mobile", "Base URL of the learning platform API")
	register(key.APITimeoutMs, 15000, "Request timeout in milliseconds")
	register(key.AuthToken, "", "Bearer token to use instead of the one stored in the keyring")
	register(key.StreamHost, "stream.mux.com", "Host serving lesson video streams")
	register(key.PlayerBinary, "mpv", "Path to the mpv executable")
	register(key.PlayerSaveIntervalMs, 10000, "How often the playback position is saved while a lesson is open, in milliseconds")
	register(key.PlayerMinSaveDelta, 2, "Minimum position change in seconds before a new save is sent")
	register(key.PlayerResumeThreshold, 10, "Offer to resume when the saved position is past this many seconds")
	register(key.PlayerBufferingDelayMs, 500, "Buffering must last this long (milliseconds) before the indicator shows")
	register(key.PlayerSeekSaveDebounce, 1000, "Quiet period after seeking before the position is saved, in milliseconds")
	register(key.PlayerAutoplay, true, "Play the next lesson automatically after a countdown")
	register(key.PlayerAutoplayCountdown, 5, "Autoplay countdown length in seconds")
	register(key.PlayerKeepAwake, true, "Keep the screen awake while a lesson is playing")
	register(key.CatalogCache, true, "Cache the course catalog on disk for an hour")
	register(key.TelemetryEnabled, true, "Record analytics events")
	register(key.TelemetryMetricsFile, "", "Write event counters to this file in Prometheus text format on exit")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Check for a newer release on start")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
