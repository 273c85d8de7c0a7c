package cmd

import (
	"fmt"
	"os"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/auth"
	"github.com/copypastelearn/cpl/catalog"
	"github.com/copypastelearn/cpl/config"
	"github.com/copypastelearn/cpl/icon"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/style"
	"github.com/copypastelearn/cpl/telemetry"
	"github.com/spf13/viper"
)

var (
	tokens   = auth.NewProvider()
	recorder *telemetry.Recorder
)

const sessionEnded = "Session ended. Run `cpl login` to sign in again."

// newClient returns an API client that prints its notices to stderr.
func newClient() *api.Client {
	return newClientWith(printNotice)
}

// newClientWith returns an API client that signs requests with the stored token.
// A rejected token is forgotten and notify tells the user to sign in again.
func newClientWith(notify func(text string)) *api.Client {
	return api.New(api.Options{
		BaseURL: viper.GetString(key.APIBaseURL),
		Timeout: config.Millis(key.APITimeoutMs),
		Tokens:  tokens,
		OnUnauthorized: func() {
			if err := tokens.SignOut(); err != nil {
				log.Warnf("sign out after rejected token: %v", err)
			}
			notify(sessionEnded)
		},
	})
}

func printNotice(text string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Lock), style.Faint(text))
}

func newCatalog(client *api.Client) *catalog.Catalog {
	return catalog.New(catalog.Options{
		Source:   client,
		Disabled: !viper.GetBool(key.CatalogCache),
	})
}

func tracker() *telemetry.Recorder {
	if recorder == nil {
		recorder = telemetry.NewRecorder(viper.GetBool(key.TelemetryEnabled))
	}
	return recorder
}

// exportMetrics writes the event counters when telemetry.metrics_file is set.
func exportMetrics() {
	path := viper.GetString(key.TelemetryMetricsFile)
	if recorder == nil || path == "" {
		return
	}
	if err := recorder.Export(path); err != nil {
		log.Warnf("export metrics to %s: %v", path, err)
	}
}
