// Package log writes cpl's diagnostics to one file per day under the logs directory.
//
// Nothing is written unless logs.write is on, so the playback screen never has its
// terminal disturbed by log output.
package log

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/key"
	"github.com/copypastelearn/cpl/where"
	"github.com/samber/lo"
	logrus "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Retention is how many days of files are kept besides today's. Setup removes older ones.
const Retention = 14

const dayLayout = "2006-01-02"

var enabled bool

var discard = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Setup opens today's log file and applies the configured format and level.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		return nil
	}

	dir := where.Logs()
	if dir == "" {
		return errors.New("log directory path is empty")
	}

	today := time.Now()
	path := filepath.Join(dir, today.Format(dayLayout)+".log")
	f, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logrus.SetOutput(f)

	if viper.GetBool(key.LogsJson) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	for _, stale := range expired(dir, today) {
		if err := filesystem.API().Remove(stale); err != nil {
			logrus.Warnf("log: remove %s: %v", stale, err)
		}
	}
	return nil
}

// expired lists the daily files in dir that fall outside Retention.
// Files not named after a day are left alone.
func expired(dir string, today time.Time) []string {
	entries, err := filesystem.API().ReadDir(dir)
	if err != nil {
		return nil
	}
	midnight := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	cutoff := midnight.AddDate(0, 0, -Retention)

	return lo.FilterMap(entries, func(entry os.FileInfo, _ int) (string, bool) {
		day, ok := strings.CutSuffix(entry.Name(), ".log")
		if !ok || entry.IsDir() {
			return "", false
		}
		t, err := time.ParseInLocation(dayLayout, day, today.Location())
		if err != nil || !t.Before(cutoff) {
			return "", false
		}
		return filepath.Join(dir, entry.Name()), true
	})
}

// Fields is an alias so callers need not import logrus.
type Fields = logrus.Fields

// Enabled reports whether log output is being written.
func Enabled() bool {
	return enabled
}

func logger() *logrus.Logger {
	if !enabled {
		return discard
	}
	return logrus.StandardLogger()
}

// WithFields returns an entry carrying structured fields, such as the playback session id.
func WithFields(fields Fields) *logrus.Entry {
	return logger().WithFields(fields)
}

func Error(args ...any)                 { logger().Error(args...) }
func Errorf(format string, args ...any) { logger().Errorf(format, args...) }
func Warn(args ...any)                  { logger().Warn(args...) }
func Warnf(format string, args ...any)  { logger().Warnf(format, args...) }
func Info(args ...any)                  { logger().Info(args...) }
func Infof(format string, args ...any)  { logger().Infof(format, args...) }
func Debug(args ...any)                 { logger().Debug(args...) }
func Debugf(format string, args ...any) { logger().Debugf(format, args...) }
