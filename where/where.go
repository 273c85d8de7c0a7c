// Package where resolves application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/copypastelearn/cpl/constant"
	"github.com/copypastelearn/cpl/filesystem"
	"github.com/samber/lo"
)

// EnvConfigPath overrides the default configuration directory.
const EnvConfigPath = "CPL_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory, honoring CPL_CONFIG_PATH.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache returns the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs returns the directory daily log files are written to.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Recent is the file listing recently opened lessons.
func Recent() string {
	return filepath.Join(Config(), "recent.json")
}

// Catalog is the cached course catalog.
func Catalog() string {
	return filepath.Join(Cache(), "catalog.json")
}

// Metrics is the default location for the exported event counters.
func Metrics() string {
	return filepath.Join(Cache(), "metrics.prom")
}

// Temp returns a scratch directory for player sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
