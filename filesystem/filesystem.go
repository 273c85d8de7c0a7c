// Package filesystem routes file access through a swappable afero backend.
//
// Tests switch to an in-memory backend so nothing touches the user's home directory.
package filesystem

import (
	"io"
	"os"
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active backend.
func API() afero.Afero {
	return backend
}

func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// NewCache returns a JSON file cache at path stored on the active backend.
// A zero lifetime never expires.
func NewCache[T any](path string, lifetime time.Duration) *gache.Cache[T] {
	return gache.New[T](&gache.Options{
		Path:       path,
		Lifetime:   lifetime,
		FileSystem: gacheFs{},
	})
}

// gacheFs resolves the backend on every call so a cache built at init follows SetMemMapFs.
type gacheFs struct{}

func (gacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

func (gacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
