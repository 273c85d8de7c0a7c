// Package catalog reads the course catalog, keeping a copy on disk for an hour.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/copypastelearn/cpl/api"
	"github.com/copypastelearn/cpl/filesystem"
	"github.com/copypastelearn/cpl/log"
	"github.com/copypastelearn/cpl/where"
	"github.com/metafates/gache"
)

// Lifetime is how long a cached catalog is served before it is fetched again.
const Lifetime = time.Hour

// Source fetches the catalog from the server.
type Source interface {
	Courses(ctx context.Context) ([]api.CourseListItem, error)
}

// Options configure a Catalog.
type Options struct {
	Source Source

	// Path defaults to where.Catalog().
	Path     string
	Lifetime time.Duration

	// Disabled skips the disk cache entirely.
	Disabled bool
}

// Catalog serves the course list.
type Catalog struct {
	src      Source
	disabled bool
	path     string

	mu    sync.Mutex
	cache *gache.Cache[[]api.CourseListItem]
}

// New returns a Catalog.
func New(opts Options) *Catalog {
	if opts.Path == "" {
		opts.Path = where.Catalog()
	}
	if opts.Lifetime <= 0 {
		opts.Lifetime = Lifetime
	}

	return &Catalog{
		src:      opts.Source,
		disabled: opts.Disabled,
		path:     opts.Path,
		cache:    filesystem.NewCache[[]api.CourseListItem](opts.Path, opts.Lifetime),
	}
}

// Courses returns the catalog, from disk when a fresh copy exists.
func (c *Catalog) Courses(ctx context.Context) ([]api.CourseListItem, error) {
	if !c.disabled {
		c.mu.Lock()
		cached, expired, err := c.cache.Get()
		c.mu.Unlock()

		if err != nil {
			log.Warnf("catalog: cache unreadable: %v", err)
		} else if !expired && cached != nil {
			return cached, nil
		}
	}

	return c.Refresh(ctx)
}

// Refresh fetches the catalog from the server and replaces the cached copy.
func (c *Catalog) Refresh(ctx context.Context) ([]api.CourseListItem, error) {
	courses, err := c.src.Courses(ctx)
	if err != nil {
		return nil, err
	}

	if !c.disabled {
		c.mu.Lock()
		defer c.mu.Unlock()
		if err := c.cache.Set(courses); err != nil {
			log.Warnf("catalog: cache not written: %v", err)
		}
	}
	return courses, nil
}

// Clear removes the cached copy.
func (c *Catalog) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cache.Set(nil); err != nil {
		return err
	}
	exists, err := filesystem.API().Exists(c.path)
	if err != nil || !exists {
		return err
	}
	return filesystem.API().Remove(c.path)
}
