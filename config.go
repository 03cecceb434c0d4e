package htdb

import (
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DefaultMaxPageSize is the page bound used when a Config is built without
// an explicit WithMaxPageSize option.
const DefaultMaxPageSize = 128

// SnapshotFileName is the single file a snapshot is written to and read
// from, relative to Config.StorageDir.
const SnapshotFileName = "full.htdb"

// Config carries the settings shared, by pointer, across every Pages
// instance belonging to one engine. It is immutable after construction and
// is never serialized as part of a snapshot; a loaded engine keeps the
// Config it was already constructed with.
type Config struct {
	maxPageSize int
	maxPages    *int
	storageDir  string
	fs          afero.Fs
	logger      *zap.Logger
}

// Option configures a Config produced by NewConfig.
type Option func(*Config)

// WithMaxPageSize sets the maximum number of entries a single Page may
// hold before Pages.insert splits it. Must be positive.
func WithMaxPageSize(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.maxPageSize = n
		}
	}
}

// WithMaxPages sets the advisory page-count cap. It is never consulted by
// routing or split, and exists only for API compatibility with future
// eviction policies.
func WithMaxPages(n int) Option {
	return func(c *Config) {
		c.maxPages = &n
	}
}

// WithStorageDir sets the directory Save/Load use for the snapshot file.
func WithStorageDir(dir string) Option {
	return func(c *Config) {
		c.storageDir = dir
	}
}

// WithFS injects the filesystem Save/Load operate on. Defaults to
// afero.NewOsFs(). Tests substitute afero.NewMemMapFs().
func WithFS(fs afero.Fs) Option {
	return func(c *Config) {
		if fs != nil {
			c.fs = fs
		}
	}
}

// WithLogger injects the structured logger the engine reports inserted and
// deleted keys and snapshot save/load events to. Page splits and page
// evictions are not logged. Defaults to zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConfig builds an immutable Config, applying options over the defaults
// (max_page_size=128, max_pages=none, storage_dir=".").
func NewConfig(opts ...Option) *Config {
	c := &Config{
		maxPageSize: DefaultMaxPageSize,
		maxPages:    nil,
		storageDir:  ".",
		fs:          afero.NewOsFs(),
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// MaxPageSize returns the configured page bound.
func (c *Config) MaxPageSize() int {
	return c.maxPageSize
}

// MaxPages returns the advisory page-count cap, if one was set.
func (c *Config) MaxPages() (int, bool) {
	if c.maxPages == nil {
		return 0, false
	}

	return *c.maxPages, true
}

// StorageDir returns the directory snapshots are written to and read from.
func (c *Config) StorageDir() string {
	return c.storageDir
}
