package htdb

import (
	"cmp"
	"path/filepath"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Engine is the thin operation surface over the partition→Pages→Page
// hierarchy: Get/Put/Contains/Delete/Range/Succ/Pred/Count/Save/Load/
// Visit. It is a single-owner mutable object: callers must provide their
// own external synchronization if more than one goroutine touches one
// Engine concurrently.
type Engine[H comparable, K any, V any] struct {
	cfg *Config
	cmp Compare[K]
	m   *partitionMap[H, K, V]
}

// New builds an Engine over a tree key type with a natural order
// (numbers, strings, ...), using cmp.Compare as the comparator.
func New[H comparable, K cmp.Ordered, V any](cfg *Config) *Engine[H, K, V] {
	return NewFunc[H, K, V](cfg, cmp.Compare[K])
}

// NewFunc builds an Engine over an arbitrary tree key type, using the
// supplied three-way comparator.
func NewFunc[H comparable, K any, V any](cfg *Config, compare Compare[K]) *Engine[H, K, V] {
	if cfg == nil {
		cfg = NewConfig()
	}

	return &Engine[H, K, V]{
		cfg: cfg,
		cmp: compare,
		m:   newPartitionMap[H, K, V](cfg, compare),
	}
}

// Get returns the value stored for (partition, key), if present.
func (e *Engine[H, K, V]) Get(partition H, key K) (V, bool) {
	pages, ok := e.m.get(partition)
	if !ok {
		var zero V

		return zero, false
	}

	return pages.Get(key)
}

// Put inserts or overwrites (partition, key) => value, creating the
// partition's Pages lazily on first touch. Returns true iff the key was
// absent before the call.
func (e *Engine[H, K, V]) Put(partition H, key K, value V) bool {
	pages := e.m.getOrCreate(partition)

	wasAbsent := pages.Insert(key, value)

	if wasAbsent {
		e.cfg.logger.Debug("inserted key",
			zap.Any("partition", partition),
			zap.Int("partition_size", pages.Size()),
		)
	}

	return wasAbsent
}

// Contains reports whether (partition, key) is present.
func (e *Engine[H, K, V]) Contains(partition H, key K) bool {
	pages, ok := e.m.get(partition)
	if !ok {
		return false
	}

	return pages.Contains(key)
}

// Delete removes (partition, key) if present. Returns whether a removal
// occurred.
func (e *Engine[H, K, V]) Delete(partition H, key K) bool {
	pages, ok := e.m.get(partition)
	if !ok {
		return false
	}

	removed := pages.Remove(key)
	if removed {
		e.cfg.logger.Debug("deleted key",
			zap.Any("partition", partition),
			zap.Int("partition_size", pages.Size()),
		)
	}

	return removed
}

// Range invokes f(k, v) for every entry of partition with lo <= k <= hi in
// ascending order, stopping as soon as f returns false. Returns
// InvalidRangeError if lo > hi.
func (e *Engine[H, K, V]) Range(partition H, lo, hi K, f func(K, V) bool) error {
	if e.cmp(lo, hi) > 0 {
		return newInvalidRangeError("lo must not be greater than hi")
	}

	pages, ok := e.m.get(partition)
	if !ok {
		return nil
	}

	pages.Range(lo, hi, f)

	return nil
}

// Succ returns the smallest entry strictly greater than key in partition.
func (e *Engine[H, K, V]) Succ(partition H, key K) (K, V, bool) {
	pages, ok := e.m.get(partition)
	if !ok {
		var zeroK K
		var zeroV V

		return zeroK, zeroV, false
	}

	return pages.Succ(key)
}

// Pred returns the greatest entry strictly less than key in partition.
func (e *Engine[H, K, V]) Pred(partition H, key K) (K, V, bool) {
	pages, ok := e.m.get(partition)
	if !ok {
		var zeroK K
		var zeroV V

		return zeroK, zeroV, false
	}

	return pages.Pred(key)
}

// Count returns the total entry count across every partition.
func (e *Engine[H, K, V]) Count() int {
	return e.m.count()
}

// Visit drives the structural traversal protocol across every partition
// (unordered across partitions, page order within one).
func (e *Engine[H, K, V]) Visit(visitor Visitor[H, K, V]) {
	for hash, pages := range e.m.inner {
		visitor.VisitHashBefore(hash)
		pages.Visit(visitor)
		visitor.VisitHashAfter(hash)
	}
}

func (e *Engine[H, K, V]) snapshotPath() string {
	return filepath.Join(e.cfg.StorageDir(), SnapshotFileName)
}

// Save encodes the whole partition map and writes it to
// <StorageDir>/full.htdb, overwriting any existing file. The encoder runs
// to completion in memory before any write touches the filesystem, so a
// mid-encode failure never truncates the file already on disk.
func (e *Engine[H, K, V]) Save() error {
	data, err := encodeSnapshot(e.m)
	if err != nil {
		return newSerializeError(err)
	}

	path := e.snapshotPath()

	if err := e.cfg.fs.MkdirAll(e.cfg.StorageDir(), 0o755); err != nil {
		return newCreateFileError(err)
	}

	if err := afero.WriteFile(e.cfg.fs, path, data, 0o644); err != nil {
		return newCreateFileError(err)
	}

	e.cfg.logger.Info("snapshot saved", zap.String("path", path), zap.Int("entries", e.m.count()))

	return nil
}

// Load reads <StorageDir>/full.htdb and replaces the in-memory partition
// map. Decoding happens into a fresh map first; the engine's live map is
// only swapped on full success, so a failed Load leaves the prior state
// untouched.
func (e *Engine[H, K, V]) Load() error {
	path := e.snapshotPath()

	data, err := afero.ReadFile(e.cfg.fs, path)
	if err != nil {
		return newOpenFileError(err)
	}

	decoded, err := decodeSnapshot[H, K, V](data, e.cfg, e.cmp)
	if err != nil {
		return newSerializeError(err)
	}

	e.m = decoded

	e.cfg.logger.Info("snapshot loaded", zap.String("path", path), zap.Int("entries", e.m.count()))

	return nil
}
