package htdb

// partitionMap is the hash-equality mapping from partition key to Pages.
// It is backed by Go's built-in map: the trivial XOR-fold hasher is
// preserved independently as FoldHash (hasher.go) since Go maps do not
// expose a pluggable hasher, and the hasher's exact bit pattern is not
// part of the on-disk format.
type partitionMap[H comparable, K any, V any] struct {
	cfg   *Config
	cmp   Compare[K]
	inner map[H]*Pages[K, V]
}

func newPartitionMap[H comparable, K any, V any](cfg *Config, cmp Compare[K]) *partitionMap[H, K, V] {
	return &partitionMap[H, K, V]{
		cfg:   cfg,
		cmp:   cmp,
		inner: make(map[H]*Pages[K, V]),
	}
}

// get returns the Pages for a partition key, if the partition has ever
// been touched.
func (m *partitionMap[H, K, V]) get(hash H) (*Pages[K, V], bool) {
	pages, ok := m.inner[hash]

	return pages, ok
}

// getOrCreate returns the Pages for a partition key, creating an empty one
// backed by the shared Configuration on first touch.
func (m *partitionMap[H, K, V]) getOrCreate(hash H) *Pages[K, V] {
	pages, ok := m.inner[hash]
	if !ok {
		pages = newPages[K, V](m.cfg, m.cmp)
		m.inner[hash] = pages
	}

	return pages
}

// count sums entry counts across every partition.
func (m *partitionMap[H, K, V]) count() int {
	total := 0
	for _, pages := range m.inner {
		total += pages.Size()
	}

	return total
}
