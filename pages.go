package htdb

import "sort"

// Pages is an ordered, non-overlapping sequence of Page objects forming
// one partition's occupied keyspace. It routes every operation to the
// right page by bisecting on page.range_start.
type Pages[K any, V any] struct {
	cfg   *Config
	cmp   Compare[K]
	pages []*Page[K, V]
}

func newPages[K any, V any](cfg *Config, cmp Compare[K]) *Pages[K, V] {
	return &Pages[K, V]{cfg: cfg, cmp: cmp}
}

// partitionPoint returns the first index whose page.range_start is
// strictly greater than k. The owning page, if any, is pages[p-1].
func (ps *Pages[K, V]) partitionPoint(k K) int {
	return sort.Search(len(ps.pages), func(i int) bool {
		return ps.cmp(ps.pages[i].rangeStart, k) > 0
	})
}

// Get looks up key, routing via bisection over the page sequence.
func (ps *Pages[K, V]) Get(key K) (V, bool) {
	if len(ps.pages) == 0 {
		var zero V

		return zero, false
	}

	idx := ps.partitionPoint(key)
	if idx == 0 {
		var zero V

		return zero, false
	}

	return ps.pages[idx-1].Get(key)
}

// Contains reports whether key is present anywhere in the sequence.
func (ps *Pages[K, V]) Contains(key K) bool {
	if len(ps.pages) == 0 {
		return false
	}

	idx := ps.partitionPoint(key)
	if idx == 0 {
		return false
	}

	return ps.pages[idx-1].Contains(key)
}

// Insert inserts or overwrites key => value, splitting the owning page if
// it exceeds Config.MaxPageSize afterwards. Returns true iff the key was
// absent before the call.
func (ps *Pages[K, V]) Insert(key K, value V) bool {
	if len(ps.pages) == 0 {
		ps.pages = append(ps.pages, newPageFromKeyValue(ps.cmp, key, value))

		return true
	}

	idx := ps.partitionPoint(key)
	if idx == 0 {
		page := newPageFromKeyValue(ps.cmp, key, value)
		ps.pages = append(ps.pages, nil)
		copy(ps.pages[1:], ps.pages[:len(ps.pages)-1])
		ps.pages[0] = page

		return true
	}

	i := idx - 1
	page := ps.pages[i]

	if ps.cmp(page.rangeEnd, key) < 0 {
		page.setRangeEnd(key)
	}

	result := page.Insert(key, value)

	if page.Size() > ps.cfg.MaxPageSize() {
		next := page.Split()

		ps.pages = append(ps.pages, nil)
		copy(ps.pages[i+2:], ps.pages[i+1:len(ps.pages)-1])
		ps.pages[i+1] = next
	}

	return result
}

// Remove deletes key if present, dropping the owning page from the
// sequence when it becomes empty. Returns whether a removal occurred.
func (ps *Pages[K, V]) Remove(key K) bool {
	if len(ps.pages) == 0 {
		return false
	}

	idx := ps.partitionPoint(key)
	if idx == 0 {
		return false
	}

	i := idx - 1
	page := ps.pages[i]
	result := page.Remove(key)

	if result && page.Size() == 0 {
		copy(ps.pages[i:], ps.pages[i+1:])
		ps.pages = ps.pages[:len(ps.pages)-1]
	}

	return result
}

// Size returns the sum of every page's entry count.
func (ps *Pages[K, V]) Size() int {
	total := 0
	for _, page := range ps.pages {
		total += page.Size()
	}

	return total
}

// Range visits entries with lo <= key <= hi in ascending order across
// pages, honoring the caller's early-exit signal.
// Precondition: lo <= hi, enforced by the caller (Engine.Range).
func (ps *Pages[K, V]) Range(lo, hi K, f func(K, V) bool) {
	if len(ps.pages) == 0 {
		return
	}

	idx := ps.partitionPoint(lo)

	i := 0
	if idx > 0 {
		i = idx - 1
	}

	for ; i < len(ps.pages); i++ {
		page := ps.pages[i]
		if ps.cmp(page.rangeStart, hi) > 0 {
			break
		}

		if !page.Range(lo, hi, f) {
			break
		}
	}
}

// Succ returns the smallest entry strictly greater than key anywhere in
// the partition.
func (ps *Pages[K, V]) Succ(key K) (K, V, bool) {
	if len(ps.pages) == 0 {
		var zeroK K
		var zeroV V

		return zeroK, zeroV, false
	}

	idx := ps.partitionPoint(key)

	start := 0
	if idx > 0 {
		start = idx - 1

		if k, v, ok := ps.pages[start].Succ(key); ok {
			return k, v, true
		}

		start++
	}

	for i := start; i < len(ps.pages); i++ {
		if k, v, ok := ps.pages[i].First(); ok {
			return k, v, true
		}
	}

	var zeroK K
	var zeroV V

	return zeroK, zeroV, false
}

// Pred returns the greatest entry strictly less than key anywhere in the
// partition.
func (ps *Pages[K, V]) Pred(key K) (K, V, bool) {
	if len(ps.pages) == 0 {
		var zeroK K
		var zeroV V

		return zeroK, zeroV, false
	}

	idx := ps.partitionPoint(key)
	if idx == 0 {
		var zeroK K
		var zeroV V

		return zeroK, zeroV, false
	}

	start := idx - 1

	if k, v, ok := ps.pages[start].Pred(key); ok {
		return k, v, true
	}

	for i := start - 1; i >= 0; i-- {
		if k, v, ok := ps.pages[i].Last(); ok {
			return k, v, true
		}
	}

	var zeroK K
	var zeroV V

	return zeroK, zeroV, false
}

// Visit visits pages in order, passing their positional index.
func (ps *Pages[K, V]) Visit(visitor PageVisitor[K, V]) {
	for index, page := range ps.pages {
		page.Visit(index, visitor)
	}
}
