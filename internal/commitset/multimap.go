package commitset

import "container/heap"

// ListMultimap maps a commit key to an ordered slice of values, with O(1)
// access to the bucket keyed by the newest commit (spec §4.5). Buckets are
// deleted once emptied so the heap's staleness check stays correct.
type ListMultimap[V any] struct {
	buckets  map[string][]V
	ordering rawHeap
}

// NewListMultimap constructs an empty ListMultimap.
func NewListMultimap[V any]() *ListMultimap[V] {
	return &ListMultimap[V]{buckets: map[string][]V{}}
}

func (m *ListMultimap[V]) discardStale() {
	for m.ordering.Len() > 0 {
		top := m.ordering[0].commit
		if _, ok := m.buckets[top.Hash()]; ok {
			return
		}
		heap.Pop(&m.ordering)
	}
}

// Add appends value to c's bucket, creating it if necessary.
func (m *ListMultimap[V]) Add(c Commit, value V) {
	if _, ok := m.buckets[c.Hash()]; !ok {
		heap.Push(&m.ordering, entry{commit: c, key: keyOf(c)})
	}
	m.buckets[c.Hash()] = append(m.buckets[c.Hash()], value)
}

// Get returns c's bucket, if any.
func (m *ListMultimap[V]) Get(c Commit) ([]V, bool) {
	v, ok := m.buckets[c.Hash()]
	return v, ok
}

// PopitemNewest removes and returns one value from the bucket keyed by the
// newest commit, deleting the bucket once it empties.
func (m *ListMultimap[V]) PopitemNewest() (Commit, V, bool) {
	m.discardStale()
	if m.ordering.Len() == 0 {
		var zero V
		return Commit{}, zero, false
	}
	top := m.ordering[0].commit
	bucket := m.buckets[top.Hash()]
	v := bucket[len(bucket)-1]
	bucket = bucket[:len(bucket)-1]
	if len(bucket) == 0 {
		delete(m.buckets, top.Hash())
		heap.Pop(&m.ordering)
	} else {
		m.buckets[top.Hash()] = bucket
	}
	return top, v, true
}

// Len reports the number of live buckets.
func (m *ListMultimap[V]) Len() int { return len(m.buckets) }

// SetMultimap maps a commit key to a set of distinct values, with O(1)
// access to the bucket keyed by the newest commit. Buckets are deleted once
// emptied.
type SetMultimap[V comparable] struct {
	buckets  map[string]map[V]struct{}
	ordering rawHeap
}

// NewSetMultimap constructs an empty SetMultimap.
func NewSetMultimap[V comparable]() *SetMultimap[V] {
	return &SetMultimap[V]{buckets: map[string]map[V]struct{}{}}
}

func (m *SetMultimap[V]) discardStale() {
	for m.ordering.Len() > 0 {
		top := m.ordering[0].commit
		if _, ok := m.buckets[top.Hash()]; ok {
			return
		}
		heap.Pop(&m.ordering)
	}
}

// Add inserts value into c's bucket, creating it if necessary.
func (m *SetMultimap[V]) Add(c Commit, value V) {
	b, ok := m.buckets[c.Hash()]
	if !ok {
		b = map[V]struct{}{}
		m.buckets[c.Hash()] = b
		heap.Push(&m.ordering, entry{commit: c, key: keyOf(c)})
	}
	b[value] = struct{}{}
}

// Contains reports whether value is in c's bucket.
func (m *SetMultimap[V]) Contains(c Commit, value V) bool {
	b, ok := m.buckets[c.Hash()]
	if !ok {
		return false
	}
	_, ok = b[value]
	return ok
}

// Get returns c's bucket as a slice, if any.
func (m *SetMultimap[V]) Get(c Commit) ([]V, bool) {
	b, ok := m.buckets[c.Hash()]
	if !ok {
		return nil, false
	}
	out := make([]V, 0, len(b))
	for v := range b {
		out = append(out, v)
	}
	return out, true
}

// PopitemNewest removes and returns one value from the bucket keyed by the
// newest commit, deleting the bucket once it empties.
func (m *SetMultimap[V]) PopitemNewest() (Commit, V, bool) {
	m.discardStale()
	if m.ordering.Len() == 0 {
		var zero V
		return Commit{}, zero, false
	}
	top := m.ordering[0].commit
	b := m.buckets[top.Hash()]
	var v V
	for v = range b {
		break
	}
	delete(b, v)
	if len(b) == 0 {
		delete(m.buckets, top.Hash())
		heap.Pop(&m.ordering)
	}
	return top, v, true
}

// Len reports the number of live buckets.
func (m *SetMultimap[V]) Len() int { return len(m.buckets) }
