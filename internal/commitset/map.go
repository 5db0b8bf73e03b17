package commitset

import "container/heap"

// Map is a map keyed by commit with O(1) access to the entry whose key is
// the newest commit (spec §4.5). It additionally enforces a sliding
// "window_top" floor: once the floor is raised past a commit's time,
// Set on that commit's key becomes a no-op, matching the windowed
// analytics' requirement that entries older than the active window never
// get (re)inserted.
type Map[V any] struct {
	values    map[string]V
	ordering  rawHeap
	windowTop int64
	hasFloor  bool
}

// NewMap constructs an empty Map with no window floor.
func NewMap[V any]() *Map[V] {
	return &Map[V]{values: map[string]V{}}
}

// SetWindowTop installs a floor: subsequent Set calls for commits with
// commit_time < t are ignored.
func (m *Map[V]) SetWindowTop(t int64) {
	m.windowTop = t
	m.hasFloor = true
}

func (m *Map[V]) discardStale() {
	for m.ordering.Len() > 0 {
		top := m.ordering[0].commit
		if _, ok := m.values[top.Hash()]; ok {
			return
		}
		heap.Pop(&m.ordering)
	}
}

// Contains reports whether c has a value in the map.
func (m *Map[V]) Contains(c Commit) bool {
	_, ok := m.values[c.Hash()]
	return ok
}

// Get returns the value stored for c, if any.
func (m *Map[V]) Get(c Commit) (V, bool) {
	v, ok := m.values[c.Hash()]
	return v, ok
}

// Set stores value for key c, unless c falls below the active window
// floor (a no-op in that case).
func (m *Map[V]) Set(c Commit, value V) {
	if m.hasFloor && commitTimeOrMin(c) < m.windowTop {
		return
	}
	if _, ok := m.values[c.Hash()]; !ok {
		heap.Push(&m.ordering, entry{commit: c, key: keyOf(c)})
	}
	m.values[c.Hash()] = value
}

// Delete removes c's entry, if present.
func (m *Map[V]) Delete(c Commit) {
	delete(m.values, c.Hash())
}

// PeekNewest returns the value keyed by the newest commit, without removing
// it.
func (m *Map[V]) PeekNewest() (Commit, V, bool) {
	m.discardStale()
	if m.ordering.Len() == 0 {
		var zero V
		return Commit{}, zero, false
	}
	top := m.ordering[0].commit
	return top, m.values[top.Hash()], true
}

// PopitemNewest removes and returns the entry keyed by the newest commit.
func (m *Map[V]) PopitemNewest() (Commit, V, bool) {
	m.discardStale()
	if m.ordering.Len() == 0 {
		var zero V
		return Commit{}, zero, false
	}
	e := heap.Pop(&m.ordering).(entry)
	v := m.values[e.commit.Hash()]
	delete(m.values, e.commit.Hash())
	return e.commit, v, true
}

// RemoveNewerThan prunes every entry whose key has commit_time > t.
func (m *Map[V]) RemoveNewerThan(t int64) {
	for {
		c, _, ok := m.PeekNewest()
		if !ok || commitTimeOrMin(c) <= t {
			return
		}
		m.PopitemNewest()
	}
}

// Len reports the number of live entries.
func (m *Map[V]) Len() int { return len(m.values) }
