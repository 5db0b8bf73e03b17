package commitset

import "container/heap"

// Set is a set of commits with O(1) access to the newest commit (spec
// §4.5). Removal of the current newest is O(log n) via a lazily-cleaned
// internal heap; arbitrary removal is O(1) average (a tombstone map entry).
type Set struct {
	members   map[string]Commit
	ordering  rawHeap
	LastAdded *Commit
}

// NewSet constructs an empty Set.
func NewSet() *Set {
	return &Set{members: map[string]Commit{}}
}

func (s *Set) discardStale() {
	for s.ordering.Len() > 0 {
		top := s.ordering[0].commit
		if _, ok := s.members[top.Hash()]; ok {
			return
		}
		heap.Pop(&s.ordering)
	}
}

// Contains reports set membership.
func (s *Set) Contains(c Commit) bool {
	_, ok := s.members[c.Hash()]
	return ok
}

// Add inserts c into the set (no-op when present is false, mirroring
// the original's "add(None)" guard around optional parents) and records it
// as LastAdded; LastAdded is nil after a no-op call.
func (s *Set) Add(c Commit, present bool) {
	s.LastAdded = nil
	if !present {
		return
	}
	cc := c
	s.LastAdded = &cc
	if _, ok := s.members[c.Hash()]; ok {
		return
	}
	s.members[c.Hash()] = c
	heap.Push(&s.ordering, entry{commit: c, key: keyOf(c)})
}

// Remove deletes c from the set, if present.
func (s *Set) Remove(c Commit) {
	delete(s.members, c.Hash())
}

// PeekNewest returns the newest commit in the set without removing it.
func (s *Set) PeekNewest() (Commit, bool) {
	s.discardStale()
	if s.ordering.Len() == 0 {
		return Commit{}, false
	}
	return s.ordering[0].commit, true
}

// PopNewest removes and returns the newest commit in the set.
func (s *Set) PopNewest() (Commit, bool) {
	s.discardStale()
	if s.ordering.Len() == 0 {
		return Commit{}, false
	}
	e := heap.Pop(&s.ordering).(entry)
	delete(s.members, e.commit.Hash())
	return e.commit, true
}

// RemoveNewerThan prunes every commit with commit_time > t (spec §4.5).
func (s *Set) RemoveNewerThan(t int64) {
	for {
		c, ok := s.PeekNewest()
		if !ok || commitTimeOrMin(c) <= t {
			return
		}
		s.PopNewest()
	}
}

// Len reports the number of live members.
func (s *Set) Len() int { return len(s.members) }
