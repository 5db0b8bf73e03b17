package analytics

import "branchgraph/internal/commitset"

// Source is a pull-style reverse-chronological iterator of (Commit, value)
// pairs: each call returns the next pair, or ok=false once exhausted.
type Source[V any] func() (Commit, V, bool)

// MergeReverseChronological merges several already-reverse-chronological
// sources into one, preserving the ordering (spec §4.6). Each source's
// current head is kept in a CommitMultimap keyed by the commit; ties are
// broken by picking any value from the newest bucket.
func MergeReverseChronological[V any](sources []Source[V]) Source[V] {
	type pending struct {
		commit Commit
		value  V
		ok     bool
	}
	heads := make([]pending, len(sources))
	heap := commitset.NewListMultimap[int]()

	pull := func(i int) {
		c, v, ok := sources[i]()
		heads[i] = pending{commit: c, value: v, ok: ok}
		if ok {
			heap.Add(c, i)
		}
	}
	for i := range sources {
		pull(i)
	}

	return func() (Commit, V, bool) {
		c, i, ok := heap.PopitemNewest()
		if !ok {
			var zero V
			return Commit{}, zero, false
		}
		v := heads[i].value
		pull(i)
		return c, v, true
	}
}

// SliceSource adapts an already-materialised, reverse-chronological slice of
// pairs into a Source.
func SliceSource[V any](commits []Commit, values []V) Source[V] {
	idx := 0
	return func() (Commit, V, bool) {
		if idx >= len(commits) {
			var zero V
			return Commit{}, zero, false
		}
		c, v := commits[idx], values[idx]
		idx++
		return c, v, true
	}
}

// Drain exhausts a Source into parallel commit/value slices.
func Drain[V any](s Source[V]) ([]Commit, []V) {
	var commits []Commit
	var values []V
	for {
		c, v, ok := s()
		if !ok {
			return commits, values
		}
		commits = append(commits, c)
		values = append(values, v)
	}
}
