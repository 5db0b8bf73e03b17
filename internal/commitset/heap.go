package commitset

import "container/heap"

type entry struct {
	commit Commit
	key    chronoKey
}

type rawHeap []entry

func (h rawHeap) Len() int            { return len(h) }
func (h rawHeap) Less(i, j int) bool  { return h[i].key.less(h[j].key) }
func (h rawHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *rawHeap) Push(x interface{}) { *h = append(*h, x.(entry)) }
func (h *rawHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// Heap is a min-heap of commits (newest first) with lazy removal,
// parameterised by two callbacks (spec §4.5): stillContains reports
// whether a popped-to entry is still logically present (entries for which
// it returns false are discarded silently), and onRemove produces the
// per-entry value handed back by Pop.
type Heap[V any] struct {
	h             rawHeap
	stillContains func(Commit) bool
	onRemove      func(Commit) V
}

// NewHeap constructs an empty Heap.
func NewHeap[V any](stillContains func(Commit) bool, onRemove func(Commit) V) *Heap[V] {
	return &Heap[V]{stillContains: stillContains, onRemove: onRemove}
}

// Push adds a commit to the heap.
func (q *Heap[V]) Push(c Commit) {
	heap.Push(&q.h, entry{commit: c, key: keyOf(c)})
}

func (q *Heap[V]) discardStale() {
	for q.h.Len() > 0 && !q.stillContains(q.h[0].commit) {
		heap.Pop(&q.h)
	}
}

// Peek returns the newest live commit without removing it, or ok=false if
// empty.
func (q *Heap[V]) Peek() (Commit, bool) {
	q.discardStale()
	if q.h.Len() == 0 {
		return Commit{}, false
	}
	return q.h[0].commit, true
}

// Pop removes and returns the newest live commit plus its derived value.
func (q *Heap[V]) Pop() (Commit, V, bool) {
	q.discardStale()
	if q.h.Len() == 0 {
		var zero V
		return Commit{}, zero, false
	}
	e := heap.Pop(&q.h).(entry)
	return e.commit, q.onRemove(e.commit), true
}

// Len reports the heap's raw size, including stale entries not yet
// discarded (intended for diagnostics, not correctness).
func (q *Heap[V]) Len() int { return q.h.Len() }
