package analytics

import (
	"container/heap"

	"branchgraph/internal/commitset"
	"branchgraph/internal/gitstore"
)

// chronoReflog pairs a branch with the current (unconsumed) head of its
// reflog iterator, per spec §4.6.
type chronoReflog struct {
	branch Branch
	head   gitstore.ReflogEntry
	iter   gitstore.ReflogIterator
}

type reflogHeap []chronoReflog

func (h reflogHeap) Len() int            { return len(h) }
func (h reflogHeap) Less(i, j int) bool  { return h[i].head.Timestamp > h[j].head.Timestamp }
func (h reflogHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *reflogHeap) Push(x interface{}) { *h = append(*h, x.(chronoReflog)) }
func (h *reflogHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}

// WindowedFirstBranchReferences answers get(commit) -> (Branch, ok): the
// branch whose reflog first referenced commit, if any within the window
// (spec §4.6). Queries must be issued in non-increasing commit_time order.
type WindowedFirstBranchReferences struct {
	window  int64
	heads   reflogHeap
	pending *commitset.Set
	refs    *commitset.Map[Branch]
}

// NewWindowedFirstBranchReferences primes one ChronoReflog per branch from
// its reflog's newest entry.
func NewWindowedFirstBranchReferences(branches []Branch, w int64) (*WindowedFirstBranchReferences, error) {
	wfbr := &WindowedFirstBranchReferences{
		window:  w,
		pending: commitset.NewSet(),
		refs:    commitset.NewMap[Branch](),
	}
	for _, b := range branches {
		it := b.Reflog()
		entry, ok, err := it.Next()
		if err != nil {
			return nil, err
		}
		if ok {
			wfbr.heads = append(wfbr.heads, chronoReflog{branch: b, head: entry, iter: it})
		}
	}
	heap.Init(&wfbr.heads)
	return wfbr, nil
}

// Get answers, for commit c, the branch whose reflog first referenced it
// within the window, if any.
func (wfbr *WindowedFirstBranchReferences) Get(c Commit) (Branch, bool, error) {
	var zero Branch
	ct, err := c.CommitTime()
	if err != nil {
		return zero, false, err
	}
	low := ct - wfbr.window
	top := ct + wfbr.window

	for wfbr.heads.Len() > 0 && wfbr.heads[0].head.Timestamp >= low {
		chrono := heap.Pop(&wfbr.heads).(chronoReflog)
		entryCommit := chrono.head.Commit
		if !wfbr.refs.Contains(entryCommit) {
			wfbr.refs.Set(entryCommit, chrono.branch)
		}
		wfbr.pending.Add(entryCommit, true)

		nextEntry, ok, err := chrono.iter.Next()
		if err != nil {
			return zero, false, err
		}
		if ok {
			chrono.head = nextEntry
			heap.Push(&wfbr.heads, chrono)
		}
	}

	for {
		node, ok := wfbr.pending.PeekNewest()
		if !ok {
			break
		}
		nt, err := node.CommitTime()
		if err != nil {
			break
		}
		if nt < low {
			break
		}
		wfbr.pending.PopNewest()

		parent, ok, err := node.FirstParent()
		if err != nil {
			if isMissingCommit(err) {
				continue
			}
			return zero, false, err
		}
		if !ok {
			continue
		}
		if !wfbr.refs.Contains(parent) {
			refBranch, _ := wfbr.refs.Get(node)
			wfbr.refs.Set(parent, refBranch)
		}
		wfbr.pending.Add(parent, true)
	}

	wfbr.refs.RemoveNewerThan(top)
	b, ok := wfbr.refs.Get(c)
	return b, ok, nil
}
