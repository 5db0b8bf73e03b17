// Package analytics implements the windowed commit-graph algorithms that
// drive the branch-graph builder: bounded reachability, unmerged-commit and
// range walks, the reverse-chronological merges, first-branch-reference
// tracking, and the branch DAG construction itself (spec §4.6).
package analytics

import (
	"branchgraph/internal/commitset"
	"branchgraph/internal/gitstore"
)

// Commit is an alias so callers don't need to import gitstore directly.
type Commit = gitstore.Commit

func isMissingCommit(err error) bool {
	_, ok := err.(*gitstore.MissingCommit)
	return ok
}

// WindowedReachable answers contains(c): "is c reachable from root by
// walking parents, considering only commits within a sliding window
// centred on the query?" (spec §4.6). Queries must be issued in
// non-increasing commit_time order.
type WindowedReachable struct {
	window    int64
	reachable *commitset.Set
	todo      *commitset.Set
}

// NewWindowedReachable constructs a WindowedReachable rooted at root, with
// window half-width w (seconds).
func NewWindowedReachable(root Commit, w int64) *WindowedReachable {
	wr := &WindowedReachable{
		window:    w,
		reachable: commitset.NewSet(),
		todo:      commitset.NewSet(),
	}
	wr.reachable.Add(root, true)
	wr.todo.Add(root, true)
	return wr
}

// Contains answers whether c is reachable from root within the window
// centred on c.
func (wr *WindowedReachable) Contains(c Commit) (bool, error) {
	ct, err := c.CommitTime()
	if err != nil {
		return false, err
	}
	lowThreshold := ct - wr.window
	windowTop := ct + wr.window

	for {
		node, ok := wr.todo.PeekNewest()
		if !ok {
			break
		}
		nt, err := node.CommitTime()
		if err != nil {
			return false, err
		}
		if nt < lowThreshold {
			break
		}
		wr.todo.PopNewest()
		for _, p := range node.AvailableParents() {
			pt, err := p.CommitTime()
			if err != nil {
				continue
			}
			wr.todo.Add(p, true)
			if pt <= windowTop && !wr.reachable.Contains(p) {
				wr.reachable.Add(p, true)
			}
		}
	}

	wr.reachable.RemoveNewerThan(windowTop)
	return wr.reachable.Contains(c), nil
}
