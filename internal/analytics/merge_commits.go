package analytics

import (
	"branchgraph/internal/commitset"
	"branchgraph/internal/gitstore"
)

// Branch is the subset of gitstore.LocalBranch the branch-graph analytics
// need: a ref with an optional upstream and a reflog.
type Branch = gitstore.LocalBranch

// perBranchMergeParents walks path (already the reverse-chronological
// first-parent range between a branch and its upstream) and yields its
// commits' non-first parents in strict reverse-chronological order. A
// transient buffer holds each merge parent until the next unvisited path
// commit is no newer than it, so merge parents found further down the path
// can still be emitted ahead of older buffered ones (spec §4.6).
func perBranchMergeParents(path []Commit) []Commit {
	buf := commitset.NewHeap[struct{}](
		func(Commit) bool { return true },
		func(Commit) struct{} { return struct{}{} },
	)
	var out []Commit
	idx := 0
	for idx < len(path) || buf.Len() > 0 {
		if buf.Len() > 0 {
			top, _ := buf.Peek()
			if idx >= len(path) {
				c, _, _ := buf.Pop()
				out = append(out, c)
				continue
			}
			bt, errB := top.CommitTime()
			pt, errP := path[idx].CommitTime()
			if errB == nil && errP == nil && bt >= pt {
				c, _, _ := buf.Pop()
				out = append(out, c)
				continue
			}
		}
		commit := path[idx]
		idx++
		for _, mp := range commit.AvailableMergeParents() {
			buf.Push(mp)
		}
	}
	return out
}

// MergeCommits yields (merged_commit, branch) pairs, reverse-chronological
// by merged commit, where merged_commit ranges over the non-first parents
// of each commit on the first-parent path between a branch and its
// upstream (spec §4.6).
func MergeCommits(branches []Branch, w int64) ([]Commit, []Branch, error) {
	sources := make([]Source[Branch], 0, len(branches))
	for _, b := range branches {
		upstream, ok := b.Upstream()
		if !ok {
			continue
		}
		upstreamCommit, err := upstream.Commit()
		if err != nil {
			continue
		}
		branchCommit, err := b.Commit()
		if err != nil {
			continue
		}
		path, err := Range(upstreamCommit, branchCommit, w)
		if err != nil {
			return nil, nil, err
		}
		merged := perBranchMergeParents(path)
		bb := b
		values := make([]Branch, len(merged))
		for i := range values {
			values[i] = bb
		}
		sources = append(sources, SliceSource(merged, values))
	}

	merged := MergeReverseChronological(sources)
	commits, owners := Drain(merged)
	return commits, owners, nil
}
