package analytics

import (
	"sort"

	"branchgraph/internal/dag"
	"branchgraph/internal/gitstore"
)

// BranchEdge is a directed edge of the branch graph: From is the upstream
// (parent) branch, To is the downstream (child) branch.
type BranchEdge struct {
	From Branch
	To   Branch
}

// ComputeBranchDAG builds the branch graph (spec §4.6):
//  1. every branch with a non-remote upstream contributes an upstream edge;
//  2. every merge-commit whose first referencing branch is known
//     contributes a merge edge;
//  3. both streams are merged reverse-chronologically and fed into a fresh
//     DAG, so that when a cyclic history forces a choice, the newer merge
//     wins and the older back-edge is silently dropped.
func ComputeBranchDAG(branches []Branch, w int64) (*dag.DAG[Branch], error) {
	upstreamCommits, upstreamEdges, err := upstreamEdgeStream(branches)
	if err != nil {
		return nil, err
	}

	mergedCommits, mergedBranches, err := MergeCommits(branches, w)
	if err != nil {
		return nil, err
	}
	refs, err := NewWindowedFirstBranchReferences(branches, w)
	if err != nil {
		return nil, err
	}

	var mergeCommits []Commit
	var mergeEdges []BranchEdge
	for i, mc := range mergedCommits {
		first, ok, err := refs.Get(mc)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		mergeCommits = append(mergeCommits, mc)
		mergeEdges = append(mergeEdges, BranchEdge{From: first, To: mergedBranches[i]})
	}

	merged := MergeReverseChronological([]Source[BranchEdge]{
		SliceSource(upstreamCommits, upstreamEdges),
		SliceSource(mergeCommits, mergeEdges),
	})

	d := dag.New[Branch]()
	for _, b := range branches {
		d.AddNode(b)
	}
	for {
		_, e, ok := merged()
		if !ok {
			break
		}
		d.Add(e.From, e.To)
	}
	return d, nil
}

// upstreamEdgeStream collects (u.commit, (u, b)) pairs for every branch b
// whose upstream u is itself a local (non-remote) branch, sorted
// reverse-chronologically by u.commit (spec §4.6, step 1).
func upstreamEdgeStream(branches []Branch) ([]Commit, []BranchEdge, error) {
	type item struct {
		commit Commit
		edge   BranchEdge
	}
	var items []item
	for _, b := range branches {
		upstream, ok := b.Upstream()
		if !ok {
			continue
		}
		lb, isLocal := upstream.(gitstore.LocalBranch)
		if !isLocal {
			continue
		}
		c, err := lb.Commit()
		if err != nil {
			continue
		}
		items = append(items, item{commit: c, edge: BranchEdge{From: lb, To: b}})
	}

	sort.SliceStable(items, func(i, j int) bool {
		ti, erri := items[i].commit.CommitTime()
		tj, errj := items[j].commit.CommitTime()
		if erri != nil || errj != nil {
			return erri == nil
		}
		return ti > tj
	})

	commits := make([]Commit, len(items))
	edges := make([]BranchEdge, len(items))
	for i, it := range items {
		commits[i] = it.commit
		edges[i] = it.edge
	}
	return commits, edges, nil
}
