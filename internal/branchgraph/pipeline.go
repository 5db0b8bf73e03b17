// Package branchgraph wires the gitstore, analytics, dag, and render
// packages into the end-to-end pipeline the CLI drives: locate repo, load
// branches, compute the branch DAG, order and lay it out, then hand rows to
// a Renderer (spec §1, §6).
package branchgraph

import (
	"math"

	"branchgraph/internal/analytics"
	"branchgraph/internal/dag"
	"branchgraph/internal/gitstore"
	"branchgraph/internal/render"
)

// WindowSizeSecs is the default sliding-window half-width for every
// windowed analytic (spec §4.6).
const WindowSizeSecs = 60

// BuildRows runs one full pipeline pass: locate branches, compute the
// branch DAG, order it, assign NodeArt, and decorate each row with its
// unmerged count and remote-sync status, in top-to-bottom display order.
func BuildRows(repo *gitstore.Repo, windowSecs int64) ([]render.Row, error) {
	branches, err := repo.LocalBranches()
	if err != nil {
		return nil, err
	}

	d, err := analytics.ComputeBranchDAG(branches, windowSecs)
	if err != nil {
		return nil, err
	}

	ordered := dag.PartiallyOrdered(d, branchKey)
	artNodes := dag.AddNodeArt(ordered, d)

	rows := make([]render.Row, 0, len(artNodes))
	for _, an := range artNodes {
		row, err := buildRow(repo, an.Node, an.Art, windowSecs)
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func branchKey(b gitstore.LocalBranch) int64 {
	c, err := b.Commit()
	if err != nil {
		return math.MinInt64
	}
	t, err := c.CommitTime()
	if err != nil {
		return math.MinInt64
	}
	return t
}

func buildRow(repo *gitstore.Repo, b gitstore.LocalBranch, art dag.NodeArt, windowSecs int64) (render.Row, error) {
	bc, err := b.Commit()
	if err != nil {
		return render.Row{}, err
	}

	row := render.Row{
		Art:    art.String(),
		Name:   b.Name(),
		IsHead: b.IsHead(),
		Sync:   render.NoRemote,
	}

	upstream, hasUpstream := b.Upstream()
	if !hasUpstream {
		return row, nil
	}
	uc, err := upstream.Commit()
	if err != nil {
		return row, nil
	}
	if unmerged, err := analytics.UnmergedCommits(bc, uc, windowSecs); err == nil {
		row.UnmergedCount = len(unmerged)
	}
	if _, isLocal := upstream.(gitstore.LocalBranch); isLocal {
		row.SafeToDelete = row.UnmergedCount == 0
	}
	row.Sync = syncStatus(repo, b, bc, upstream)
	return row, nil
}

// syncStatus implements spec §6's remote-sync derivation: a RemoteBranch
// upstream is out of sync if it is newer than the branch; the push-default
// remote's matching branch (if any) is out of sync if its commit differs.
func syncStatus(repo *gitstore.Repo, b gitstore.LocalBranch, branchCommit gitstore.Commit, upstream gitstore.Ref) render.SyncStatus {
	anyRemote := false
	outOfSync := false

	if rb, ok := upstream.(gitstore.RemoteBranch); ok {
		anyRemote = true
		if uc, err := rb.Commit(); err == nil {
			ut, errU := uc.CommitTime()
			bt, errB := branchCommit.CommitTime()
			if errU == nil && errB == nil && ut > bt {
				outOfSync = true
			}
		}
	}

	pushDefault, ok := repo.Config.Get(gitstore.SectionKey{Section: "remote"}, "pushdefault")
	if ok && pushDefault != "" {
		prb := repo.NewRemoteBranch(pushDefault, b.Name())
		if prb.Exists() {
			anyRemote = true
			if pc, err := prb.Commit(); err == nil && pc.Hash() != branchCommit.Hash() {
				outOfSync = true
			}
		}
	}

	switch {
	case outOfSync:
		return render.OutOfSync
	case anyRemote:
		return render.InSync
	default:
		return render.NoRemote
	}
}
