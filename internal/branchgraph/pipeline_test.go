package branchgraph_test

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/branchgraph"
	"branchgraph/internal/gitstore"
	"branchgraph/internal/render"
)

// pipelineTestRepo builds a minimal on-disk repo (loose commits, refs,
// config, HEAD) exercising the full BuildRows pipeline without a git binary.
type pipelineTestRepo struct {
	dir   string
	store *gitstore.Store
	repo  *gitstore.Repo
}

func newPipelineTestRepo(t *testing.T) *pipelineTestRepo {
	t.Helper()
	dir := t.TempDir()
	store := gitstore.NewStore(dir)
	repo := &gitstore.Repo{GitDir: dir, Store: store, Config: gitstore.Config{}}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "HEAD"), []byte("ref: refs/heads/feature4\n"), 0o644))
	return &pipelineTestRepo{dir: dir, store: store, repo: repo}
}

// commit writes a loose commit object directly (no git binary), mirroring
// internal/analytics's test helper.
func (r *pipelineTestRepo) commit(t *testing.T, commitTime int64, parents ...gitstore.Commit) gitstore.Commit {
	t.Helper()
	var body bytes.Buffer
	fmt.Fprintf(&body, "tree 4b825dc642cb6eb9a060e54bf8d69288fbee4904\n")
	for _, p := range parents {
		fmt.Fprintf(&body, "parent %s\n", p.Hash())
	}
	fmt.Fprintf(&body, "author Test <test@example.com> %d +0000\n", commitTime)
	fmt.Fprintf(&body, "committer Test <test@example.com> %d +0000\n", commitTime)
	body.WriteString("\nmsg\n")

	header := fmt.Sprintf("commit %d\x00", body.Len())
	full := append([]byte(header), body.Bytes()...)
	sum := sha1.Sum(full)
	hash := hex.EncodeToString(sum[:])

	objDir := filepath.Join(r.dir, "objects", hash[0:2])
	require.NoError(t, os.MkdirAll(objDir, 0o755))
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	_, err := zw.Write(full)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join(objDir, hash[2:]), compressed.Bytes(), 0o644))
	return r.store.Commit(hash)
}

func (r *pipelineTestRepo) setBranch(t *testing.T, name string, c gitstore.Commit) {
	t.Helper()
	path := filepath.Join(r.dir, "refs", "heads", name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(c.Hash()+"\n"), 0o644))
}

func (r *pipelineTestRepo) setUpstream(name, upstreamBranch string) {
	key := gitstore.SectionKey{Section: "branch", Subsection: name, HasSub: true}
	r.repo.Config[key] = map[string]string{"remote": ".", "merge": "refs/heads/" + upstreamBranch}
}

// TestBuildRowsSimpleChainOrder covers spec §8's end-to-end scenario A
// topology (main<feature1<feature2<feature3<feature4, feature2's upstream
// is feature1, feature4's upstream is feature3, no merges): the rows come
// back bottom-rooted (main last) with every name present exactly once, and
// HEAD/sync decoration applied per spec §6. The NodeArt glyphs of this
// five-branch layout are not asserted here or elsewhere; node_art_test.go
// covers NodeArt.String() on standalone rows only.
func TestBuildRowsSimpleChainOrder(t *testing.T) {
	r := newPipelineTestRepo(t)
	main := r.commit(t, 100)
	f1 := r.commit(t, 200)
	f2 := r.commit(t, 300, f1)
	f3 := r.commit(t, 400)
	f4 := r.commit(t, 500, f3)

	r.setBranch(t, "main", main)
	r.setBranch(t, "feature1", f1)
	r.setBranch(t, "feature2", f2)
	r.setBranch(t, "feature3", f3)
	r.setBranch(t, "feature4", f4)
	r.setUpstream("feature2", "feature1")
	r.setUpstream("feature4", "feature3")

	rows, err := branchgraph.BuildRows(r.repo, branchgraph.WindowSizeSecs)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	require.Equal(t, []string{"feature4", "feature3", "feature2", "feature1", "main"}, names)

	for _, row := range rows {
		require.Equal(t, row.Name == "feature4", row.IsHead)
		require.Equal(t, render.NoRemote, row.Sync)
	}

	var buf bytes.Buffer
	term := render.NewTerminal(&buf, false, false, false)
	require.NoError(t, term.RenderFrame(rows))
	require.Contains(t, buf.String(), "feature4\n")
	require.Contains(t, buf.String(), "main\n")
}

// TestBuildRowsSafeToDeleteAndUnmergedCount covers a branch whose upstream
// has advanced past it (unmerged count > 0, not safe to delete) alongside
// one fully merged into its upstream (safe to delete).
func TestBuildRowsSafeToDeleteAndUnmergedCount(t *testing.T) {
	r := newPipelineTestRepo(t)
	base := r.commit(t, 100)
	mainTip := r.commit(t, 200, base)
	mergedTip := base // fully merged: branch tip == upstream's ancestor
	aheadTip := r.commit(t, 150, base)

	r.setBranch(t, "main", mainTip)
	r.setBranch(t, "merged", mergedTip)
	r.setBranch(t, "ahead", aheadTip)
	r.setUpstream("merged", "main")
	r.setUpstream("ahead", "main")
	require.NoError(t, os.WriteFile(filepath.Join(r.dir, "HEAD"), []byte("ref: refs/heads/main\n"), 0o644))

	rows, err := branchgraph.BuildRows(r.repo, branchgraph.WindowSizeSecs)
	require.NoError(t, err)

	byName := map[string]render.Row{}
	for _, row := range rows {
		byName[row.Name] = row
	}
	require.True(t, byName["merged"].SafeToDelete)
	require.Equal(t, 0, byName["merged"].UnmergedCount)
	require.False(t, byName["ahead"].SafeToDelete)
	require.Equal(t, 1, byName["ahead"].UnmergedCount)
}
