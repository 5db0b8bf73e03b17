package analytics_test

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"branchgraph/internal/gitstore"
)

// testRepo writes loose commit objects directly (no git binary involved),
// so analytics can be exercised against a real Store without shelling out.
type testRepo struct {
	dir   string
	store *gitstore.Store
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	return &testRepo{dir: dir, store: gitstore.NewStore(dir)}
}

// commit writes a loose commit object with the given parents and
// committer/author time, returning a Commit handle for it.
func (r *testRepo) commit(t *testing.T, commitTime int64, parents ...gitstore.Commit) gitstore.Commit {
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
	if err := os.MkdirAll(objDir, 0o755); err != nil {
		t.Fatal(err)
	}
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(full); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(objDir, hash[2:]), compressed.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return r.store.Commit(hash)
}
