package analytics_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/analytics"
)

// TestUnmergedCommitsDiamond covers spec §8's diamond fixture:
// a <- b,c <- d=merge(b,c).
func TestUnmergedCommitsDiamond(t *testing.T) {
	repo := newTestRepo(t)
	a := repo.commit(t, 100)
	b := repo.commit(t, 110, a)
	c := repo.commit(t, 120, a)
	// d merges b into c: first parent is c (the branch merged into), second
	// parent is b (the incoming branch) — mirrors git's own merge-commit
	// parent order.
	d := repo.commit(t, 130, c, b)

	unmerged, err := analytics.UnmergedCommits(b, d, 60)
	require.NoError(t, err)
	require.Empty(t, unmerged)

	unmerged, err = analytics.UnmergedCommits(d, c, 60)
	require.NoError(t, err)
	require.Len(t, unmerged, 1)
	require.Equal(t, d.Hash(), unmerged[0].Hash())
}

// TestUnmergedCommitsClockDrift covers spec §8's skewed diamond: u1(101) <-
// d1(101),u2(100), d2(103)=merge(d1,u2).
func TestUnmergedCommitsClockDrift(t *testing.T) {
	repo := newTestRepo(t)
	u1 := repo.commit(t, 101)
	d1 := repo.commit(t, 101, u1)
	u2 := repo.commit(t, 100, u1)
	d2 := repo.commit(t, 103, d1, u2)

	unmerged, err := analytics.UnmergedCommits(u2, d2, 50)
	require.NoError(t, err)
	require.Empty(t, unmerged)
}

// TestRangeClockDrift covers spec §8's fixture: u4(100)<-u3(200)<-u2(300)<-
// u1(400)<-u0(500), with d1..d5 branching off u3.
func TestRangeClockDrift(t *testing.T) {
	repo := newTestRepo(t)
	u4 := repo.commit(t, 100)
	u3 := repo.commit(t, 200, u4)
	u2 := repo.commit(t, 300, u3)
	u1 := repo.commit(t, 400, u2)
	u0 := repo.commit(t, 500, u1)

	d1 := repo.commit(t, 210, u3)
	d2 := repo.commit(t, 220, d1)
	d3 := repo.commit(t, 230, d2)
	d4 := repo.commit(t, 240, d3)
	d5 := repo.commit(t, 250, d4)

	got, err := analytics.Range(u0, d5, 50)
	require.NoError(t, err)

	want := []string{d5.Hash(), d4.Hash(), d3.Hash(), d2.Hash(), d1.Hash()}
	var gotHashes []string
	for _, c := range got {
		gotHashes = append(gotHashes, c.Hash())
	}
	require.Equal(t, want, gotHashes)
}
