package dag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/dag"
)

func intKey(n int) int { return n }

func indexOfInt(t *testing.T, ordered []int, n int) int {
	t.Helper()
	for i, v := range ordered {
		if v == n {
			return i
		}
	}
	t.Fatalf("%d not found in %v", n, ordered)
	return -1
}

// TestPartiallyOrderedChildPrecedesParent reproduces spec §8's worked
// scenario A cluster: feature3 (upstream, key 4) -> feature4 (downstream,
// key 5). The child always outranks its parent regardless of key, so
// feature4 (the higher-keyed child here) must still come first.
func TestPartiallyOrderedChildPrecedesParent(t *testing.T) {
	d := dag.New[int]()
	require.True(t, d.Add(4, 5)) // feature3=4 (parent), feature4=5 (child)

	ordered := dag.PartiallyOrdered(d, intKey)
	require.Equal(t, []int{5, 4}, ordered)
}

// TestPartiallyOrderedChildPrecedesParentEvenWhenKeyedLower is the original
// implementation's own property-based regression (test_always_puts_child_first
// in its partially_ordered test suite): the child-before-parent invariant
// holds for EVERY edge unconditionally, even when the child's own key is
// smaller than its parent's — a parent must not be allowed to "borrow" a
// sibling's higher key and leapfrog a lower-keyed child of its own.
func TestPartiallyOrderedChildPrecedesParentEvenWhenKeyedLower(t *testing.T) {
	d := dag.New[int]()
	require.True(t, d.Add(5, 10)) // x=5 (parent), y=10 (child, keyed higher)
	require.True(t, d.Add(5, 3))  // x=5 (parent), w=3 (child, keyed lower)

	ordered := dag.PartiallyOrdered(d, intKey)
	require.ElementsMatch(t, []int{5, 10, 3}, ordered)

	iX := indexOfInt(t, ordered, 5)
	iY := indexOfInt(t, ordered, 10)
	iW := indexOfInt(t, ordered, 3)
	require.Less(t, iY, iX)
	require.Less(t, iW, iX)
}

// TestPartiallyOrderedNoEdgesSortsByKeyDescending covers the degenerate case
// with no edges at all: every node is its own cluster, so the order is
// purely descending by key.
func TestPartiallyOrderedNoEdgesSortsByKeyDescending(t *testing.T) {
	d := dag.New[int]()
	d.AddNode(2)
	d.AddNode(4)
	d.AddNode(1)
	d.AddNode(3)

	ordered := dag.PartiallyOrdered(d, intKey)
	require.Equal(t, []int{4, 3, 2, 1}, ordered)
}

// TestPartiallyOrderedClustersAreContiguous builds two disjoint components
// and checks that each component's nodes occupy a contiguous run of the
// returned order, with the higher-keyed component (by its max member)
// placed first.
func TestPartiallyOrderedClustersAreContiguous(t *testing.T) {
	d := dag.New[int]()
	require.True(t, d.Add(1, 9)) // component {1, 9}, max key 9
	require.True(t, d.Add(2, 3)) // component {2, 3}, max key 3

	ordered := dag.PartiallyOrdered(d, intKey)
	require.Len(t, ordered, 4)

	positions := map[int]int{}
	for i, n := range ordered {
		positions[n] = i
	}

	hi := []int{positions[1], positions[9]}
	lo := []int{positions[2], positions[3]}
	require.ElementsMatch(t, []int{0, 1}, hi)
	require.ElementsMatch(t, []int{2, 3}, lo)
}

// TestPartiallyOrderedLargestNodePosition reproduces the original
// implementation's test_largest_node_as_close_to_start_as_possible: the
// globally largest-keyed node lands at the index equal to the size of its
// downstream-reachable set, since its whole reachable subgraph is flushed
// ahead of it as a contiguous prefix.
func TestPartiallyOrderedLargestNodePosition(t *testing.T) {
	d := dag.New[int]()
	require.True(t, d.Add(100, 1)) // 100 is the largest key, has 2 descendants
	require.True(t, d.Add(1, 2))
	d.AddNode(50)

	ordered := dag.PartiallyOrdered(d, intKey)
	require.Equal(t, 2, indexOfInt(t, ordered, 100))
}
