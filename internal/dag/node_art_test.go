package dag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/dag"
)

// TestNodeArtWorkedExample covers spec §4.8's worked example exactly.
func TestNodeArtWorkedExample(t *testing.T) {
	art := dag.NewNodeArt(3)
	art.Up[3] = true
	art.Down[0] = true
	art.Down[2] = true
	art.Down[3] = true
	art.Through[1] = true
	art.Through[4] = true

	require.Equal(t, "┌┄│┄┬▶┼ │", art.String())
}

func TestNodeArtSoleColumn(t *testing.T) {
	art := dag.NewNodeArt(0)
	art.Down[0] = true
	require.Equal(t, "┬", art.String())
}
