package gitstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/gitstore"
)

// TestApplyDeltaCopyAndInsert exercises both delta instruction kinds: a
// copy from the base followed by a literal insert.
func TestApplyDeltaCopyAndInsert(t *testing.T) {
	base := []byte("Hello, World!\n")
	delta := []byte{
		0x0e, // base size varint: 14
		0x0b, // result size varint: 11
		0x90, 0x07, // copy instruction: offset=0 (omitted), size=7
		0x04, 'G', 'o', '!', '\n', // insert instruction: 4 literal bytes
	}

	out, err := gitstore.ApplyDelta(base, delta)
	require.NoError(t, err)
	require.Equal(t, "Hello, Go!\n", string(out))
}

func TestApplyDeltaBaseSizeMismatch(t *testing.T) {
	base := []byte("short")
	delta := []byte{0x0e, 0x00}
	_, err := gitstore.ApplyDelta(base, delta)
	require.Error(t, err)
}

func TestApplyDeltaCopyOutOfRange(t *testing.T) {
	base := []byte("abc")
	delta := []byte{
		0x03, // base size: 3
		0x05, // result size: 5
		0x90, 0x05, // copy offset=0, size=5 (exceeds base length)
	}
	_, err := gitstore.ApplyDelta(base, delta)
	require.Error(t, err)
}
