package gitstore_test

import (
	"encoding/binary"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/gitstore"
)

// buildFakeIndex writes a minimal v2 pack index for the given objects, whose
// hashes and direct (non-large) offsets are given, sorted ascending by hash.
func buildFakeIndex(t *testing.T, hashes []string, offsets []int64) string {
	t.Helper()
	n := len(hashes)
	cumulative := make([]uint32, 256)
	raw := make([][]byte, n)
	for i, h := range hashes {
		b, err := hex.DecodeString(h)
		require.NoError(t, err)
		raw[i] = b
	}
	for firstByte := 0; firstByte < 256; firstByte++ {
		var count uint32
		for _, b := range raw {
			if int(b[0]) <= firstByte {
				count++
			}
		}
		cumulative[firstByte] = count
	}

	var buf []byte
	buf = append(buf, 0xff, 't', 'O', 'c', 0x00, 0x00, 0x00, 0x02)
	for i := 0; i < 256; i++ {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], cumulative[i])
		buf = append(buf, b[:]...)
	}
	for _, b := range raw {
		buf = append(buf, b...)
	}
	buf = append(buf, make([]byte, 4*n)...) // CRC32 table, unused by lookups
	for _, off := range offsets {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(off))
		buf = append(buf, b[:]...)
	}

	path := filepath.Join(t.TempDir(), "pack.idx")
	require.NoError(t, os.WriteFile(path, buf, 0o644))
	return path
}

func TestPackIndexOffsetLookup(t *testing.T) {
	hashes := []string{
		"1000000000000000000000000000000000000000",
		"1001000000000000000000000000000000000000",
		"3000000000000000000000000000000000000000",
	}
	offsets := []int64{0x101, 0x142, 0x204}
	path := buildFakeIndex(t, hashes, offsets)

	idx := gitstore.NewPackIndex(path)
	require.NoError(t, idx.Open())
	defer idx.Close()

	for i, h := range hashes {
		off, ok, err := idx.Offset(h)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, offsets[i], off)
	}
}

func TestPackIndexOffsetNotFound(t *testing.T) {
	hashes := []string{
		"1000000000000000000000000000000000000000",
		"3000000000000000000000000000000000000000",
	}
	offsets := []int64{0x101, 0x204}
	path := buildFakeIndex(t, hashes, offsets)

	idx := gitstore.NewPackIndex(path)
	require.NoError(t, idx.Open())
	defer idx.Close()

	missing := "2000000000000000000000000000000000000000"
	_, ok, err := idx.Offset(missing)
	require.NoError(t, err)
	require.False(t, ok)

	// Second lookup must be served from the negative cache; deleting the
	// backing file proves no re-read occurs.
	require.NoError(t, idx.Close())
	require.NoError(t, os.Remove(path))
	_, ok, err = idx.Offset(missing)
	require.NoError(t, err)
	require.False(t, ok)
}
