package gitstore_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/gitstore"
)

// forwardLines splits s into lines the same way a line-oriented forward
// reader normalising "\n"/"\r\n"/"\r" terminators to "\n" would, including an
// unterminated final line.
func forwardLines(s string) []string {
	if s == "" {
		return nil
	}
	var lines []string
	start := 0
	i := 0
	for i < len(s) {
		switch s[i] {
		case '\n':
			lines = append(lines, s[start:i]+"\n")
			i++
			start = i
		case '\r':
			lines = append(lines, s[start:i]+"\n")
			if i+1 < len(s) && s[i+1] == '\n' {
				i += 2
			} else {
				i++
			}
			start = i
		default:
			i++
		}
	}
	if start < len(s) {
		// A final line with no terminator is returned exactly as-is, with no
		// newline appended.
		lines = append(lines, s[start:])
	}
	return lines
}

func reversedStrings(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[len(s)-1-i] = v
	}
	return out
}

func checkReverseMatchesForward(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "log")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	got, err := gitstore.ReadLinesReversed(path)
	require.NoError(t, err)

	want := reversedStrings(forwardLines(content))
	require.Equal(t, want, got)
}

func TestReadLinesReversedBasic(t *testing.T) {
	checkReverseMatchesForward(t, "one\ntwo\nthree\n")
}

func TestReadLinesReversedNoTrailingNewline(t *testing.T) {
	checkReverseMatchesForward(t, "one\ntwo\nthree")
}

func TestReadLinesReversedCRLF(t *testing.T) {
	checkReverseMatchesForward(t, "one\r\ntwo\r\nthree\r\n")
}

func TestReadLinesReversedLoneCR(t *testing.T) {
	checkReverseMatchesForward(t, "one\rtwo\rthree\r")
}

func TestReadLinesReversedLongLineSpanningChunks(t *testing.T) {
	checkReverseMatchesForward(t, strings.Repeat("x", 3000)+"\nshort\n")
}

func TestReadLinesReversedNewlineOnChunkBoundary(t *testing.T) {
	// 1024 is the reverse-reader's chunk size. The first chunk read is the
	// last 1024 bytes (the "b" line), so the newline ending the "a" line is
	// the final byte of the next chunk, exactly on the boundary.
	content := strings.Repeat("a", 50) + "\n" + strings.Repeat("b", 1023) + "\n"
	checkReverseMatchesForward(t, content)
}

func TestReadLinesReversedMultiByteUTF8(t *testing.T) {
	checkReverseMatchesForward(t, "héllo\nwörld\n日本語\n")
}

func TestReadLinesReversedMissingFile(t *testing.T) {
	got, err := gitstore.ReadLinesReversed(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadLinesReversedEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	got, err := gitstore.ReadLinesReversed(path)
	require.NoError(t, err)
	require.Empty(t, got)
}
