package gitstore_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"branchgraph/internal/gitstore"
)

// TestParseConfigEscapedSubsectionAndValue covers spec §8's escaped-quote
// fixtures: a quoted subsection name containing an escaped quote, and a
// merge ref value containing one.
func TestParseConfigEscapedSubsectionAndValue(t *testing.T) {
	src := `[branch "a\"b"]
	merge = refs/heads/a\"b
	remote = origin
`
	out := gitstore.Config{}
	require.NoError(t, gitstore.ParseConfig("test", strings.NewReader(src), out))

	key := gitstore.SectionKey{Section: "branch", Subsection: `a"b`, HasSub: true}
	merge, ok := out.Get(key, "merge")
	require.True(t, ok)
	require.Equal(t, `refs/heads/a"b`, merge)

	remote, ok := out.Get(key, "remote")
	require.True(t, ok)
	require.Equal(t, "origin", remote)
}

func TestParseConfigLaterFileOverwritesKeyByKey(t *testing.T) {
	out := gitstore.Config{}
	require.NoError(t, gitstore.ParseConfig("first", strings.NewReader(`
[core]
	bare = false
	repositoryformatversion = 0
`), out))
	require.NoError(t, gitstore.ParseConfig("second", strings.NewReader(`
[core]
	bare = true
`), out))

	key := gitstore.SectionKey{Section: "core"}
	bare, ok := out.Get(key, "bare")
	require.True(t, ok)
	require.Equal(t, "true", bare)

	version, ok := out.Get(key, "repositoryformatversion")
	require.True(t, ok)
	require.Equal(t, "0", version)
}

func TestParseConfigQuotedValue(t *testing.T) {
	out := gitstore.Config{}
	require.NoError(t, gitstore.ParseConfig("test", strings.NewReader(`
[user]
	name = "Jane Q. Doe"
`), out))
	name, ok := out.Get(gitstore.SectionKey{Section: "user"}, "name")
	require.True(t, ok)
	require.Equal(t, "Jane Q. Doe", name)
}
