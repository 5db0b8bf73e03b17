// Package commitset provides the commit containers shared by every
// analytic in internal/analytics: a chronologically-ordered heap, a set
// with O(1) newest-access, and map/multimap variants with windowed
// pruning (spec §4.5).
package commitset

import "branchgraph/internal/gitstore"

// Commit is an alias so callers of this package don't need to import
// gitstore directly just to name the element type.
type Commit = gitstore.Commit

// chronoKey orders commits so that newer commits compare less than older
// ones (spec §4.5: "newer = smaller in heap order"). A commit whose
// commit_time is unavailable (MissingCommit) sorts as older than
// everything.
type chronoKey struct {
	missing bool
	negTime int64
	hash    string
}

func keyOf(c Commit) chronoKey {
	t, err := c.CommitTime()
	if err != nil {
		return chronoKey{missing: true, hash: c.Hash()}
	}
	return chronoKey{negTime: -t, hash: c.Hash()}
}

// less reports whether a sorts before b (a is newer, or equally new but
// lexicographically smaller by hash).
func (a chronoKey) less(b chronoKey) bool {
	if a.missing != b.missing {
		return !a.missing
	}
	if a.missing {
		return a.hash < b.hash
	}
	if a.negTime != b.negTime {
		return a.negTime < b.negTime
	}
	return a.hash < b.hash
}

// commitTimeOrMin returns the commit's commit_time, or the minimum int64
// (so it sorts as "older than everything" in plain timestamp comparisons)
// if the commit is missing.
func commitTimeOrMin(c Commit) int64 {
	t, err := c.CommitTime()
	if err != nil {
		return minInt64
	}
	return t
}

const minInt64 = -1 << 63
