package gitstore

import "strings"

// ReflogEntry is one entry in a branch's reflog: the commit the ref was
// updated to, and when (spec §3).
type ReflogEntry struct {
	Commit    Commit
	Timestamp int64
}

// reflogFromLine parses one forward reflog line of the form
// "<old-sha1> <new-sha1> <author-identity> <epoch-seconds> <tz><TAB><message>"
// (spec §4.4).
func reflogFromLine(line string, store *Store) ReflogEntry {
	hash := line[41:81]
	endOfAddr := strings.Index(line[81:], ">")
	rest := line[81+endOfAddr+2:]
	sp := strings.IndexByte(rest, ' ')
	var tsField string
	if sp < 0 {
		tsField = rest
	} else {
		tsField = rest[:sp]
	}
	ts := int64(0)
	for _, r := range tsField {
		if r < '0' || r > '9' {
			break
		}
		ts = ts*10 + int64(r-'0')
	}
	return ReflogEntry{Commit: store.Commit(hash), Timestamp: ts}
}

// ReflogIterator yields a branch's reflog entries newest-first, per
// spec §4.4.
type ReflogIterator struct {
	lines []string
	idx   int
	store *Store
	err   error
}

func newReflogIterator(path string, store *Store) ReflogIterator {
	lines, err := ReadLinesReversed(path)
	return ReflogIterator{lines: lines, store: store, err: err}
}

// Next returns the next entry and true, or ok=false once exhausted.
func (it *ReflogIterator) Next() (ReflogEntry, bool, error) {
	if it.err != nil {
		return ReflogEntry{}, false, it.err
	}
	if it.idx >= len(it.lines) {
		return ReflogEntry{}, false, nil
	}
	line := it.lines[it.idx]
	it.idx++
	return reflogFromLine(line, it.store), true, nil
}
