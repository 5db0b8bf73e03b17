package gitstore

import (
	"os"
	"path/filepath"
)

// Store is the object store backing Commit: loose-file lookup with pack
// fallback, per spec §4.3's resolution order. A single Store is shared by
// every Commit value constructed during one render.
type Store struct {
	gitDir  string
	packDir *PackDir
	cache   map[string]commitCacheEntry
}

type commitCacheEntry struct {
	obj     *GitObject
	missing bool
}

// NewStore constructs a Store rooted at gitDir.
func NewStore(gitDir string) *Store {
	return &Store{
		gitDir:  gitDir,
		packDir: NewPackDir(gitDir),
		cache:   map[string]commitCacheEntry{},
	}
}

// Commit constructs a lazy Commit handle for hash against this store.
func (s *Store) Commit(hash string) Commit {
	return Commit{hash: hash, store: s}
}

// loadCommit reads and decodes the commit object for hash: a loose file
// first, falling back to the pack directory (spec §4.3's resolution order).
func (s *Store) loadCommit(hash string) (*GitObject, error) {
	if len(hash) >= 2 {
		loosePath := filepath.Join(s.gitDir, "objects", hash[0:2], hash[2:])
		if f, err := os.Open(loosePath); err == nil {
			raw, derr := Decompress(f)
			f.Close()
			if derr != nil {
				return nil, derr
			}
			return DecodeCommit(raw)
		}
	}

	kind, raw, err := s.packDir.Get(hash)
	if err != nil {
		if _, ok := err.(*MissingObject); ok {
			return nil, nil
		}
		return nil, err
	}
	if kind != KindCommit {
		return nil, nil
	}
	return DecodeCommit(raw)
}

func (s *Store) get(hash string) (*GitObject, error) {
	if entry, ok := s.cache[hash]; ok {
		if entry.missing {
			return nil, &MissingCommit{Hash: hash}
		}
		return entry.obj, nil
	}
	obj, err := s.loadCommit(hash)
	if err != nil {
		return nil, err
	}
	if obj == nil {
		s.cache[hash] = commitCacheEntry{missing: true}
		return nil, &MissingCommit{Hash: hash}
	}
	s.cache[hash] = commitCacheEntry{obj: obj}
	return obj, nil
}
