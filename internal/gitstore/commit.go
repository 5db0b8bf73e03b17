package gitstore

// Commit is a lazily-resolved, value-typed handle on a commit object,
// identified by its 40-character hex hash (spec §3). Derived attributes are
// loaded from the backing Store on first access and cached there; two
// Commit values are equal iff their hashes are equal (and they share a
// Store, which holds for every Commit built during one render).
type Commit struct {
	hash  string
	store *Store
}

// Hash returns the 40-character hex object id.
func (c Commit) Hash() string { return c.hash }

func (c Commit) String() string {
	if len(c.hash) > 10 {
		return c.hash[:10]
	}
	return c.hash
}

// Parents returns every parent of this commit, in the order recorded in the
// object. Returns MissingCommit if this commit cannot be located.
func (c Commit) Parents() ([]Commit, error) {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return nil, err
	}
	out := make([]Commit, len(obj.Parents))
	for i, h := range obj.Parents {
		out[i] = c.store.Commit(h)
	}
	return out, nil
}

// AvailableParents returns every parent that can be located, silently
// skipping any that raise MissingCommit (used by analytics that tolerate
// shallow clones, spec §4.6).
func (c Commit) AvailableParents() []Commit {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return nil
	}
	var out []Commit
	for _, h := range obj.Parents {
		p := c.store.Commit(h)
		if _, err := p.CommitTime(); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// AvailableMergeParents returns every parent after the first (the
// "merge parents") that can be located, used by merge_commits (spec §4.6).
func (c Commit) AvailableMergeParents() []Commit {
	obj, err := c.store.get(c.hash)
	if err != nil || len(obj.Parents) < 2 {
		return nil
	}
	var out []Commit
	for _, h := range obj.Parents[1:] {
		p := c.store.Commit(h)
		if _, err := p.CommitTime(); err == nil {
			out = append(out, p)
		}
	}
	return out
}

// FirstParent returns the first parent and true, or the zero Commit and
// false if there are none. Returns MissingCommit if this commit cannot be
// located.
func (c Commit) FirstParent() (Commit, bool, error) {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return Commit{}, false, err
	}
	if len(obj.Parents) == 0 {
		return Commit{}, false, nil
	}
	return c.store.Commit(obj.Parents[0]), true, nil
}

// FirstParentIfNotMissing mirrors the original's
// first_parent_if_not_missing: returns the first parent only if both this
// commit and the parent's timestamp can be resolved; otherwise none,
// silently swallowing MissingCommit.
func (c Commit) FirstParentIfNotMissing() (Commit, bool) {
	parent, ok, err := c.FirstParent()
	if err != nil || !ok {
		return Commit{}, false
	}
	if _, err := parent.CommitTime(); err != nil {
		return Commit{}, false
	}
	return parent, true
}

// AuthorTime returns the author-time header (epoch seconds); this is
// preserved across rebases and cherry-picks.
func (c Commit) AuthorTime() (int64, error) {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return 0, err
	}
	return obj.AuthorTime, nil
}

// CommitTime returns the committer-time header (epoch seconds); this is
// not preserved across rebases and cherry-picks.
func (c Commit) CommitTime() (int64, error) {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return 0, err
	}
	return obj.CommitTime, nil
}

// Message returns the commit message, including its trailing newline.
func (c Commit) Message() ([]byte, error) {
	obj, err := c.store.get(c.hash)
	if err != nil {
		return nil, err
	}
	return obj.Message, nil
}
