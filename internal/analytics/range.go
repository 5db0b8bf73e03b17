package analytics

import "branchgraph/internal/commitset"

// Range yields the first-parent chain of downstream (including downstream),
// stopping just before the first commit also reachable from upstream by any
// parent walk within the sliding window (spec §4.6). It drives a todo
// CommitSet from upstream, expanding it with available parents while the
// frontier's newest commit_time still exceeds the current cursor's
// commit_time - w.
func Range(upstream, downstream Commit, w int64) ([]Commit, error) {
	reached := map[string]bool{upstream.Hash(): true}
	todo := commitset.NewSet()
	todo.Add(upstream, true)

	expand := func(current Commit) error {
		ct, err := current.CommitTime()
		if err != nil {
			return err
		}
		threshold := ct - w
		for {
			top, ok := todo.PeekNewest()
			if !ok {
				break
			}
			nt, err := top.CommitTime()
			if err != nil {
				break
			}
			if nt <= threshold {
				break
			}
			todo.PopNewest()
			for _, p := range top.AvailableParents() {
				if !reached[p.Hash()] {
					reached[p.Hash()] = true
					todo.Add(p, true)
				}
			}
		}
		return nil
	}

	var out []Commit
	current := downstream
	for {
		if err := expand(current); err != nil {
			if isMissingCommit(err) {
				break
			}
			return out, err
		}
		if reached[current.Hash()] {
			break
		}
		out = append(out, current)
		parent, ok, err := current.FirstParent()
		if err != nil {
			if isMissingCommit(err) {
				break
			}
			return out, err
		}
		if !ok {
			break
		}
		current = parent
	}
	return out, nil
}
