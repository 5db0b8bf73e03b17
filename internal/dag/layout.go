package dag

// ArtNode pairs a node with its rendered row (spec §4.7, step 8).
type ArtNode[T comparable] struct {
	Art  NodeArt
	Node T
}

// AddNodeArt assigns a column and computes the NodeArt (up/down/through
// edge sets) for every node in nodes, which must already be partially
// ordered (e.g. by PartiallyOrdered): child-before-parent, so that a
// reverse walk visits parents before their children (spec §4.7).
//
// The reverse walk tracks, per already-visited ancestor, an "active column"
// — the vertical line a later (visually higher, not-yet-visited) child will
// eventually connect down into. A parent's slot is freed once every one of
// its children has been visited.
func AddNodeArt[T comparable](nodes []T, d *DAG[T]) []ArtNode[T] {
	totalChildren := map[T]int{}
	for _, n := range nodes {
		totalChildren[n] = len(d.Children(n))
	}
	reachedChildCount := map[T]int{}
	colOf := map[T]int{}
	var active []*T

	var results []ArtNode[T]
	for i := len(nodes) - 1; i >= 0; i-- {
		b := nodes[i]
		parents := d.Parents(b)

		for _, p := range parents {
			reachedChildCount[p]++
		}

		var finished []T
		for _, p := range parents {
			if reachedChildCount[p] == totalChildren[p] {
				finished = append(finished, p)
			}
		}

		at := -1
		for _, p := range finished {
			if col, ok := colOf[p]; ok {
				if at == -1 || col < at {
					at = col
				}
			}
		}
		if at == -1 {
			at = len(active)
		}

		down := map[int]bool{}
		for _, p := range parents {
			if col, ok := colOf[p]; ok {
				down[col] = true
			}
		}

		for _, p := range finished {
			if col, ok := colOf[p]; ok {
				if col < len(active) {
					active[col] = nil
				}
				delete(colOf, p)
			}
		}

		through := map[int]bool{}
		for col, occ := range active {
			if occ != nil && col != at && !down[col] {
				through[col] = true
			}
		}

		if totalChildren[b] > 0 {
			for len(active) <= at {
				active = append(active, nil)
			}
			bb := b
			active[at] = &bb
			colOf[b] = at
		}

		up := map[int]bool{}
		for col, occ := range active {
			if occ != nil && !through[col] {
				up[col] = true
			}
		}

		for len(active) > 0 && active[len(active)-1] == nil {
			active = active[:len(active)-1]
		}

		results = append(results, ArtNode[T]{
			Art:  NodeArt{At: at, Up: up, Down: down, Through: through},
			Node: b,
		})
	}

	for l, r := 0, len(results)-1; l < r; l, r = l+1, r-1 {
		results[l], results[r] = results[r], results[l]
	}
	return results
}
