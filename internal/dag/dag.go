// Package dag provides the generic directed-acyclic-graph container used
// to build the branch graph, and the NodeArt box-drawing renderer for its
// rows (spec §4.7-4.8).
package dag

// DAG is a cycle-rejecting directed graph over a comparable node type,
// grounded on the original branch-graph builder's dag module. Rather than
// recomputing a topological sort on every insertion, it maintains the
// transitive closure (upstream/downstream sets) of every node so Add can
// reject a would-be cycle in O(|closure|) (spec §9, "Cycles in DAG
// insertion").
type DAG[T comparable] struct {
	nodeOrder []T
	seen      map[T]bool

	parentsOrder  map[T][]T
	childrenOrder map[T][]T
	parentsSet    map[T]map[T]bool
	childrenSet   map[T]map[T]bool

	upstream   map[T]map[T]bool // all ancestors, transitively
	downstream map[T]map[T]bool // all descendants, transitively
}

// New constructs an empty DAG.
func New[T comparable]() *DAG[T] {
	return &DAG[T]{
		seen:          map[T]bool{},
		parentsOrder:  map[T][]T{},
		childrenOrder: map[T][]T{},
		parentsSet:    map[T]map[T]bool{},
		childrenSet:   map[T]map[T]bool{},
		upstream:      map[T]map[T]bool{},
		downstream:    map[T]map[T]bool{},
	}
}

func (d *DAG[T]) ensureNode(n T) {
	if d.seen[n] {
		return
	}
	d.seen[n] = true
	d.nodeOrder = append(d.nodeOrder, n)
	d.parentsSet[n] = map[T]bool{}
	d.childrenSet[n] = map[T]bool{}
	d.upstream[n] = map[T]bool{}
	d.downstream[n] = map[T]bool{}
}

// Add inserts an edge from parent to child (parent -> child), adding either
// endpoint as a node if new. It returns false, rejecting the edge, when:
//   - parent == child (a self-edge), or
//   - child is already an ancestor of parent (the edge would close a cycle).
//
// Re-adding an edge that already exists is a no-op that returns true
// (idempotent).
func (d *DAG[T]) Add(parent, child T) bool {
	if parent == child {
		return false
	}
	d.ensureNode(parent)
	d.ensureNode(child)

	if d.childrenSet[parent][child] {
		return true
	}
	if d.upstream[parent][child] {
		return false
	}

	d.childrenSet[parent][child] = true
	d.childrenOrder[parent] = append(d.childrenOrder[parent], child)
	d.parentsSet[child][parent] = true
	d.parentsOrder[child] = append(d.parentsOrder[child], parent)

	newAncestors := map[T]bool{parent: true}
	for a := range d.upstream[parent] {
		newAncestors[a] = true
	}
	newDescendants := map[T]bool{child: true}
	for desc := range d.downstream[child] {
		newDescendants[desc] = true
	}

	for x := range newDescendants {
		for a := range newAncestors {
			d.upstream[x][a] = true
		}
	}
	for y := range newAncestors {
		for x := range newDescendants {
			d.downstream[y][x] = true
		}
	}
	return true
}

// AddNode registers n as a node with no edges, if not already present. Used
// to seed branches that never appear as either endpoint of an upstream or
// merge edge, so they still render as a row (spec §8's end-to-end scenario
// A includes a branch, `main`, with no edges at all).
func (d *DAG[T]) AddNode(n T) { d.ensureNode(n) }

// Contains reports whether n has been inserted into the graph (as either
// endpoint of some edge).
func (d *DAG[T]) Contains(n T) bool { return d.seen[n] }

// Parents returns n's direct parents, in the order their edges were added.
func (d *DAG[T]) Parents(n T) []T { return append([]T(nil), d.parentsOrder[n]...) }

// Children returns n's direct children, in the order their edges were
// added.
func (d *DAG[T]) Children(n T) []T { return append([]T(nil), d.childrenOrder[n]...) }

// Upstream reports whether anc is a (direct or transitive) ancestor of n.
func (d *DAG[T]) Upstream(n, anc T) bool { return d.upstream[n][anc] }

// Downstream reports whether desc is a (direct or transitive) descendant of
// n.
func (d *DAG[T]) Downstream(n, desc T) bool { return d.downstream[n][desc] }

// Nodes returns every node in insertion order.
func (d *DAG[T]) Nodes() []T { return append([]T(nil), d.nodeOrder...) }

// Roots returns every node with no parents, in insertion order.
func (d *DAG[T]) Roots() []T {
	var out []T
	for _, n := range d.nodeOrder {
		if len(d.parentsOrder[n]) == 0 {
			out = append(out, n)
		}
	}
	return out
}
