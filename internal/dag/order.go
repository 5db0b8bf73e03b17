package dag

import (
	"cmp"
	"sort"
)

// PartiallyOrdered returns every node of d such that every child precedes
// all its parents (edges point up the returned list), disconnected
// subgraphs are contiguous, and, all else equal, nodes with the larger key
// sort earlier (spec §4.7).
//
// Within a weakly connected component, the required "child always precedes
// every parent" property has to hold unconditionally — even for a parent
// with one child keyed above it and another keyed below it — so ordering
// is assigned by a descending-key post-order walk (visit higher-keyed
// children first, emit a node only after every child it has is emitted)
// rather than by a single derived sort key per node: any single-key
// encoding of "how blocked" a node is collapses two children with
// differing keys onto the wrong side of their shared parent in exactly
// that case.
func PartiallyOrdered[T comparable, K cmp.Ordered](d *DAG[T], key func(T) K) []T {
	nodes := d.Nodes()
	clusterKey := assignClusterKeys(d, nodes, key)

	byCluster := map[K][]T{}
	var clusterOrder []K
	seenCluster := map[K]bool{}
	for _, n := range nodes {
		ck := clusterKey[n]
		if !seenCluster[ck] {
			seenCluster[ck] = true
			clusterOrder = append(clusterOrder, ck)
		}
		byCluster[ck] = append(byCluster[ck], n)
	}
	sort.SliceStable(clusterOrder, func(i, j int) bool { return clusterOrder[i] > clusterOrder[j] })

	visited := map[T]bool{}
	var ordered []T
	var visit func(T)
	visit = func(n T) {
		if visited[n] {
			return
		}
		visited[n] = true
		children := append([]T(nil), d.Children(n)...)
		sort.SliceStable(children, func(i, j int) bool { return key(children[i]) > key(children[j]) })
		for _, c := range children {
			visit(c)
		}
		ordered = append(ordered, n)
	}

	for _, ck := range clusterOrder {
		members := append([]T(nil), byCluster[ck]...)
		sort.SliceStable(members, func(i, j int) bool { return key(members[i]) > key(members[j]) })
		for _, start := range members {
			if visited[start] {
				continue
			}
			// Components whose max keys tie share a group: lay out start's
			// whole weakly connected component before any other.
			inComp := map[T]bool{start: true}
			for queue := []T{start}; len(queue) > 0; queue = queue[1:] {
				for _, nb := range append(d.Parents(queue[0]), d.Children(queue[0])...) {
					if !inComp[nb] {
						inComp[nb] = true
						queue = append(queue, nb)
					}
				}
			}
			for _, n := range members {
				if inComp[n] {
					visit(n)
				}
			}
		}
	}
	return ordered
}

// assignClusterKeys gives every node the max key over its weakly connected
// component, found by BFS over parents+children. A node already seen is not
// queued again, so the walk terminates even on cyclic input smuggled past
// DAG.Add.
func assignClusterKeys[T comparable, K cmp.Ordered](d *DAG[T], nodes []T, key func(T) K) map[T]K {
	cluster := map[T]K{}
	visited := map[T]bool{}

	for _, start := range nodes {
		if visited[start] {
			continue
		}
		queue := []T{start}
		visited[start] = true
		var component []T
		best := key(start)

		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			component = append(component, n)
			if k := key(n); k > best {
				best = k
			}
			neighbours := append(append([]T{}, d.Parents(n)...), d.Children(n)...)
			for _, nb := range neighbours {
				if visited[nb] {
					continue
				}
				visited[nb] = true
				queue = append(queue, nb)
			}
		}
		for _, n := range component {
			cluster[n] = best
		}
	}
	return cluster
}
