package etym

// VisitFunc is called for every visited node together with the ancestor
// path leading to it (root first, excluding n). Returning false skips the
// node's parents. The path slice is only valid during the call.
type VisitFunc func(n *Term, path []*Term) bool

// Walk visits t and its ancestors depth-first in parent order. Nodes shared
// between several parents are visited once per path, so on heavily grafted
// forests prefer [WalkUnique].
//
// Walk stops descending when a node already on the current path is reached
// again, so it terminates even on cyclic input.
func Walk(t *Term, fn VisitFunc) {
	if t == nil {
		return
	}
	var path []*Term
	var visit func(n *Term)
	visit = func(n *Term) {
		for _, p := range path {
			if p == n {
				return
			}
		}
		if !fn(n, path) {
			return
		}
		path = append(path, n)
		for _, p := range n.Parents {
			visit(p)
		}
		path = path[:len(path)-1]
	}
	visit(t)
}

// WalkUnique visits every node reachable from t exactly once, in the order
// of first discovery.
func WalkUnique(t *Term, fn VisitFunc) {
	if t == nil {
		return
	}
	seen := make(map[*Term]bool)
	var path []*Term
	var visit func(n *Term)
	visit = func(n *Term) {
		if seen[n] {
			return
		}
		seen[n] = true
		if !fn(n, path) {
			return
		}
		path = append(path, n)
		for _, p := range n.Parents {
			visit(p)
		}
		path = path[:len(path)-1]
	}
	visit(t)
}

// Leaf is a leaf node reached from a root, with the ids on the way to it.
type Leaf struct {
	Term *Term
	// Path holds the ancestors from the root down to the leaf's child.
	Path []*Term
}

// PathIDs returns the non-empty ids on the path, including the leaf itself.
func (l Leaf) PathIDs() map[string]bool {
	ids := make(map[string]bool, len(l.Path)+1)
	for _, p := range l.Path {
		if p.ID != "" {
			ids[p.ID] = true
		}
	}
	if l.Term.ID != "" {
		ids[l.Term.ID] = true
	}
	return ids
}

// Leaves returns every leaf reachable from t, once per path. The root is
// itself a leaf when it has no parents.
func Leaves(t *Term) []Leaf {
	var leaves []Leaf
	Walk(t, func(n *Term, path []*Term) bool {
		if len(n.Parents) == 0 {
			leaves = append(leaves, Leaf{Term: n, Path: append([]*Term(nil), path...)})
		}
		return true
	})
	return leaves
}

// IDs returns the set of non-empty ids reachable from t, t included.
func IDs(t *Term) map[string]bool {
	ids := make(map[string]bool)
	WalkUnique(t, func(n *Term, _ []*Term) bool {
		if n.ID != "" {
			ids[n.ID] = true
		}
		return true
	})
	return ids
}

// HasAncestorID reports whether any ancestor of t (t excluded) carries id.
func HasAncestorID(t *Term, id string) bool {
	if id == "" {
		return false
	}
	found := false
	WalkUnique(t, func(n *Term, path []*Term) bool {
		if found {
			return false
		}
		if len(path) > 0 && n.ID == id {
			found = true
		}
		return !found
	})
	return found
}

// Depth returns the length of the longest ancestor chain from t. A leaf has
// depth 0.
func Depth(t *Term) int {
	memo := make(map[*Term]int)
	onPath := make(map[*Term]bool)
	var depth func(n *Term) int
	depth = func(n *Term) int {
		if d, ok := memo[n]; ok {
			return d
		}
		onPath[n] = true
		best := 0
		for _, p := range n.Parents {
			if onPath[p] {
				continue
			}
			if d := depth(p) + 1; d > best {
				best = d
			}
		}
		onPath[n] = false
		memo[n] = best
		return best
	}
	if t == nil {
		return 0
	}
	return depth(t)
}

// Count returns the number of distinct nodes reachable from t.
func Count(t *Term) int {
	n := 0
	WalkUnique(t, func(*Term, []*Term) bool {
		n++
		return true
	})
	return n
}

// Any reports whether pred holds for some node reachable from t.
func Any(t *Term, pred func(*Term) bool) bool {
	found := false
	WalkUnique(t, func(n *Term, _ []*Term) bool {
		if found {
			return false
		}
		found = pred(n)
		return !found
	})
	return found
}
