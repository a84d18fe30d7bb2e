package transform

import "github.com/matzehuels/etymograph/pkg/etym"

// pathFrame is one entry of the immutable ancestor stack threaded through
// the cycle search. Frames are shared between sibling calls and never
// modified.
type pathFrame struct {
	id   string
	node *etym.Term
	next *pathFrame
}

func (f *pathFrame) push(n *etym.Term) *pathFrame {
	return &pathFrame{id: n.ID, node: n, next: f}
}

// contains reports whether n, or a node with n's non-empty id, is on the path.
func (f *pathFrame) contains(n *etym.Term) bool {
	for ; f != nil; f = f.next {
		if f.node == n || (n.ID != "" && f.id == n.ID) {
			return true
		}
	}
	return false
}

// BreakCycles removes every parent edge that leads back to a node already on
// the current path from t, either the same node or one with the same id. The
// search is depth-first in parent order, so the first declared edge survives.
// Nil parent slots are removed as well. It returns the number of removed
// edges.
//
// BreakCycles expects an assembled per-term tree; on a forest that already
// shares subtrees it still terminates but revisits shared nodes per path.
func BreakCycles(t *etym.Term) int {
	if t == nil {
		return 0
	}
	removed := 0

	var dfs func(n *etym.Term, path *pathFrame)
	dfs = func(n *etym.Term, path *pathFrame) {
		path = path.push(n)
		kept := make([]*etym.Term, 0, len(n.Parents))
		for _, p := range n.Parents {
			if p == nil || path.contains(p) {
				removed++
				continue
			}
			kept = append(kept, p)
		}
		n.Parents = kept
		for _, p := range kept {
			dfs(p, path)
		}
	}
	dfs(t, nil)
	return removed
}
