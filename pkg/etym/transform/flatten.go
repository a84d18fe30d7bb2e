package transform

import "github.com/matzehuels/etymograph/pkg/etym"

// Flatten collapses pass-through wrappers: a node whose only parent has no
// surface text takes over that parent's parent list. Nodes are processed
// post-order and each node once, so shared subtrees are handled correctly and
// a second call changes nothing. It returns the number of collapsed wrappers.
func Flatten(t *etym.Term) int {
	if t == nil {
		return 0
	}
	seen := make(map[*etym.Term]bool)
	collapsed := 0

	var visit func(n *etym.Term)
	visit = func(n *etym.Term) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, p := range n.Parents {
			visit(p)
		}
		if len(n.Parents) == 1 && n.Parents[0].IsWrapper() {
			n.Parents = append([]*etym.Term{}, n.Parents[0].Parents...)
			collapsed++
		}
	}
	visit(t)
	return collapsed
}
