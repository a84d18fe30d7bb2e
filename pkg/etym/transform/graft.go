package transform

import (
	"slices"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// Index maps root ids to their terms for grafting.
type Index struct {
	byID map[string]*etym.Term
	// Duplicates counts terms whose id was already indexed.
	Duplicates int
}

// NewIndex indexes terms by id. The first term with a given id wins; terms
// without an id are not indexed.
func NewIndex(terms []*etym.Term) *Index {
	ix := &Index{byID: make(map[string]*etym.Term, len(terms))}
	for _, t := range terms {
		if t == nil || t.ID == "" {
			continue
		}
		if _, ok := ix.byID[t.ID]; ok {
			ix.Duplicates++
			continue
		}
		ix.byID[t.ID] = t
	}
	return ix
}

// Get returns the indexed term with the given id.
func (ix *Index) Get(id string) (*etym.Term, bool) {
	t, ok := ix.byID[id]
	return t, ok
}

// Len returns the number of indexed terms.
func (ix *Index) Len() int { return len(ix.byID) }

// GraftResult reports what [Graft] did. Every graft site (a leaf, or a node
// that only carries parents grafted earlier) is counted once per run, however
// many paths lead to it, so a second run reports the same counts with
// Grafted at zero.
type GraftResult struct {
	Leaves     int // graft sites examined
	Grafted    int // parent edges added
	Rejected   int // candidates refused because of an id collision
	Dangling   int // sites whose id names no indexed term
	Duplicates int // terms shadowed in the index
}

// Graft links the forest together at shared leaves. For every leaf whose id
// names another indexed term, each parent of that term is appended to the
// leaf unless its transitive ids collide with an id that already leads to the
// leaf. For an ungrafted tree those are exactly the ids on the path from the
// root to the leaf; once subtrees are shared, every tree reaching the leaf
// counts, which keeps the whole forest acyclic.
//
// Trees are processed in order and a tree's sites are collected before it is
// modified. A parent already present on the leaf (same node or same id) is
// never added twice, so running Graft again changes nothing.
func Graft(terms []*etym.Term, ix *Index) GraftResult {
	res := GraftResult{Duplicates: ix.Duplicates}
	up := newUpIndex(terms)
	visited := make(map[*etym.Term]bool)

	for _, t := range terms {
		for _, leaf := range graftSites(t, ix, visited) {
			res.Leaves++
			target, ok := ix.Get(leaf.ID)
			if !ok {
				res.Dangling++
				continue
			}
			if target == leaf {
				continue
			}

			var leading []*upSet
			for _, c := range target.Parents {
				if hasParent(leaf, c) {
					continue
				}
				if leading == nil {
					leading = up.leadingTo(leaf)
				}
				if collides(c, leading) {
					res.Rejected++
					continue
				}
				leaf.Parents = append(leaf.Parents, c)
				up.link(leaf, c)
				res.Grafted++
			}
		}
	}
	return res
}

// graftSites lists the nodes of t not seen in an earlier tree that can take
// grafted parents, in order of first discovery.
func graftSites(t *etym.Term, ix *Index, visited map[*etym.Term]bool) []*etym.Term {
	var sites []*etym.Term
	etym.WalkUnique(t, func(n *etym.Term, _ []*etym.Term) bool {
		if visited[n] {
			return false
		}
		visited[n] = true
		if n.ID != "" && (n.IsLeaf() || graftedOnly(n, ix)) {
			sites = append(sites, n)
		}
		return true
	})
	return sites
}

// graftedOnly reports whether every parent of n was taken from the indexed
// term sharing its id.
func graftedOnly(n *etym.Term, ix *Index) bool {
	target, ok := ix.Get(n.ID)
	if !ok || target == n {
		return false
	}
	for _, p := range n.Parents {
		if !slices.Contains(target.Parents, p) {
			return false
		}
	}
	return true
}

// hasParent reports whether c, or a node with c's id, is a parent of n.
func hasParent(n, c *etym.Term) bool {
	if slices.Contains(n.Parents, c) {
		return true
	}
	return n.HasParentID(c.ID)
}

// upSet holds the nodes from which some node is reachable, and their
// non-empty ids.
type upSet struct {
	ids   map[string]bool
	nodes map[*etym.Term]bool
}

func (s *upSet) has(n *etym.Term) bool {
	return s.nodes[n] || (n.ID != "" && s.ids[n.ID])
}

// upIndex walks parent edges backwards. Sets are memoized per node and
// dropped for every node above a newly grafted edge, the only ones whose
// answer changes.
type upIndex struct {
	children map[*etym.Term][]*etym.Term
	memo     map[*etym.Term]*upSet
}

func newUpIndex(terms []*etym.Term) *upIndex {
	return &upIndex{children: reverseEdges(terms), memo: make(map[*etym.Term]*upSet)}
}

// reverseEdges maps every node reachable from terms to the nodes that list
// it as a parent.
func reverseEdges(terms []*etym.Term) map[*etym.Term][]*etym.Term {
	children := make(map[*etym.Term][]*etym.Term)
	seen := make(map[*etym.Term]bool)
	var visit func(n *etym.Term)
	visit = func(n *etym.Term) {
		if seen[n] {
			return
		}
		seen[n] = true
		for _, p := range n.Parents {
			children[p] = append(children[p], n)
			visit(p)
		}
	}
	for _, t := range terms {
		if t != nil {
			visit(t)
		}
	}
	return children
}

// of returns the nodes from which n is reachable, n included.
func (u *upIndex) of(n *etym.Term) *upSet {
	if s, ok := u.memo[n]; ok {
		return s
	}
	s := &upSet{ids: make(map[string]bool), nodes: map[*etym.Term]bool{n: true}}
	queue := []*etym.Term{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.ID != "" {
			s.ids[cur.ID] = true
		}
		for _, c := range u.children[cur] {
			if !s.nodes[c] {
				s.nodes[c] = true
				queue = append(queue, c)
			}
		}
	}
	u.memo[n] = s
	return s
}

// leadingTo covers every node from which leaf is reachable: the leaf itself
// plus the memoized sets of the nodes listing it as a parent. Sibling leaves
// share those sets.
func (u *upIndex) leadingTo(leaf *etym.Term) []*upSet {
	self := &upSet{ids: map[string]bool{leaf.ID: true}, nodes: map[*etym.Term]bool{leaf: true}}
	sets := []*upSet{self}
	for _, c := range u.children[leaf] {
		sets = append(sets, u.of(c))
	}
	return sets
}

// link records the new edge leaf -> c.
func (u *upIndex) link(leaf, c *etym.Term) {
	u.children[c] = append(u.children[c], leaf)
	etym.WalkUnique(c, func(n *etym.Term, _ []*etym.Term) bool {
		delete(u.memo, n)
		return true
	})
}

// collides reports whether the subtree of c shares a node or an id with any
// of the sets.
func collides(c *etym.Term, sets []*upSet) bool {
	return etym.Any(c, func(n *etym.Term) bool {
		for _, s := range sets {
			if s.has(n) {
				return true
			}
		}
		return false
	})
}
