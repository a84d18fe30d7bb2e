// Package chain finds words that follow each other through shared ancestors.
//
// A term's starting chain follows its first parent upwards and its ending
// chain follows its last parent. Two terms are connected when a node of the
// first term's ending chain also appears in the second term's starting
// chain: "heliocentric" ends with "centric", which starts "centrifuge".
// Following connections yields word-association paths.
package chain

import (
	"strings"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// DefaultMaxDepth bounds [Graph.LongestPath] when no depth is given.
const DefaultMaxDepth = 10

// Options selects which terms take part in chains.
type Options struct {
	// Langs restricts subject terms to these languages. Empty means all.
	Langs []string
	// SkipCommonLang drops connections whose shared node is in this
	// language, typically the language of the subject terms themselves.
	SkipCommonLang string
}

// Chains holds the starting and ending chains of a term. Nodes present in
// both chains are removed from each.
type Chains struct {
	Starting []*etym.Term
	Ending   []*etym.Term
}

// Connection links a term to a connected term through a shared node.
type Connection struct {
	Term   *etym.Term
	Common *etym.Term
}

// Graph indexes terms by the ids their starting chains pass through.
type Graph struct {
	opts         Options
	terms        []*etym.Term
	byID         map[string]*etym.Term
	chains       map[*etym.Term]Chains
	startingWith map[string][]*etym.Term
}

// New builds the chain graph of terms. Terms in other languages, affixes
// (surface text starting or ending with "-") and terms with a calque in
// their derivation are left out.
func New(terms []*etym.Term, opts Options) *Graph {
	g := &Graph{
		opts:         opts,
		terms:        terms,
		byID:         etym.IndexAll(terms),
		chains:       make(map[*etym.Term]Chains),
		startingWith: make(map[string][]*etym.Term),
	}
	for _, t := range terms {
		if !g.eligible(t) {
			continue
		}
		c := ChainsOf(t)
		g.chains[t] = c
		for _, s := range c.Starting {
			if s.ID != "" {
				g.startingWith[s.ID] = append(g.startingWith[s.ID], t)
			}
		}
	}
	return g
}

func (g *Graph) eligible(t *etym.Term) bool {
	if len(g.opts.Langs) > 0 {
		ok := false
		for _, l := range g.opts.Langs {
			if t.Lang == l {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if strings.HasPrefix(t.Term, "-") || strings.HasSuffix(t.Term, "-") {
		return false
	}
	return !etym.Any(t, func(n *etym.Term) bool {
		return n.Type == string(etym.RelCalqueOf)
	})
}

// ChainsOf computes the starting and ending chains of t.
func ChainsOf(t *etym.Term) Chains {
	starting := follow(t, func(n *etym.Term) *etym.Term { return n.Parents[0] })
	ending := follow(t, func(n *etym.Term) *etym.Term { return n.Parents[len(n.Parents)-1] })

	startIDs, endIDs := idSet(starting), idSet(ending)
	var c Chains
	for _, n := range starting {
		if !endIDs[n.ID] {
			c.Starting = append(c.Starting, n)
		}
	}
	for _, n := range ending {
		if !startIDs[n.ID] {
			c.Ending = append(c.Ending, n)
		}
	}
	return c
}

func follow(t *etym.Term, next func(*etym.Term) *etym.Term) []*etym.Term {
	var out []*etym.Term
	seen := make(map[*etym.Term]bool)
	for n := t; n != nil && !seen[n]; {
		seen[n] = true
		out = append(out, n)
		if len(n.Parents) == 0 {
			break
		}
		n = next(n)
	}
	return out
}

func idSet(nodes []*etym.Term) map[string]bool {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}
	return ids
}

// Chains returns the chains of t and whether t takes part in the graph.
func (g *Graph) Chains(t *etym.Term) (Chains, bool) {
	c, ok := g.chains[t]
	return c, ok
}

// Term returns the indexed term with the given id.
func (g *Graph) Term(id string) *etym.Term { return g.byID[id] }

// Connected returns the terms whose starting chain contains a node of t's
// ending chain, in discovery order.
func (g *Graph) Connected(t *etym.Term) []Connection {
	c, ok := g.chains[t]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []Connection
	for _, e := range c.Ending {
		for _, other := range g.startingWith[e.ID] {
			if other.ID == t.ID || seen[other.ID] {
				continue
			}
			seen[other.ID] = true
			common := lowestCommon(c, g.chains[other])
			if common == nil {
				continue
			}
			if g.opts.SkipCommonLang != "" && common.Lang == g.opts.SkipCommonLang {
				continue
			}
			out = append(out, Connection{Term: other, Common: common})
		}
	}
	return out
}

// lowestCommon returns the first node of a's ending chain that starts b.
func lowestCommon(a, b Chains) *etym.Term {
	for _, e := range a.Ending {
		for _, s := range b.Starting {
			if e.ID == s.ID {
				return e
			}
		}
	}
	return nil
}

// Path is a sequence of connected terms. Common[i] is the node shared by
// Terms[i] and Terms[i+1].
type Path struct {
	Terms  []*etym.Term
	Common []*etym.Term
}

// Highlights returns the ids of the shared nodes.
func (p Path) Highlights() []string {
	ids := make([]string, 0, len(p.Common))
	for _, c := range p.Common {
		ids = append(ids, c.ID)
	}
	return ids
}

// LongestPath explores connections breadth-first from root and returns the
// path to the first term found at the greatest depth, up to maxDepth hops.
// Neighbours are explored in [Graph.Connected] order, so the result is
// deterministic. maxDepth <= 0 selects [DefaultMaxDepth].
func (g *Graph) LongestPath(root *etym.Term, maxDepth int) Path {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	type step struct {
		prev   *etym.Term
		common *etym.Term
	}
	type item struct {
		term  *etym.Term
		depth int
	}
	visited := map[string]step{root.ID: {}}
	queue := []item{{term: root}}
	deepest, best := root, 0

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth > best {
			deepest, best = cur.term, cur.depth
		}
		if cur.depth >= maxDepth {
			continue
		}
		for _, c := range g.Connected(cur.term) {
			if _, ok := visited[c.Term.ID]; ok {
				continue
			}
			visited[c.Term.ID] = step{prev: cur.term, common: c.Common}
			queue = append(queue, item{term: c.Term, depth: cur.depth + 1})
		}
	}

	var p Path
	for n := deepest; n != root; {
		s := visited[n.ID]
		p.Terms = append(p.Terms, n)
		p.Common = append(p.Common, s.common)
		n = s.prev
	}
	p.Terms = append(p.Terms, root)
	reverse(p.Terms)
	reverse(p.Common)
	return p
}

func reverse(s []*etym.Term) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
