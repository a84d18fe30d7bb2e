package build

import (
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/etym/transform"
)

// Ambiguity describes why the assembler could not rely on explicit
// structure alone.
type Ambiguity int

const (
	// Unambiguous means the structure came from a single group or row.
	Unambiguous Ambiguity = iota
	// CompetingGroups means several group roots were present; the first won.
	CompetingGroups
	// PartialRun means a sibling run stopped before the last ungrouped row.
	PartialRun
	// Fallback means the catch-all first-row heuristic was applied.
	Fallback
)

func (a Ambiguity) String() string {
	switch a {
	case CompetingGroups:
		return "competing-groups"
	case PartialRun:
		return "partial-run"
	case Fallback:
		return "fallback"
	}
	return "none"
}

// Result is the outcome of assembling one term.
type Result struct {
	// Term is nil when the rows carry no usable derivation.
	Term *etym.Term
	// Empty is set when every row was of an ignored kind.
	Empty bool
	// Ignored counts rows dropped by kind.
	Ignored int
	// Collapsed counts wrappers removed by flattening.
	Collapsed int
	// Ungrouped counts rows not nested under another row.
	Ungrouped int
	Ambiguity Ambiguity
}

// Skipped reports whether the term is omitted from the output.
func (r Result) Skipped() bool { return r.Term == nil }

// Assemble builds the derivation tree of the term whose rows are given. The
// rows must all describe the same subject term.
func Assemble(rows []etym.Row) Result {
	var res Result
	var first *etym.Row
	for i := range rows {
		if rows[i].RelType.IsIgnored() {
			res.Ignored++
			continue
		}
		if first == nil {
			first = &rows[i]
		}
	}
	if first == nil {
		res.Empty = true
		return res
	}

	root := first.Subject()
	roots := GroupRelations(rows)
	res.Ungrouped = len(roots)

	switch derived, related, groups := pickGroupRoot(roots); {
	case derived != nil:
		Chain(root, Group(derived.Children))
		if groups > 1 {
			res.Ambiguity = CompetingGroups
		}
	case related != nil:
		Chain(root, Group([]*Relation{related}))
		if groups > 1 {
			res.Ambiguity = CompetingGroups
		}
	case len(roots) == 1:
		Chain(root, Group(roots))
	default:
		res.Ambiguity = siblings(root, roots)
	}

	res.Collapsed = transform.Flatten(root)
	if len(root.Parents) > 0 {
		res.Term = root
	}
	return res
}

// pickGroupRoot returns the first group_derived_root, the first
// group_related_root or group_affix_root, and the number of group roots.
func pickGroupRoot(roots []*Relation) (derived, related *Relation, n int) {
	for _, r := range roots {
		switch r.RelType {
		case etym.RelGroupDerivedRoot:
			if derived == nil {
				derived = r
			}
			n++
		case etym.RelGroupRelatedRoot, etym.RelGroupAffixRoot:
			if related == nil {
				related = r
			}
			n++
		}
	}
	return derived, related, n
}

var (
	componentKinds = map[etym.RelType]bool{
		etym.RelCompoundOf: true,
		etym.RelHasConfix:  true,
		etym.RelBlendOf:    true,
		etym.RelHasAffix:   true,
	}
	prefixKinds = map[etym.RelType]bool{
		etym.RelHasPrefix:         true,
		etym.RelHasPrefixWithRoot: true,
	}
	prefixRunKinds = map[etym.RelType]bool{
		etym.RelHasPrefix:         true,
		etym.RelHasPrefixWithRoot: true,
		etym.RelHasSuffix:         true,
	}
)

// siblings attaches several ungrouped rows directly to root as sibling
// leaves, choosing them by the kind of the first row in declared order.
func siblings(root *etym.Term, roots []*Relation) Ambiguity {
	sorted := append([]*Relation(nil), roots...)
	sortByDeclared(sorted)

	firstKind := sorted[0].RelType
	var accept func(etym.RelType) bool
	switch {
	case componentKinds[firstKind]:
		accept = func(k etym.RelType) bool { return k == firstKind }
	case prefixKinds[firstKind]:
		accept = func(k etym.RelType) bool { return prefixRunKinds[k] }
	default:
		root.Parents = append(root.Parents, sorted[0].Related())
		if len(sorted) > 1 && sorted[1].RelType == etym.RelHasSuffix {
			root.Parents = append(root.Parents, sorted[1].Related())
		}
		return Fallback
	}

	n := 0
	for _, r := range sorted {
		if !accept(r.RelType) {
			break
		}
		root.Parents = append(root.Parents, r.Related())
		n++
	}
	if n < len(sorted) {
		return PartialRun
	}
	return Unambiguous
}

// Chain threads groups into a straight ancestor line below root. When the
// previous group already has parents of its own, the next group is attached
// to its first parent instead, so a later ancestor modifies the head of a
// composite rather than becoming an unrelated sibling.
func Chain(root *etym.Term, groups []*etym.Term) {
	prev := root
	for _, g := range groups {
		target := prev
		if prev != root && len(prev.Parents) > 0 {
			target = prev.Parents[0]
		}
		target.Parents = append(target.Parents, g)
		prev = g
	}
}
