package build

import "github.com/matzehuels/etymograph/pkg/etym"

// Relation is a row together with the rows nested under it through
// GroupTag/ParentTag references.
type Relation struct {
	etym.Row
	Children []*Relation
}

// GroupRelations resolves tag references into a forest of relations and
// returns the ungrouped roots in input order.
//
// Rows of an ignored kind are dropped first. The first pass indexes rows by
// GroupTag (a later row with the same tag replaces an earlier one); the
// second attaches every row whose ParentTag names another row's group. A row
// that names its own group, or whose attachment would close a loop of tags,
// stays a root. The input slice is not modified.
func GroupRelations(rows []etym.Row) []*Relation {
	rels := make([]*Relation, 0, len(rows))
	for _, r := range rows {
		if r.RelType.IsIgnored() {
			continue
		}
		rels = append(rels, &Relation{Row: r})
	}

	byTag := make(map[string]*Relation)
	for _, r := range rels {
		if r.GroupTag != "" {
			byTag[r.GroupTag] = r
		}
	}

	parent := make(map[*Relation]*Relation)
	// encloses reports whether anc is r or one of r's current ancestors.
	encloses := func(anc, r *Relation) bool {
		for n := r; n != nil; n = parent[n] {
			if n == anc {
				return true
			}
		}
		return false
	}

	var roots []*Relation
	for _, r := range rels {
		p, ok := byTag[r.ParentTag]
		if r.ParentTag == "" || !ok || encloses(r, p) {
			roots = append(roots, r)
			continue
		}
		parent[r] = p
		p.Children = append(p.Children, r)
	}
	return roots
}

// Group turns a list of sibling relations into ordered relation groups, one
// per parent position.
//
// A position shared by several relations yields an inline affix group
// wrapping one leaf per relation. A single relation yields an affix group for
// group_affix_root (nothing when it has no children), the selected child
// group for group_related_root, or a leaf for any other kind.
func Group(rels []*Relation) []*etym.Term {
	var groups []*etym.Term
	for _, b := range bucketize(rels) {
		if len(b.rels) > 1 {
			sortByPosition(b.rels)
			groups = append(groups, &etym.Term{
				Type:    etym.TypeInlineAffixGroup,
				Parents: leaves(b.rels),
			})
			continue
		}
		if g := single(b.rels[0]); g != nil {
			groups = append(groups, g)
		}
	}
	return groups
}

func single(r *Relation) *etym.Term {
	switch r.RelType {
	case etym.RelGroupAffixRoot:
		if len(r.Children) == 0 {
			return nil
		}
		children := append([]*Relation(nil), r.Children...)
		sortByPosition(children)
		return &etym.Term{Type: etym.TypeAffixGroup, Parents: leaves(children)}
	case etym.RelGroupRelatedRoot:
		return selectRelated(Group(r.Children))
	}
	return r.Related()
}

// selectRelated picks the first candidate with internal structure, else the
// first candidate.
func selectRelated(candidates []*etym.Term) *etym.Term {
	for _, c := range candidates {
		if len(c.Parents) > 0 {
			return c
		}
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return nil
}
