package etym

// RelType is the kind of an etymological relation between a subject term
// and a candidate ancestor.
type RelType string

// Relation kinds present in the source data. Kinds not listed here are still
// accepted and turned into plain leaves.
const (
	RelHasRoot           RelType = "has_root"
	RelDoubletWith       RelType = "doublet_with"
	RelCognateOf         RelType = "cognate_of"
	RelCompoundOf        RelType = "compound_of"
	RelHasAffix          RelType = "has_affix"
	RelHasConfix         RelType = "has_confix"
	RelBlendOf           RelType = "blend_of"
	RelHasPrefix         RelType = "has_prefix"
	RelHasPrefixWithRoot RelType = "has_prefix_with_root"
	RelHasSuffix         RelType = "has_suffix"
	RelCalqueOf          RelType = "calque_of"
	RelInheritedFrom     RelType = "inherited_from"
	RelDerivedFrom       RelType = "derived_from"
	RelBorrowedFrom      RelType = "borrowed_from"

	RelGroupAffixRoot   RelType = "group_affix_root"
	RelGroupRelatedRoot RelType = "group_related_root"
	RelGroupDerivedRoot RelType = "group_derived_root"
)

// IsIgnored reports whether rows of this kind carry no tree-shape
// information and are dropped before grouping.
func (r RelType) IsIgnored() bool {
	switch r {
	case RelHasRoot, RelDoubletWith, RelCognateOf:
		return true
	}
	return false
}

// IsGroup reports whether the kind is one of the structural group roots.
func (r RelType) IsGroup() bool {
	switch r {
	case RelGroupAffixRoot, RelGroupRelatedRoot, RelGroupDerivedRoot:
		return true
	}
	return false
}

// Row is one recorded link between a subject term and a candidate ancestor.
// Rows of the same subject term are expected to be contiguous.
type Row struct {
	TermID string
	Term   string
	Lang   string

	RelatedTermID string
	RelatedTerm   string
	RelatedLang   string

	RelType RelType

	// GroupTag names the group a row opens; ParentTag names the group the
	// row belongs to. Both are opaque.
	GroupTag  string
	ParentTag string

	// ParentPosition orders sibling groups, Position orders rows inside one.
	// Either may be empty.
	ParentPosition string
	Position       string
}

// Subject returns the subject term as a parentless node.
func (r Row) Subject() *Term {
	return &Term{ID: r.TermID, Term: r.Term, Lang: r.Lang, Parents: []*Term{}}
}

// Related returns the related term as a leaf typed with the row's kind.
func (r Row) Related() *Term {
	return &Term{
		ID:      r.RelatedTermID,
		Term:    r.RelatedTerm,
		Lang:    r.RelatedLang,
		Type:    string(r.RelType),
		Parents: []*Term{},
	}
}
