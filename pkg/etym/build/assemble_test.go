package build

import (
	"reflect"
	"testing"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// rel builds a row of the subject term "w" pointing at related term id.
func rel(id string, kind etym.RelType) etym.Row {
	return etym.Row{
		TermID: "w", Term: "w", Lang: "English",
		RelatedTermID: id, RelatedTerm: id, RelatedLang: "Latin",
		RelType: kind,
	}
}

func at(r etym.Row, parentPos, pos string) etym.Row {
	r.ParentPosition, r.Position = parentPos, pos
	return r
}

func tagged(r etym.Row, group, parent string) etym.Row {
	r.GroupTag, r.ParentTag = group, parent
	return r
}

func parentIDs(t *etym.Term) []string {
	ids := make([]string, 0, len(t.Parents))
	for _, p := range t.Parents {
		if p.IsWrapper() {
			ids = append(ids, "<"+p.Type+">")
			continue
		}
		ids = append(ids, p.ID)
	}
	return ids
}

func assertParents(t *testing.T, n *etym.Term, want ...string) {
	t.Helper()
	if n == nil {
		t.Fatalf("term is nil, want parents %v", want)
	}
	got := parentIDs(n)
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parents of %s = %v, want %v", n.Label(), got, want)
	}
}

func TestAssembleCompound(t *testing.T) {
	rows := []etym.Row{
		{Term: "autobiography", TermID: "t0", Lang: "English", RelatedTerm: "bio", RelatedTermID: "bio", RelType: etym.RelCompoundOf, Position: "1"},
		{Term: "autobiography", TermID: "t0", Lang: "English", RelatedTerm: "auto", RelatedTermID: "auto", RelType: etym.RelCompoundOf, Position: "0"},
		{Term: "autobiography", TermID: "t0", Lang: "English", RelatedTerm: "graphy", RelatedTermID: "graphy", RelType: etym.RelCompoundOf, Position: "2"},
	}
	res := Assemble(rows)
	if res.Skipped() {
		t.Fatal("Assemble() skipped the term")
	}
	root := res.Term
	if root.Term != "autobiography" || root.ID != "t0" {
		t.Errorf("root = %+v", root)
	}
	assertParents(t, root, "auto", "bio", "graphy")
	for _, p := range root.Parents {
		if !p.IsLeaf() || p.Type != "compound_of" {
			t.Errorf("parent %v: leaf=%v type=%q", p, p.IsLeaf(), p.Type)
		}
	}
	if res.Ambiguity != Unambiguous {
		t.Errorf("Ambiguity = %v, want none", res.Ambiguity)
	}
}

func TestAssembleSingleRow(t *testing.T) {
	res := Assemble([]etym.Row{rel("la", etym.RelInheritedFrom)})
	assertParents(t, res.Term, "la")
	if res.Term.Parents[0].Type != "inherited_from" {
		t.Errorf("leaf type = %q", res.Term.Parents[0].Type)
	}
}

func TestAssembleIgnoredKinds(t *testing.T) {
	rows := []etym.Row{
		rel("x", etym.RelHasRoot),
		rel("y", etym.RelDoubletWith),
		rel("z", etym.RelCognateOf),
	}
	res := Assemble(rows)
	if !res.Empty || !res.Skipped() {
		t.Errorf("Assemble() = %+v, want empty and skipped", res)
	}
	if res.Ignored != 3 {
		t.Errorf("Ignored = %d, want 3", res.Ignored)
	}

	res = Assemble(append(rows, rel("la", etym.RelBorrowedFrom)))
	assertParents(t, res.Term, "la")
	if res.Ignored != 3 {
		t.Errorf("Ignored = %d, want 3", res.Ignored)
	}
}

func TestAssembleEmptyInput(t *testing.T) {
	res := Assemble(nil)
	if !res.Empty || res.Term != nil {
		t.Errorf("Assemble(nil) = %+v", res)
	}
}

func TestAssembleRelatedRootPrefersStructure(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupRelatedRoot), "g", ""),
		tagged(at(rel("flat", etym.RelDerivedFrom), "0", "0"), "", "g"),
		tagged(at(rel("x", etym.RelCompoundOf), "1", "0"), "", "g"),
		tagged(at(rel("y", etym.RelCompoundOf), "1", "1"), "", "g"),
	}
	res := Assemble(rows)
	assertParents(t, res.Term, "x", "y")
}

func TestAssembleRelatedRootFirstFlat(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupRelatedRoot), "g", ""),
		tagged(at(rel("first", etym.RelDerivedFrom), "0", ""), "", "g"),
		tagged(at(rel("second", etym.RelDerivedFrom), "1", ""), "", "g"),
	}
	res := Assemble(rows)
	assertParents(t, res.Term, "first")
}

func TestAssembleRelatedRootWithoutChildren(t *testing.T) {
	res := Assemble([]etym.Row{tagged(rel("", etym.RelGroupRelatedRoot), "g", "")})
	if !res.Skipped() || res.Empty {
		t.Errorf("Assemble() = %+v, want skipped but not empty", res)
	}
}

func TestAssembleAffixRoot(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupAffixRoot), "a", ""),
		tagged(at(rel("-ness", etym.RelHasSuffix), "", "1"), "", "a"),
		tagged(at(rel("kind", etym.RelHasAffix), "", "0"), "", "a"),
	}
	res := Assemble(rows)
	assertParents(t, res.Term, "kind", "-ness")

	res = Assemble(rows[:1])
	if !res.Skipped() {
		t.Errorf("affix root without children produced %v", res.Term)
	}
}

func TestAssembleDerivedChain(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupDerivedRoot), "d", ""),
		tagged(at(rel("fr", etym.RelBorrowedFrom), "0", ""), "", "d"),
		tagged(at(rel("la", etym.RelInheritedFrom), "1", ""), "", "d"),
		tagged(at(rel("pie", etym.RelInheritedFrom), "2", ""), "", "d"),
	}
	res := Assemble(rows)
	root := res.Term
	assertParents(t, root, "fr")
	assertParents(t, root.Parents[0], "la")
	assertParents(t, root.Parents[0].Parents[0], "pie")
	if got := etym.Depth(root); got != 3 {
		t.Errorf("Depth() = %d, want 3", got)
	}
}

func TestAssembleChainSplice(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupDerivedRoot), "d", ""),
		tagged(at(rel("gentle", etym.RelCompoundOf), "0", "0"), "", "d"),
		tagged(at(rel("man", etym.RelCompoundOf), "0", "1"), "", "d"),
		tagged(at(rel("gentil", etym.RelBorrowedFrom), "1", ""), "", "d"),
	}
	res := Assemble(rows)
	root := res.Term
	assertParents(t, root, "gentle", "man")
	assertParents(t, root.Parents[0], "gentil")
	assertParents(t, root.Parents[1])
	if res.Collapsed != 1 {
		t.Errorf("Collapsed = %d, want 1", res.Collapsed)
	}
}

func TestAssembleCompetingGroups(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupDerivedRoot), "d1", ""),
		tagged(at(rel("a", etym.RelInheritedFrom), "0", ""), "", "d1"),
		tagged(rel("", etym.RelGroupDerivedRoot), "d2", ""),
		tagged(at(rel("b", etym.RelInheritedFrom), "0", ""), "", "d2"),
	}
	res := Assemble(rows)
	assertParents(t, res.Term, "a")
	if res.Ambiguity != CompetingGroups {
		t.Errorf("Ambiguity = %v, want competing-groups", res.Ambiguity)
	}
	if res.Ungrouped != 2 {
		t.Errorf("Ungrouped = %d, want 2", res.Ungrouped)
	}
}

func TestAssembleDerivedBeatsRelated(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupRelatedRoot), "r", ""),
		tagged(at(rel("b", etym.RelDerivedFrom), "0", ""), "", "r"),
		tagged(rel("", etym.RelGroupDerivedRoot), "d", ""),
		tagged(at(rel("a", etym.RelInheritedFrom), "0", ""), "", "d"),
	}
	assertParents(t, Assemble(rows).Term, "a")
}

func TestAssembleHeuristics(t *testing.T) {
	tests := []struct {
		name      string
		rows      []etym.Row
		want      []string
		ambiguity Ambiguity
	}{
		{
			name: "blend run",
			rows: []etym.Row{
				at(rel("smoke", etym.RelBlendOf), "", "0"),
				at(rel("fog", etym.RelBlendOf), "", "1"),
			},
			want: []string{"smoke", "fog"},
		},
		{
			name: "compound run stops at other kind",
			rows: []etym.Row{
				at(rel("a", etym.RelCompoundOf), "", "0"),
				at(rel("b", etym.RelCompoundOf), "", "1"),
				at(rel("c", etym.RelInheritedFrom), "", "2"),
			},
			want:      []string{"a", "b"},
			ambiguity: PartialRun,
		},
		{
			name: "prefix with suffix",
			rows: []etym.Row{
				at(rel("un-", etym.RelHasPrefix), "", "0"),
				at(rel("kind", etym.RelHasPrefixWithRoot), "", "1"),
				at(rel("-ness", etym.RelHasSuffix), "", "2"),
			},
			want: []string{"un-", "kind", "-ness"},
		},
		{
			name: "prefix run stops at other kind",
			rows: []etym.Row{
				at(rel("tele-", etym.RelHasPrefix), "", "0"),
				at(rel("-scope", etym.RelHasSuffix), "", "1"),
				at(rel("it", etym.RelBorrowedFrom), "", "2"),
			},
			want:      []string{"tele-", "-scope"},
			ambiguity: PartialRun,
		},
		{
			name: "fallback keeps suffix",
			rows: []etym.Row{
				at(rel("fr", etym.RelBorrowedFrom), "", "0"),
				at(rel("-ly", etym.RelHasSuffix), "", "1"),
				at(rel("la", etym.RelInheritedFrom), "", "2"),
			},
			want:      []string{"fr", "-ly"},
			ambiguity: Fallback,
		},
		{
			name: "fallback first only",
			rows: []etym.Row{
				at(rel("fr", etym.RelBorrowedFrom), "", "0"),
				at(rel("la", etym.RelInheritedFrom), "", "1"),
			},
			want:      []string{"fr"},
			ambiguity: Fallback,
		},
		{
			name: "suffix first is not a prefix run",
			rows: []etym.Row{
				at(rel("-ly", etym.RelHasSuffix), "", "0"),
				at(rel("-ness", etym.RelHasSuffix), "", "1"),
			},
			want:      []string{"-ly", "-ness"},
			ambiguity: Fallback,
		},
		{
			name: "declared order wins over input order",
			rows: []etym.Row{
				at(rel("b", etym.RelCompoundOf), "1", ""),
				at(rel("a", etym.RelCompoundOf), "0", ""),
			},
			want: []string{"a", "b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Assemble(tt.rows)
			assertParents(t, res.Term, tt.want...)
			if res.Ambiguity != tt.ambiguity {
				t.Errorf("Ambiguity = %v, want %v", res.Ambiguity, tt.ambiguity)
			}
		})
	}
}

func TestAssembleDoesNotMutateRows(t *testing.T) {
	rows := []etym.Row{
		tagged(rel("", etym.RelGroupAffixRoot), "a", ""),
		tagged(rel("x", etym.RelHasAffix), "", "a"),
	}
	before := append([]etym.Row(nil), rows...)
	Assemble(rows)
	if !reflect.DeepEqual(rows, before) {
		t.Error("Assemble() modified its input rows")
	}
}

func TestChainOnFreshRoot(t *testing.T) {
	root := &etym.Term{ID: "r", Term: "r"}
	a := &etym.Term{ID: "a", Term: "a"}
	b := &etym.Term{ID: "b", Term: "b"}
	Chain(root, []*etym.Term{a, b})
	assertParents(t, root, "a")
	assertParents(t, a, "b")
}

func TestGroupRelations(t *testing.T) {
	t.Run("nesting", func(t *testing.T) {
		roots := GroupRelations([]etym.Row{
			tagged(rel("", etym.RelGroupAffixRoot), "g", ""),
			tagged(rel("x", etym.RelHasAffix), "", "g"),
			tagged(rel("y", etym.RelHasAffix), "", "missing"),
		})
		if len(roots) != 2 {
			t.Fatalf("GroupRelations() = %d roots, want 2", len(roots))
		}
		if len(roots[0].Children) != 1 || roots[0].Children[0].RelatedTermID != "x" {
			t.Errorf("children = %+v", roots[0].Children)
		}
		if roots[1].RelatedTermID != "y" {
			t.Errorf("unresolved parent tag did not stay a root")
		}
	})

	t.Run("self reference", func(t *testing.T) {
		roots := GroupRelations([]etym.Row{tagged(rel("x", etym.RelCompoundOf), "g", "g")})
		if len(roots) != 1 || len(roots[0].Children) != 0 {
			t.Errorf("GroupRelations() = %+v, want one childless root", roots)
		}
	})

	t.Run("tag cycle", func(t *testing.T) {
		roots := GroupRelations([]etym.Row{
			tagged(rel("a", etym.RelCompoundOf), "A", "B"),
			tagged(rel("b", etym.RelCompoundOf), "B", "A"),
		})
		if len(roots) != 1 || roots[0].RelatedTermID != "b" {
			t.Fatalf("GroupRelations() roots = %+v, want [b]", roots)
		}
		if len(roots[0].Children) != 1 || roots[0].Children[0].RelatedTermID != "a" {
			t.Errorf("children of b = %+v, want [a]", roots[0].Children)
		}
	})

	t.Run("ignored rows never group", func(t *testing.T) {
		roots := GroupRelations([]etym.Row{
			tagged(rel("r", etym.RelHasRoot), "g", ""),
			tagged(rel("x", etym.RelCompoundOf), "", "g"),
		})
		if len(roots) != 1 || roots[0].RelatedTermID != "x" {
			t.Errorf("GroupRelations() = %+v, want [x]", roots)
		}
	})
}

func TestGroupInlineAffixGroup(t *testing.T) {
	roots := GroupRelations([]etym.Row{
		at(rel("c", etym.RelCompoundOf), "1", "0"),
		at(rel("b", etym.RelCompoundOf), "0", "1"),
		at(rel("a", etym.RelCompoundOf), "0", "0"),
	})
	groups := Group(roots)
	if len(groups) != 2 {
		t.Fatalf("Group() = %d groups, want 2", len(groups))
	}
	if groups[0].Type != etym.TypeInlineAffixGroup {
		t.Errorf("groups[0].Type = %q, want inline affix group", groups[0].Type)
	}
	assertParents(t, groups[0], "a", "b")
	if groups[1].ID != "c" || !groups[1].IsLeaf() {
		t.Errorf("groups[1] = %+v, want leaf c", groups[1])
	}
}
