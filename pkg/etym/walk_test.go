package etym

import (
	"reflect"
	"sort"
	"testing"
)

// diamond builds r -> (a, b) -> s, with s shared by pointer.
func diamond() (*Term, *Term) {
	s := leaf("s", "s", "Latin")
	r := &Term{ID: "r", Term: "r", Lang: "English", Parents: []*Term{
		{ID: "a", Term: "a", Lang: "French", Parents: []*Term{s}},
		{ID: "b", Term: "b", Lang: "French", Parents: []*Term{s}},
	}}
	return r, s
}

func TestWalkOrderAndPath(t *testing.T) {
	r, _ := diamond()
	var got []string
	var depths []int
	Walk(r, func(n *Term, path []*Term) bool {
		got = append(got, n.ID)
		depths = append(depths, len(path))
		return true
	})
	want := []string{"r", "a", "s", "b", "s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() order = %v, want %v", got, want)
	}
	if !reflect.DeepEqual(depths, []int{0, 1, 2, 1, 2}) {
		t.Errorf("Walk() depths = %v", depths)
	}
}

func TestWalkPrune(t *testing.T) {
	r, _ := diamond()
	var got []string
	Walk(r, func(n *Term, _ []*Term) bool {
		got = append(got, n.ID)
		return n.ID != "a"
	})
	want := []string{"r", "a", "b", "s"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkTerminatesOnCycle(t *testing.T) {
	a := leaf("a", "a", "")
	b := &Term{ID: "b", Term: "b", Parents: []*Term{a}}
	a.Parents = []*Term{b}

	n := 0
	Walk(a, func(*Term, []*Term) bool { n++; return true })
	if n != 2 {
		t.Errorf("Walk() visited %d nodes, want 2", n)
	}
	if got := Depth(a); got != 1 {
		t.Errorf("Depth() = %d, want 1", got)
	}
}

func TestWalkUnique(t *testing.T) {
	r, _ := diamond()
	var got []string
	WalkUnique(r, func(n *Term, _ []*Term) bool {
		got = append(got, n.ID)
		return true
	})
	want := []string{"r", "a", "s", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("WalkUnique() = %v, want %v", got, want)
	}
	if Count(r) != 4 {
		t.Errorf("Count() = %d, want 4", Count(r))
	}
}

func TestLeavesMatchesParentless(t *testing.T) {
	r, s := diamond()
	leaves := Leaves(r)
	if len(leaves) != 2 {
		t.Fatalf("Leaves() = %d entries, want 2 (one per path)", len(leaves))
	}
	for _, l := range leaves {
		if l.Term != s {
			t.Errorf("leaf = %v, want s", l.Term)
		}
		if !l.Term.IsLeaf() {
			t.Errorf("leaf %v has parents", l.Term)
		}
	}

	ids := leaves[0].PathIDs()
	var got []string
	for id := range ids {
		got = append(got, id)
	}
	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"a", "r", "s"}) {
		t.Errorf("PathIDs() = %v, want [a r s]", got)
	}

	// Every parentless node is reported.
	WalkUnique(r, func(n *Term, _ []*Term) bool {
		found := false
		for _, l := range leaves {
			if l.Term == n {
				found = true
			}
		}
		if n.IsLeaf() != found {
			t.Errorf("node %v: IsLeaf=%v but in Leaves()=%v", n, n.IsLeaf(), found)
		}
		return true
	})
}

func TestLeavesOfBareRoot(t *testing.T) {
	r := leaf("r", "r", "")
	leaves := Leaves(r)
	if len(leaves) != 1 || leaves[0].Term != r || len(leaves[0].Path) != 0 {
		t.Errorf("Leaves() = %+v, want the root itself", leaves)
	}
}

func TestIDsAndAncestors(t *testing.T) {
	r, _ := diamond()
	r.Parents = append(r.Parents, &Term{Type: TypeAffixGroup})

	ids := IDs(r)
	if len(ids) != 4 || ids[""] {
		t.Errorf("IDs() = %v, want 4 non-empty ids", ids)
	}
	if !HasAncestorID(r, "s") {
		t.Error("HasAncestorID(s) = false")
	}
	if HasAncestorID(r, "r") {
		t.Error("HasAncestorID(r) = true, root itself must not count")
	}
	if HasAncestorID(r, "") {
		t.Error("HasAncestorID(\"\") = true")
	}
	if got := Depth(r); got != 2 {
		t.Errorf("Depth() = %d, want 2", got)
	}
	if Depth(nil) != 0 {
		t.Error("Depth(nil) != 0")
	}
	if !Any(r, func(n *Term) bool { return n.Lang == "Latin" }) {
		t.Error("Any(Latin) = false")
	}
	if Any(r, func(n *Term) bool { return n.Lang == "Japanese" }) {
		t.Error("Any(Japanese) = true")
	}
}
