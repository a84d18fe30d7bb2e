package transform

import (
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/matzehuels/etymograph/pkg/etym"
)

func wrapper(typ string, parents ...*etym.Term) *etym.Term {
	return &etym.Term{Type: typ, Parents: parents}
}

func TestFlatten_SingleWrapper(t *testing.T) {
	a, b := node("a"), node("b")
	root := node("r", wrapper(etym.TypeInlineAffixGroup, a, b))

	if n := Flatten(root); n != 1 {
		t.Errorf("Flatten() collapsed %d, want 1", n)
	}
	if !reflect.DeepEqual(root.Parents, []*etym.Term{a, b}) {
		t.Errorf("root.Parents = %v, want [a b]", root.Parents)
	}
}

func TestFlatten_NestedWrappers(t *testing.T) {
	a := node("a")
	root := node("r", wrapper(etym.TypeAffixGroup, wrapper(etym.TypeInlineAffixGroup, a)))

	Flatten(root)
	if len(root.Parents) != 1 || root.Parents[0] != a {
		t.Errorf("root.Parents = %v, want [a]", root.Parents)
	}
}

func TestFlatten_KeepsMultiParentWrappers(t *testing.T) {
	w := wrapper(etym.TypeInlineAffixGroup, node("a"), node("b"))
	root := node("r", w, node("c"))

	if n := Flatten(root); n != 0 {
		t.Errorf("Flatten() collapsed %d, want 0", n)
	}
	if root.Parents[0] != w {
		t.Error("wrapper with a sibling was removed")
	}
}

func TestFlatten_KeepsLexicalParents(t *testing.T) {
	root := node("r", node("a", node("b")))
	if n := Flatten(root); n != 0 {
		t.Errorf("Flatten() collapsed %d, want 0", n)
	}
	if etym.Depth(root) != 2 {
		t.Errorf("Depth() = %d, want 2", etym.Depth(root))
	}
}

func TestFlatten_EmptyWrapper(t *testing.T) {
	root := node("r", wrapper(etym.TypeAffixGroup))
	Flatten(root)
	if !root.IsLeaf() {
		t.Errorf("root.Parents = %v, want none", root.Parents)
	}
}

func TestFlatten_Nil(t *testing.T) {
	if n := Flatten(nil); n != 0 {
		t.Errorf("Flatten(nil) = %d", n)
	}
}

// snapshot renders a tree as nested text for structural comparison.
func snapshot(t *etym.Term) string {
	s := t.Label()
	if len(t.Parents) == 0 {
		return s
	}
	s += "("
	for i, p := range t.Parents {
		if i > 0 {
			s += ","
		}
		s += snapshot(p)
	}
	return s + ")"
}

func randomWrappedTree(r *rand.Rand, depth int, next *int) *etym.Term {
	var n *etym.Term
	if r.Intn(3) == 0 {
		n = wrapper(etym.TypeAffixGroup)
	} else {
		*next++
		n = node(fmt.Sprintf("n%d", *next))
	}
	if depth == 0 {
		return n
	}
	for i := r.Intn(3); i > 0; i-- {
		n.Parents = append(n.Parents, randomWrappedTree(r, depth-1, next))
	}
	return n
}

func TestFlatten_Idempotent(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 100; i++ {
		next := 0
		root := node("root", randomWrappedTree(r, 4, &next))
		Flatten(root)
		once := snapshot(root)
		if n := Flatten(root); n != 0 {
			t.Fatalf("tree %d: second Flatten() collapsed %d", i, n)
		}
		if twice := snapshot(root); twice != once {
			t.Fatalf("tree %d: Flatten() not idempotent\nonce:  %s\ntwice: %s", i, once, twice)
		}
	}
}
