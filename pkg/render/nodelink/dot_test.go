package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/etymograph/pkg/etym"
)

func sample() []*etym.Term {
	latin := &etym.Term{ID: "la1", Term: "gentilis", Lang: "Latin"}
	man := &etym.Term{ID: "e3", Term: "man", Lang: "English"}
	return []*etym.Term{
		{ID: "e1", Term: "gentleman", Lang: "English", Parents: []*etym.Term{
			{Type: etym.TypeAffixGroup, Parents: []*etym.Term{
				{ID: "e2", Term: "gentle", Lang: "English", Parents: []*etym.Term{latin}},
				man,
			}},
		}},
		{ID: "f1", Term: "gentil", Lang: "French", Parents: []*etym.Term{latin}},
		// A second node for e3 merges with the nested one.
		{ID: "e3", Term: "man", Lang: "English"},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sample(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"e1" [label="gentleman\nEnglish"]`,
		`"la1" [label="gentilis\nLatin"]`,
		`"_w1" [label="affix group"`,
		`"e2" -> "la1"`,
		`"f1" -> "la1"`,
		`"_w1" -> "e3"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}

	if n := strings.Count(dot, `"la1" [`); n != 1 {
		t.Errorf("la1 declared %d times, want 1", n)
	}
	if n := strings.Count(dot, `"e3" [`); n != 1 {
		t.Errorf("e3 declared %d times, want 1", n)
	}
	if n := strings.Count(dot, " -> "); n != 5 {
		t.Errorf("edge count = %d, want 5\n%s", n, dot)
	}
}

func TestToDOTHighlight(t *testing.T) {
	dot := ToDOT(sample(), Options{Highlight: map[string]string{
		"la1": "",
		"e2":  "#ffdddd",
	}})
	if !strings.Contains(dot, `"la1" [label="gentilis\nLatin", fillcolor="#ddffdd"]`) {
		t.Errorf("default highlight not applied\n%s", dot)
	}
	if !strings.Contains(dot, `fillcolor="#ffdddd"`) {
		t.Errorf("custom highlight not applied\n%s", dot)
	}
	if strings.Count(dot, "fillcolor=\"#") != 2 {
		t.Errorf("unexpected highlights\n%s", dot)
	}
}

func TestToDOTDetailed(t *testing.T) {
	terms := []*etym.Term{{ID: "e9", Term: "cat", Lang: "English", Type: "inherited_from"}}
	dot := ToDOT(terms, Options{Detailed: true})
	if !strings.Contains(dot, `label="cat\nEnglish\ne9 · inherited_from"`) {
		t.Errorf("ToDOT(Detailed) = %s", dot)
	}
}

func TestToDOTCycle(t *testing.T) {
	a := &etym.Term{ID: "a", Term: "a"}
	b := &etym.Term{ID: "b", Term: "b", Parents: []*etym.Term{a}}
	a.Parents = []*etym.Term{b}

	dot := ToDOT([]*etym.Term{a, nil}, Options{})
	if strings.Count(dot, " -> ") != 2 {
		t.Errorf("ToDOT(cycle) = %s", dot)
	}
}

func TestHighlightIDs(t *testing.T) {
	m := HighlightIDs("a", "b")
	if len(m) != 2 || m["a"] != DefaultHighlight {
		t.Errorf("HighlightIDs() = %v", m)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte("<svg><g/></svg>")
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("normalizeViewBox() changed an svg without viewBox")
	}
}
