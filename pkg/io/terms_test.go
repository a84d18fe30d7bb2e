package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/etymograph/pkg/etym"
)

func gentleman() *etym.Term {
	gentil := &etym.Term{ID: "t3", Term: "gentil", Lang: "Old French", Type: "borrowed_from"}
	return &etym.Term{ID: "t0", Term: "gentleman", Lang: "English", Parents: []*etym.Term{
		{ID: "t1", Term: "gentle", Lang: "English", Type: "compound_of", Parents: []*etym.Term{gentil}},
		{ID: "t2", Term: "man", Lang: "English", Type: "compound_of"},
	}}
}

func TestWriteReadTerms(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTerms(&buf, []*etym.Term{gentleman()}); err != nil {
		t.Fatalf("WriteTerms() error: %v", err)
	}
	if !strings.Contains(buf.String(), `"parents": []`) {
		t.Errorf("leaves should carry an empty parents list:\n%s", buf.String())
	}

	terms, err := ReadTerms(&buf)
	if err != nil {
		t.Fatalf("ReadTerms() error: %v", err)
	}
	if len(terms) != 1 {
		t.Fatalf("ReadTerms() = %d terms, want 1", len(terms))
	}
	root := terms[0]
	if root.String() != "gentleman (English)" || len(root.Parents) != 2 {
		t.Errorf("root = %v with %d parents", root, len(root.Parents))
	}
	gentil := root.Parents[0].Parents[0]
	if gentil.Type != "borrowed_from" || gentil.Lang != "Old French" {
		t.Errorf("gentil = %+v", gentil)
	}
}

func TestSharedNodesRoundTrip(t *testing.T) {
	shared := &etym.Term{ID: "pie", Term: "*ǵenh₁-", Lang: "Proto-Indo-European"}
	root := &etym.Term{ID: "r", Term: "kin", Lang: "English", Parents: []*etym.Term{
		{ID: "a", Term: "gens", Lang: "Latin", Parents: []*etym.Term{shared}},
		{ID: "b", Term: "genos", Lang: "Ancient Greek", Parents: []*etym.Term{shared}},
		// Same id, different node: written in full, not as a reference.
		{ID: "pie", Term: "*ǵenh₁-", Lang: "Proto-Indo-European"},
	}}

	var buf bytes.Buffer
	if err := WriteTerms(&buf, []*etym.Term{root}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), `"ref": "pie"`); n != 1 {
		t.Errorf("output has %d refs, want 1:\n%s", n, buf.String())
	}

	terms, err := ReadTerms(&buf)
	if err != nil {
		t.Fatalf("ReadTerms() error: %v", err)
	}
	got := terms[0]
	if got.Parents[0].Parents[0] != got.Parents[1].Parents[0] {
		t.Error("shared node was not re-linked")
	}
	if got.Parents[2] == got.Parents[0].Parents[0] {
		t.Error("distinct node with the same id was merged")
	}
	if etym.Count(got) != etym.Count(root) {
		t.Errorf("Count() = %d, want %d", etym.Count(got), etym.Count(root))
	}
}

func TestWriteTermsSkipsCycles(t *testing.T) {
	a := &etym.Term{ID: "a", Term: "a"}
	b := &etym.Term{ID: "b", Term: "b", Parents: []*etym.Term{a}}
	a.Parents = []*etym.Term{b}

	var buf bytes.Buffer
	if err := WriteTerms(&buf, []*etym.Term{a}); err != nil {
		t.Fatalf("WriteTerms() error: %v", err)
	}
	terms, err := ReadTerms(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if err := etym.Validate(terms[0]); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestReadTermsObjectForm(t *testing.T) {
	in := `{
	  "t9": {"id": "t9", "term": "zebra", "lang": "English", "parents": []},
	  "t1": {"id": "t1", "term": "apple", "lang": "English", "parents": [{"id": "x", "term": "æppel", "lang": "Old English", "parents": []}]}
	}`
	terms, err := ReadTerms(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadTerms() error: %v", err)
	}
	if len(terms) != 2 || terms[0].ID != "t1" || terms[1].ID != "t9" {
		t.Errorf("ReadTerms() = %v, want [t1 t9]", terms)
	}
}

func TestReadTermsErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", `[{"id": `},
		{"unresolved ref", `[{"id": "a", "parents": [{"ref": "zzz"}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadTerms(strings.NewReader(tt.in)); err == nil {
				t.Error("ReadTerms() error = nil, want error")
			}
		})
	}
	if terms, err := ReadTerms(strings.NewReader("  ")); err != nil || terms != nil {
		t.Errorf("ReadTerms(blank) = %v, %v", terms, err)
	}
}

func TestChunks(t *testing.T) {
	dir := t.TempDir()
	var terms []*etym.Term
	for i := 0; i < 5; i++ {
		terms = append(terms, &etym.Term{ID: ChunkName(i), Term: "w", Parents: []*etym.Term{{ID: "p", Term: "p"}}})
	}

	paths, err := ExportChunks(dir, terms, 2)
	if err != nil {
		t.Fatalf("ExportChunks() error: %v", err)
	}
	if len(paths) != 3 || filepath.Base(paths[2]) != "terms_0002.json" {
		t.Errorf("ExportChunks() = %v, want 3 chunk files", paths)
	}

	got, err := ImportChunks(dir)
	if err != nil {
		t.Fatalf("ImportChunks() error: %v", err)
	}
	if len(got) != 5 || got[4].ID != terms[4].ID {
		t.Errorf("ImportChunks() = %d terms, want 5 in order", len(got))
	}

	// A smaller export removes stale chunks.
	if _, err := ExportChunks(dir, terms[:1], 2); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "terms_0001.json")); !os.IsNotExist(err) {
		t.Errorf("stale chunk still present: %v", err)
	}
	if got, _ := ImportChunks(dir); len(got) != 1 {
		t.Errorf("ImportChunks() after shrink = %d terms, want 1", len(got))
	}

	if _, err := ImportChunks(filepath.Join(dir, "missing")); err == nil {
		t.Error("ImportChunks(missing) error = nil")
	}
}

func TestMarshalTerm(t *testing.T) {
	data, err := MarshalTerm(gentleman())
	if err != nil {
		t.Fatalf("MarshalTerm() error: %v", err)
	}
	if bytes.Contains(data, []byte("\n")) {
		t.Errorf("MarshalTerm() should be compact, got %s", data)
	}
	got, err := UnmarshalTerm(data)
	if err != nil {
		t.Fatalf("UnmarshalTerm() error: %v", err)
	}
	if etym.Count(got) != 4 || got.Parents[1].Term != "man" {
		t.Errorf("UnmarshalTerm() = %v with %d nodes", got, etym.Count(got))
	}
	if _, err := MarshalTerm(nil); err == nil {
		t.Error("MarshalTerm(nil) error = nil")
	}
	if _, err := UnmarshalTerm([]byte("[")); err == nil {
		t.Error("UnmarshalTerm(bad) error = nil")
	}
}
