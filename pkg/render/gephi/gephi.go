// Package gephi exports etymology forests as Gephi spreadsheet imports.
//
// The export consists of a node table (id, label, language) and an edge
// table (source, target) with one edge from every parent to the term derived
// from it. Wrapper nodes carry no id and are not exported: their parents are
// linked directly to the wrapped term.
package gephi

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// File names written by [Export].
const (
	NodesFile = "nodes.csv"
	EdgesFile = "edges.csv"
)

// Table is the node and edge list of a forest.
type Table struct {
	Nodes []*etym.Term
	Edges [][2]string
}

// NewTable collects the exported nodes and edges. Top-level terms come first
// in input order, followed by ancestors in walk order. When several nodes
// share an id the first one is exported.
func NewTable(terms []*etym.Term) *Table {
	tb := &Table{}
	seen := make(map[string]bool)
	add := func(n *etym.Term) {
		if n == nil || n.ID == "" || seen[n.ID] {
			return
		}
		seen[n.ID] = true
		tb.Nodes = append(tb.Nodes, n)
	}
	for _, t := range terms {
		add(t)
	}
	for _, t := range terms {
		if t == nil {
			continue
		}
		etym.WalkUnique(t, func(n *etym.Term, _ []*etym.Term) bool {
			add(n)
			return true
		})
	}

	edgeSeen := make(map[[2]string]bool)
	for _, n := range tb.Nodes {
		for _, p := range effectiveParents(n) {
			e := [2]string{p.ID, n.ID}
			if !edgeSeen[e] {
				edgeSeen[e] = true
				tb.Edges = append(tb.Edges, e)
			}
		}
	}
	return tb
}

// effectiveParents returns the identified parents of n, looking through
// wrappers.
func effectiveParents(n *etym.Term) []*etym.Term {
	var out []*etym.Term
	seen := map[*etym.Term]bool{n: true}
	var visit func(ps []*etym.Term)
	visit = func(ps []*etym.Term) {
		for _, p := range ps {
			if p == nil || seen[p] {
				continue
			}
			seen[p] = true
			if p.ID == "" {
				visit(p.Parents)
				continue
			}
			out = append(out, p)
		}
	}
	visit(n.Parents)
	return out
}

// WriteNodes writes the node table. Commas are removed from labels.
func (tb *Table) WriteNodes(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "label", "language"}); err != nil {
		return err
	}
	for _, n := range tb.Nodes {
		label := strings.ReplaceAll(n.Term, ",", "")
		if err := cw.Write([]string{n.ID, label, n.Lang}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEdges writes the edge table.
func (tb *Table) WriteEdges(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"source", "target"}); err != nil {
		return err
	}
	for _, e := range tb.Edges {
		if err := cw.Write(e[:]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Export writes nodes.csv and edges.csv for terms into dir, creating it if
// needed.
func Export(dir string, terms []*etym.Term) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tb := NewTable(terms)
	if err := writeFile(filepath.Join(dir, NodesFile), tb.WriteNodes); err != nil {
		return err
	}
	return writeFile(filepath.Join(dir, EdgesFile), tb.WriteEdges)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
