package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// DefaultHighlight is the fill colour of highlighted nodes.
const DefaultHighlight = "#ddffdd"

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the id and relation kind to node labels.
	Detailed bool

	// Highlight maps term ids to fill colours. An empty colour means
	// [DefaultHighlight].
	Highlight map[string]string
}

// HighlightIDs returns a highlight map giving every id the default colour.
func HighlightIDs(ids ...string) map[string]string {
	m := make(map[string]string, len(ids))
	for _, id := range ids {
		m[id] = DefaultHighlight
	}
	return m
}

// graph collects the deduplicated nodes and edges of a forest. Nodes with
// an id are merged by id; wrappers have no id and are keyed by pointer.
type graph struct {
	keys    map[*etym.Term]string
	byKey   map[string]*etym.Term
	order   []string
	edges   []edge
	edgeSet map[edge]bool
}

type edge struct{ from, to string }

func collect(terms []*etym.Term) *graph {
	g := &graph{
		keys:    make(map[*etym.Term]string),
		byKey:   make(map[string]*etym.Term),
		edgeSet: make(map[edge]bool),
	}
	for _, t := range terms {
		if t == nil {
			continue
		}
		etym.WalkUnique(t, func(n *etym.Term, _ []*etym.Term) bool {
			child := g.key(n)
			for _, p := range n.Parents {
				if p == nil {
					continue
				}
				e := edge{from: g.key(p), to: child}
				if !g.edgeSet[e] {
					g.edgeSet[e] = true
					g.edges = append(g.edges, e)
				}
			}
			return true
		})
	}
	return g
}

func (g *graph) key(n *etym.Term) string {
	if k, ok := g.keys[n]; ok {
		return k
	}
	k := n.ID
	if k == "" {
		k = fmt.Sprintf("_w%d", len(g.keys))
	}
	g.keys[n] = k
	if _, ok := g.byKey[k]; !ok {
		g.byKey[k] = n
		g.order = append(g.order, k)
	}
	return k
}

// ToDOT converts terms to Graphviz DOT. Ancestors are drawn above their
// descendants and edges point from ancestor to descendant. Shared subtrees
// are emitted once.
func ToDOT(terms []*etym.Term, opts Options) string {
	g := collect(terms)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [dir=back];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, k := range g.order {
		n := g.byKey[k]
		fmt.Fprintf(&buf, "  %q [%s];\n", k, strings.Join(fmtAttrs(n, opts), ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.edges {
		// rankdir=BT with dir=back keeps the root at the bottom and arrows
		// pointing down the derivation.
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.to, e.from)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *etym.Term, detailed bool) string {
	if n.IsWrapper() {
		return n.Type
	}
	label := n.Term + "\n" + n.Lang
	if detailed {
		label += "\n" + n.ID
		if n.Type != "" {
			label += " · " + n.Type
		}
	}
	return label
}

func fmtAttrs(n *etym.Term, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.IsWrapper() {
		return append(attrs, "shape=ellipse", "style=\"filled,dashed\"", "fillcolor=lightgrey", "fontsize=10")
	}
	if color, ok := opts.Highlight[n.ID]; ok && n.ID != "" {
		if color == "" {
			color = DefaultHighlight
		}
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", color))
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag so the drawing scales from a
// zero origin.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
