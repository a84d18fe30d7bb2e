// Package nodelink renders etymology forests as node-link diagrams.
//
// # Overview
//
// Each term becomes a rounded box labelled with its surface text and
// language. Edges run from an ancestor down to the term derived from it, so
// the roots of the forest sit at the bottom of the drawing. Affix-group
// wrappers are drawn as small dashed ellipses labelled with their relation.
//
// Nodes are merged by term id, so a word reached through several derivations
// appears once with several incoming edges.
//
// # Usage
//
//	dot := nodelink.ToDOT(terms, nodelink.Options{
//	    Highlight: nodelink.HighlightIDs(path.Highlights()...),
//	})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering; no Graphviz installation is required.
package nodelink
