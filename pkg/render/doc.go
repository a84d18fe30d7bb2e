// Package render groups the output formats for etymology forests.
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders forests as Graphviz diagrams, either as
// DOT source or as SVG rendered in-process.
//
//	dot := nodelink.ToDOT(terms, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Gephi
//
// The [gephi] subpackage writes node and edge tables that Gephi imports as
// spreadsheets.
//
//	err := gephi.Export("out/gephi", terms)
//
// JSON output lives in [io] because it is also the storage format.
//
// [nodelink]: github.com/matzehuels/etymograph/pkg/render/nodelink
// [gephi]: github.com/matzehuels/etymograph/pkg/render/gephi
// [io]: github.com/matzehuels/etymograph/pkg/io
package render
