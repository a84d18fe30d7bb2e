// Package pkg provides the libraries behind etymograph.
//
// # Overview
//
// Etymograph turns a table of etymological relations ("cat is inherited from
// Middle English cat, which is inherited from Old English catt") into a
// forest of ancestry trees. The pkg directory is organized as:
//
//  1. [etym] - Domain model: terms, relation rows, traversal, statistics
//  2. [etym/build] - Grouping of relation rows and tree assembly
//  3. [etym/transform] - Wrapper flattening, cycle breaking and grafting
//  4. [etym/chain] - Word associations through shared ancestors
//  5. [io] - Relation CSV input and term JSON encoding
//  6. [pipeline] - Orchestration (load → assemble → graft) with caching
//  7. [store], [cache], [config], [observability] - Infrastructure
//  8. [render] - Graphviz and Gephi output
//
// # Architecture
//
// The typical data flow:
//
//	relations.csv
//	     ↓
//	[io] package (rows, grouped by term)
//	     ↓
//	[etym/build] package (one tree per term, in parallel)
//	     ↓
//	[etym/transform] package (cycles broken, trees grafted)
//	     ↓
//	[store] package (file chunks, SQLite or MongoDB)
//	     ↓
//	JSON / DOT / SVG / Gephi CSV
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Build(ctx, pipeline.Options{Input: "relations.csv"})
//	if err != nil {
//	    return err
//	}
//	dot := nodelink.ToDOT(res.Terms, nodelink.Options{})
//
// [etym]: github.com/matzehuels/etymograph/pkg/etym
// [etym/build]: github.com/matzehuels/etymograph/pkg/etym/build
// [etym/transform]: github.com/matzehuels/etymograph/pkg/etym/transform
// [etym/chain]: github.com/matzehuels/etymograph/pkg/etym/chain
// [io]: github.com/matzehuels/etymograph/pkg/io
// [pipeline]: github.com/matzehuels/etymograph/pkg/pipeline
// [store]: github.com/matzehuels/etymograph/pkg/store
// [cache]: github.com/matzehuels/etymograph/pkg/cache
// [config]: github.com/matzehuels/etymograph/pkg/config
// [observability]: github.com/matzehuels/etymograph/pkg/observability
// [render]: github.com/matzehuels/etymograph/pkg/render
package pkg
