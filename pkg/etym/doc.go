// Package etym provides the derivation tree used to describe where a word
// comes from.
//
// # Overview
//
// Every lexical entity (a word or morpheme in a specific language) is a
// [Term]. A term points at its ancestors through an ordered [Term.Parents]
// slice: the first parent is the nearest ancestor, and composite words
// (compounds, blends, prefix+suffix formations) list their components left
// to right as siblings. A term with no parents is a leaf, the point where
// the source data stops knowing anything more.
//
// Terms are built per word from flat relation rows (see [Row] and the
// [build] subpackage), sanitized and cross-linked by the [transform]
// subpackage. After cross-linking, subtrees are shared between terms and the
// structure is a DAG rather than a tree.
//
// # Basic Usage
//
//	auto := &etym.Term{ID: "t1", Term: "auto-", Lang: "English"}
//	bio := &etym.Term{ID: "t2", Term: "bio-", Lang: "English"}
//	root := &etym.Term{ID: "t0", Term: "autobio", Lang: "English",
//	    Parents: []*etym.Term{auto, bio}}
//
//	for _, leaf := range etym.Leaves(root) {
//	    fmt.Println(leaf.Term.Term, len(leaf.Path))
//	}
//
// # Identity
//
// [Term.ID] is the only key used for cycle detection, graft collision and
// deduplication. Two nodes with the same ID are the same lexical entity.
// Structural wrapper nodes ([TypeAffixGroup], [TypeInlineAffixGroup]) have
// no ID and no surface text; they never match another node by ID.
//
// # Traversal
//
// [Walk] visits every path, so a node shared by two parents is visited
// twice. [WalkUnique] visits each node once and is the right choice for
// exporters and serializers working on grafted forests. Both are read-only
// and may be run repeatedly over the same tree.
//
// # Concurrency
//
// Terms are not safe for concurrent mutation. Independent trees may be built
// in parallel; once grafted, a forest should be treated as read-only.
//
// [build]: github.com/matzehuels/etymograph/pkg/etym/build
// [transform]: github.com/matzehuels/etymograph/pkg/etym/transform
package etym
