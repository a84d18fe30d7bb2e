// Package io reads relation tables and reads and writes derivation trees.
//
// # Relation Input
//
// The input is a CSV table with a header row. Recognized columns:
//
//	term_id, lang, term, reltype,
//	related_term_id, related_lang, related_term,
//	position, group_tag, parent_tag, parent_position
//
// Only term and reltype are required; column order is free and unknown
// columns are ignored. Rows of one subject term must be contiguous.
// [ReadRelations] and [ImportRelations] load a whole table, [GroupRows]
// splits it into per-term runs, and [GroupReader] streams the same runs
// without loading the table:
//
//	gr, err := io.NewGroupReader(f)
//	for {
//	    rows, err := gr.Next()
//	    if err == stdio.EOF {
//	        break
//	    }
//	    res := build.Assemble(rows)
//	}
//
// # Term Records
//
// Trees are stored as nested records, one per top-level term:
//
//	[
//	  {
//	    "id": "t0", "term": "gentleman", "lang": "English",
//	    "parents": [
//	      {"id": "t1", "term": "gentle", "lang": "English", "type": "compound_of", "parents": []},
//	      {"id": "t2", "term": "man", "lang": "English", "type": "compound_of", "parents": []}
//	    ]
//	  }
//	]
//
// When grafting made a node reachable twice from the same term, the second
// occurrence is written as {"ref": "<id>"} and [ReadTerms] links it back to
// the same node, so shared subtrees survive a round trip within a record.
// [ReadTerms] also accepts an object keyed by id.
//
// # Chunks
//
// [ExportChunks] splits large forests into files of a fixed number of terms
// (terms_0000.json, terms_0001.json, ...) and [ImportChunks] reads them back
// in order. Chunk boundaries are a storage concern only.
package io
