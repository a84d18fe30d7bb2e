// Package transform provides in-place transformations of derivation trees.
//
// # Overview
//
// Assembled trees are noisy: structural wrappers may wrap a single node,
// source data may contain circular derivations, and trees built for
// different words know nothing about each other. The functions here fix
// those problems in the order the pipeline applies them:
//
//  1. [Flatten] removes pass-through wrappers
//  2. [BreakCycles] removes edges that lead back onto the current path
//  3. [Graft] links independently built trees at shared leaves
//
// # Flattening
//
// A node whose only parent has no surface text takes over that parent's
// parent list:
//
//	Before: gentleman → (inline affix group) → gentle, man
//	After:  gentleman → gentle, man
//
// Flatten is idempotent.
//
// # Cycle Breaking
//
// [BreakCycles] walks a tree depth-first while threading an immutable stack
// of the nodes on the current path. A parent edge whose target is on the
// stack, by pointer or by non-empty id, is dropped. Edges are examined in
// parent order, so the first declared edge wins.
//
// # Grafting
//
// [Graft] runs once every tree is final. Each leaf whose id is the root id of
// another term receives that term's parents, as long as none of their ids
// already leads to the leaf:
//
//	Before: gentleman → gentle            gentle → gentil (Old French)
//	After:  gentleman → gentle → gentil
//
// Grafting shares subtrees by reference, so the forest becomes a DAG. Use
// visited-aware traversals such as etym.WalkUnique afterwards.
package transform
