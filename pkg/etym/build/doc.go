// Package build reconstructs per-term derivation trees from flat relation
// rows.
//
// # Grouping
//
// [GroupRelations] resolves the GroupTag/ParentTag references of one term's
// rows into a forest of [Relation] values in two passes: index by tag, then
// attach. It never mutates its input. [Group] turns sibling relations into
// ordered relation groups by parent position; positions are compared
// numerically when possible, with unknown positions last.
//
// # Assembly
//
// [Assemble] picks the structure of a term in this order:
//
//  1. the first group_derived_root: its children are grouped and chained
//  2. the first group_related_root or group_affix_root: grouped and chained
//  3. a single ungrouped row: chained as the only ancestor
//  4. otherwise a kind-driven heuristic attaches sibling leaves
//
// Chained groups form a straight ancestor line. If a group already has
// parents when the next group arrives, the next group hangs off its first
// parent (see [Chain]). Pass-through wrappers are removed afterwards with
// transform.Flatten. A term left without parents is reported as skipped.
//
// Cases resolved by heuristics are reported through [Result.Ambiguity] so
// they can be counted; they never change the outcome.
package build
