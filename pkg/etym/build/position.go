package build

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// comparePositions orders position keys: numeric keys ascending, then other
// keys lexically, then the empty (unknown) key last.
func comparePositions(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == b:
		return 0
	case a == "":
		return 1
	case b == "":
		return -1
	}
	na, errA := strconv.ParseFloat(a, 64)
	nb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if na < nb {
			return -1
		}
		if na > nb {
			return 1
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// sortByPosition stably orders relations by Position.
func sortByPosition(rels []*Relation) {
	sort.SliceStable(rels, func(i, j int) bool {
		return comparePositions(rels[i].Position, rels[j].Position) < 0
	})
}

// sortByDeclared stably orders relations by ParentPosition, then Position.
func sortByDeclared(rels []*Relation) {
	sort.SliceStable(rels, func(i, j int) bool {
		if c := comparePositions(rels[i].ParentPosition, rels[j].ParentPosition); c != 0 {
			return c < 0
		}
		return comparePositions(rels[i].Position, rels[j].Position) < 0
	})
}

// bucket is the set of relations sharing one parent position.
type bucket struct {
	key  string
	rels []*Relation
}

// bucketize groups relations by ParentPosition and returns the buckets in
// position order. Relations keep their input order inside a bucket.
func bucketize(rels []*Relation) []bucket {
	index := make(map[string]int)
	var buckets []bucket
	for _, r := range rels {
		key := strings.TrimSpace(r.ParentPosition)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, bucket{key: key})
		}
		buckets[i].rels = append(buckets[i].rels, r)
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		return comparePositions(buckets[i].key, buckets[j].key) < 0
	})
	return buckets
}

// leaves turns relations into leaf terms in order.
func leaves(rels []*Relation) []*etym.Term {
	out := make([]*etym.Term, 0, len(rels))
	for _, r := range rels {
		out = append(out, r.Related())
	}
	return out
}
