package build

import (
	"testing"

	"github.com/matzehuels/etymograph/pkg/etym"
)

func TestComparePositions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1", "2", -1},
		{"10", "9", 1},
		{"2", "2", 0},
		{" 3", "3", 0},
		{"a", "1", 1},
		{"1", "a", -1},
		{"b", "a", 1},
		{"", "a", 1},
		{"a", "", -1},
		{"", "0", 1},
		{"", "", 0},
	}
	for _, tt := range tests {
		if got := comparePositions(tt.a, tt.b); got != tt.want {
			t.Errorf("comparePositions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBucketizeOrder(t *testing.T) {
	var rels []*Relation
	for _, pos := range []string{"", "10", "x", "2", "10"} {
		rels = append(rels, &Relation{Row: etym.Row{ParentPosition: pos}})
	}
	buckets := bucketize(rels)

	var keys []string
	for _, b := range buckets {
		keys = append(keys, b.key)
	}
	want := []string{"2", "10", "x", ""}
	if len(keys) != len(want) {
		t.Fatalf("bucketize() keys = %q, want %q", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("bucketize() keys = %q, want %q", keys, want)
			break
		}
	}
	if len(buckets[1].rels) != 2 {
		t.Errorf("bucket 10 has %d rows, want 2", len(buckets[1].rels))
	}
}
