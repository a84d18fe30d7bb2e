package io

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// Column names of the relation CSV. Column order is free and unknown
// columns are ignored.
const (
	ColTermID         = "term_id"
	ColLang           = "lang"
	ColTerm           = "term"
	ColRelType        = "reltype"
	ColRelatedTermID  = "related_term_id"
	ColRelatedLang    = "related_lang"
	ColRelatedTerm    = "related_term"
	ColPosition       = "position"
	ColGroupTag       = "group_tag"
	ColParentTag      = "parent_tag"
	ColParentPosition = "parent_position"
)

var requiredColumns = []string{ColTerm, ColRelType}

// RowReader reads relation rows from CSV one at a time.
type RowReader struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

// NewRowReader reads the header from r and returns a reader positioned at
// the first row. It fails when a required column (term, reltype) is missing.
func NewRowReader(r io.Reader) (*RowReader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: empty input")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("header: missing column %q", c)
		}
	}
	return &RowReader{r: cr, cols: cols, line: 1}, nil
}

// Line returns the line number of the last row read.
func (rr *RowReader) Line() int { return rr.line }

// Read returns the next row, or io.EOF after the last one. Blank lines are
// skipped.
func (rr *RowReader) Read() (etym.Row, error) {
	for {
		rec, err := rr.r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return etym.Row{}, io.EOF
			}
			return etym.Row{}, fmt.Errorf("line %d: %w", rr.line+1, err)
		}
		rr.line, _ = rr.r.FieldPos(0)
		if blank(rec) {
			continue
		}
		return rr.row(rec), nil
	}
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func (rr *RowReader) row(rec []string) etym.Row {
	get := func(col string) string {
		i, ok := rr.cols[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	return etym.Row{
		TermID:         get(ColTermID),
		Term:           get(ColTerm),
		Lang:           get(ColLang),
		RelatedTermID:  get(ColRelatedTermID),
		RelatedTerm:    get(ColRelatedTerm),
		RelatedLang:    get(ColRelatedLang),
		RelType:        etym.RelType(get(ColRelType)),
		GroupTag:       get(ColGroupTag),
		ParentTag:      get(ColParentTag),
		ParentPosition: get(ColParentPosition),
		Position:       get(ColPosition),
	}
}

// ReadRelations reads every row from r.
func ReadRelations(r io.Reader) ([]etym.Row, error) {
	rr, err := NewRowReader(r)
	if err != nil {
		return nil, err
	}
	var rows []etym.Row
	for {
		row, err := rr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// ImportRelations reads the relation CSV at path.
func ImportRelations(path string) ([]etym.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	rows, err := ReadRelations(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// sameSubject reports whether row continues the group started by first.
// Groups are keyed on term text; a change between two non-empty term ids
// also starts a new group, so adjacent homonyms (same text, different ids)
// are assembled as separate terms. Missing ids never split a group.
func sameSubject(first, row etym.Row) bool {
	if first.Term != row.Term {
		return false
	}
	return first.TermID == "" || row.TermID == "" || first.TermID == row.TermID
}

// GroupRows splits rows into runs describing one subject term each. Rows
// are not reordered, so a term whose rows are not contiguous produces
// several groups.
func GroupRows(rows []etym.Row) [][]etym.Row {
	var groups [][]etym.Row
	start := 0
	for i := 1; i <= len(rows); i++ {
		if i < len(rows) && sameSubject(rows[start], rows[i]) {
			continue
		}
		if i > start {
			groups = append(groups, rows[start:i:i])
		}
		start = i
	}
	return groups
}

// GroupReader yields contiguous row groups from a CSV stream without
// holding the whole table in memory.
type GroupReader struct {
	rr      *RowReader
	pending *etym.Row
	done    bool
}

// NewGroupReader wraps r, reading the CSV header immediately.
func NewGroupReader(r io.Reader) (*GroupReader, error) {
	rr, err := NewRowReader(r)
	if err != nil {
		return nil, err
	}
	return &GroupReader{rr: rr}, nil
}

// Next returns the rows of the next subject term, or io.EOF when the input
// is exhausted.
func (g *GroupReader) Next() ([]etym.Row, error) {
	if g.done && g.pending == nil {
		return nil, io.EOF
	}
	var group []etym.Row
	if g.pending != nil {
		group = append(group, *g.pending)
		g.pending = nil
	}
	for !g.done {
		row, err := g.rr.Read()
		if errors.Is(err, io.EOF) {
			g.done = true
			break
		}
		if err != nil {
			return nil, err
		}
		if len(group) > 0 && !sameSubject(group[0], row) {
			g.pending = &row
			return group, nil
		}
		group = append(group, row)
	}
	if len(group) == 0 {
		return nil, io.EOF
	}
	return group, nil
}
