package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// record is the serialized form of one node. A node already written earlier
// in the same top-level record is emitted as {"ref": id}.
type record struct {
	Ref     string   `json:"ref,omitempty"`
	ID      string   `json:"id,omitempty"`
	Term    string   `json:"term,omitempty"`
	Lang    string   `json:"lang,omitempty"`
	Type    string   `json:"type,omitempty"`
	Parents []record `json:"parents"`
}

func (r record) MarshalJSON() ([]byte, error) {
	if r.Ref != "" {
		return json.Marshal(struct {
			Ref string `json:"ref"`
		}{r.Ref})
	}
	type plain record
	if r.Parents == nil {
		r.Parents = []record{}
	}
	return json.Marshal(plain(r))
}

// encoder turns one top-level term into a record. It remembers the first
// node written for each id so that the same node met again becomes a
// reference instead of a second copy.
type encoder struct {
	first map[string]*etym.Term
}

func encodeTerm(t *etym.Term) record {
	e := encoder{first: make(map[string]*etym.Term)}
	return e.encode(t, nil)
}

func (e *encoder) encode(t *etym.Term, path map[*etym.Term]bool) record {
	if t.ID != "" {
		if first, ok := e.first[t.ID]; ok && first == t {
			return record{Ref: t.ID}
		} else if !ok {
			e.first[t.ID] = t
		}
	}
	if path == nil {
		path = make(map[*etym.Term]bool)
	}
	path[t] = true
	defer delete(path, t)

	rec := record{ID: t.ID, Term: t.Term, Lang: t.Lang, Type: t.Type}
	for _, p := range t.Parents {
		if p == nil || path[p] {
			continue
		}
		rec.Parents = append(rec.Parents, e.encode(p, path))
	}
	return rec
}

// decoder rebuilds one top-level record, resolving references to the first
// node defined with the same id.
type decoder struct {
	defs map[string]*etym.Term
}

func decodeRecord(r record) (*etym.Term, error) {
	d := decoder{defs: make(map[string]*etym.Term)}
	return d.decode(r)
}

func (d *decoder) decode(r record) (*etym.Term, error) {
	if r.Ref != "" {
		t, ok := d.defs[r.Ref]
		if !ok {
			return nil, fmt.Errorf("unresolved ref %q", r.Ref)
		}
		return t, nil
	}
	t := &etym.Term{ID: r.ID, Term: r.Term, Lang: r.Lang, Type: r.Type, Parents: make([]*etym.Term, 0, len(r.Parents))}
	if t.ID != "" {
		if _, ok := d.defs[t.ID]; !ok {
			d.defs[t.ID] = t
		}
	}
	for _, p := range r.Parents {
		pt, err := d.decode(p)
		if err != nil {
			return nil, err
		}
		t.Parents = append(t.Parents, pt)
	}
	return t, nil
}

// WriteTerms encodes terms as a JSON array of nested records and writes it
// to w. Each record is self-contained; nodes shared with other records are
// written again. Shared nodes within one record are written once and
// referenced afterwards, so output stays linear in the size of the DAG.
func WriteTerms(w io.Writer, terms []*etym.Term) error {
	out := make([]record, 0, len(terms))
	for _, t := range terms {
		if t != nil {
			out = append(out, encodeTerm(t))
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadTerms decodes terms written by [WriteTerms]. It also accepts a JSON
// object mapping ids to records, in which case terms are returned in id
// order.
func ReadTerms(r io.Reader) ([]*etym.Term, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var recs []record
	if data[0] == '{' {
		var byID map[string]record
		if err := json.Unmarshal(data, &byID); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		keys := make([]string, 0, len(byID))
		for k := range byID {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			recs = append(recs, byID[k])
		}
	} else if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	terms := make([]*etym.Term, 0, len(recs))
	for i, rec := range recs {
		t, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, rec.ID, err)
		}
		terms = append(terms, t)
	}
	return terms, nil
}

// MarshalTerm encodes a single term as one compact record. Stores use it to
// persist terms one row or document at a time.
func MarshalTerm(t *etym.Term) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("marshal: nil term")
	}
	return json.Marshal(encodeTerm(t))
}

// UnmarshalTerm decodes a record written by [MarshalTerm].
func UnmarshalTerm(data []byte) (*etym.Term, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return decodeRecord(rec)
}

// ExportTerms writes terms to a JSON file at path.
func ExportTerms(path string, terms []*etym.Term) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTerms(f, terms); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ImportTerms reads a JSON file written by [ExportTerms].
func ImportTerms(path string) ([]*etym.Term, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadTerms(f)
}
