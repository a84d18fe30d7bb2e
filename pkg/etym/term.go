package etym

import (
	"errors"
	"fmt"
)

var (
	// ErrCycle is returned by [Validate] when a term can reach itself,
	// either through the same node or through another node with the same ID.
	ErrCycle = errors.New("derivation contains a cycle")

	// ErrNilTerm is returned by [Validate] when a parent slot holds nil.
	ErrNilTerm = errors.New("nil term in parent list")
)

// Synthetic node types. Wrapper nodes group components of a composite
// formation and carry no surface text of their own.
const (
	// TypeAffixGroup wraps the components enumerated by a group_affix_root row.
	TypeAffixGroup = "affix group"
	// TypeInlineAffixGroup wraps the rows sharing one parent position.
	TypeInlineAffixGroup = "inline affix group"
)

// Term is a lexical entity together with its ordered ancestors.
//
// Parents order encodes derivation order and is preserved by every
// transformation. A node is a wrapper when Term is empty.
type Term struct {
	ID      string  `json:"id,omitempty"`
	Term    string  `json:"term,omitempty"`
	Lang    string  `json:"lang,omitempty"`
	Type    string  `json:"type,omitempty"`
	Parents []*Term `json:"parents"`
}

// IsLeaf reports whether the term has no known ancestors.
func (t *Term) IsLeaf() bool { return len(t.Parents) == 0 }

// IsWrapper reports whether the term is a structural node without surface text.
func (t *Term) IsWrapper() bool { return t.Term == "" }

// Label returns the surface text, or the node type for wrappers.
func (t *Term) Label() string {
	if t.Term != "" {
		return t.Term
	}
	if t.Type != "" {
		return t.Type
	}
	return "-"
}

// String formats the term as "text (lang)".
func (t *Term) String() string {
	if t.Lang == "" {
		return t.Label()
	}
	return fmt.Sprintf("%s (%s)", t.Label(), t.Lang)
}

// HasParentID reports whether a direct parent carries the given id.
// Empty ids never match.
func (t *Term) HasParentID(id string) bool {
	if id == "" {
		return false
	}
	for _, p := range t.Parents {
		if p.ID == id {
			return true
		}
	}
	return false
}

// Validate checks that no node can reach itself and that parent slots are
// non-nil. A node whose ID is already on the current search path also counts
// as a cycle. Each node is expanded once, so the check runs in time
// proportional to the distinct nodes and edges reachable from t.
func Validate(t *Term) error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[*Term]int)
	onPath := make(map[string]int)

	var dfs func(n *Term) error
	dfs = func(n *Term) error {
		color[n] = gray
		if n.ID != "" {
			onPath[n.ID]++
		}
		for _, p := range n.Parents {
			if p == nil {
				return ErrNilTerm
			}
			if color[p] == gray || (p.ID != "" && onPath[p.ID] > 0) {
				return fmt.Errorf("%s -> %s: %w", n, p, ErrCycle)
			}
			if color[p] == white {
				if err := dfs(p); err != nil {
					return err
				}
			}
		}
		if n.ID != "" {
			onPath[n.ID]--
		}
		color[n] = black
		return nil
	}
	if t == nil {
		return nil
	}
	return dfs(t)
}
