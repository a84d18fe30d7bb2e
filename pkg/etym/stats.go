package etym

import (
	"sort"
	"strings"
)

// LangCount is the number of top-level terms in one language.
type LangCount struct {
	Lang  string
	Count int
}

// CountByLang counts terms per language, most frequent first. Ties are
// ordered by language name.
func CountByLang(terms []*Term) []LangCount {
	counts := make(map[string]int)
	for _, t := range terms {
		counts[t.Lang]++
	}
	out := make([]LangCount, 0, len(counts))
	for lang, n := range counts {
		out = append(out, LangCount{Lang: lang, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Lang < out[j].Lang
	})
	return out
}

// AncestorCount is an ancestor together with the number of terms it feeds.
type AncestorCount struct {
	Term  *Term
	Count int
}

// TopAncestors returns the n ancestors in a different language that occur
// most often across the terms of lang. Each term contributes at most once
// per ancestor id. Ancestors are resolved through index when it has an entry
// for the id, so the most canonical node is reported. n <= 0 returns all.
func TopAncestors(terms []*Term, index map[string]*Term, lang string, n int) []AncestorCount {
	counts := make(map[string]int)
	first := make(map[string]*Term)
	for _, t := range terms {
		if t.Lang != lang {
			continue
		}
		seen := make(map[string]bool)
		WalkUnique(t, func(a *Term, _ []*Term) bool {
			if a.ID == "" || a.Lang == lang || seen[a.ID] {
				return true
			}
			seen[a.ID] = true
			counts[a.ID]++
			if _, ok := first[a.ID]; !ok {
				first[a.ID] = a
			}
			return true
		})
	}

	out := make([]AncestorCount, 0, len(counts))
	for id, c := range counts {
		term := first[id]
		if canonical, ok := index[id]; ok {
			term = canonical
		}
		out = append(out, AncestorCount{Term: term, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Term.ID < out[j].Term.ID
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// WithAncestorLang returns the terms of lang that have an ancestor in
// ancestorLang. With skipCalques set, a term is excluded when its first such
// ancestor was reached through a calque.
func WithAncestorLang(terms []*Term, lang, ancestorLang string, skipCalques bool) []*Term {
	var out []*Term
	for _, t := range terms {
		if lang != "" && t.Lang != lang {
			continue
		}
		var found *Term
		WalkUnique(t, func(a *Term, path []*Term) bool {
			if found != nil {
				return false
			}
			if len(path) > 0 && a.Lang == ancestorLang {
				found = a
				return false
			}
			return true
		})
		if found == nil {
			continue
		}
		if skipCalques && found.Type == string(RelCalqueOf) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// IndexAll maps ids to nodes for lookups. Top-level terms are indexed first,
// then every nested node whose id is not yet present. Wrappers are skipped.
func IndexAll(terms []*Term) map[string]*Term {
	index := make(map[string]*Term, len(terms))
	for _, t := range terms {
		if t.ID == "" {
			continue
		}
		if _, ok := index[t.ID]; !ok {
			index[t.ID] = t
		}
	}
	for _, t := range terms {
		WalkUnique(t, func(n *Term, _ []*Term) bool {
			if n.ID != "" {
				if _, ok := index[n.ID]; !ok {
					index[n.ID] = n
				}
			}
			return true
		})
	}
	return index
}

// Find returns the terms whose surface text equals text, ignoring case. An
// empty lang matches every language.
func Find(terms []*Term, text, lang string) []*Term {
	var out []*Term
	for _, t := range terms {
		if !strings.EqualFold(t.Term, text) {
			continue
		}
		if lang != "" && t.Lang != lang {
			continue
		}
		out = append(out, t)
	}
	return out
}
