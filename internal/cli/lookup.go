package cli

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/store"
)

// termPicker chooses one of several matching terms.
type termPicker func(matches []*etym.Term) (*etym.Term, error)

// resolveTerm finds the term a user means by query: an id first, then the
// surface text in lang. Several text matches go to pick; without a picker
// the first match wins.
func resolveTerm(ctx context.Context, s store.Store, query, lang string, pick termPicker) (*etym.Term, error) {
	if errors.ValidateTermID(query) == nil {
		t, err := s.Get(ctx, query)
		if err == nil && (lang == "" || t.Lang == lang) {
			return t, nil
		}
		if err != nil && !errors.Is(err, errors.ErrCodeTermNotFound) {
			return nil, err
		}
	}

	matches, err := s.Find(ctx, query, lang)
	if err != nil {
		return nil, err
	}
	switch {
	case len(matches) == 0:
		if lang != "" {
			return nil, errors.New(errors.ErrCodeTermNotFound, "no term %q in %s", query, lang)
		}
		return nil, errors.New(errors.ErrCodeTermNotFound, "no term %q", query)
	case len(matches) == 1 || pick == nil:
		if len(matches) > 1 {
			loggerFromContext(ctx).Warn("ambiguous term, using the first match", "term", query, "matches", len(matches))
		}
		return matches[0], nil
	}
	return pick(matches)
}

// interactivePicker returns the TUI picker when stdin and stdout are
// terminals, nil otherwise.
func interactivePicker() termPicker {
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return pickTerm
	}
	return nil
}
