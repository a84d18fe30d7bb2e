// Package store persists built term forests.
//
// Every backend keeps exactly one forest: [Store.Save] replaces whatever was
// stored before. Terms come back from [Store.Load] in the order they were
// saved. Shared nodes inside one term survive a round trip; sharing across
// terms does not, since each term is stored as a self-contained record.
//
// Backends:
//
//   - file: chunked JSON files (terms_0000.json, ...) in a directory
//   - sqlite: a single database file, schema managed by goose migrations
//   - mongo: one document per term in a MongoDB collection
package store

import (
	"context"
	stderrors "errors"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
)

// ErrNotFound is returned by [Store.Get] when no term has the id.
var ErrNotFound = stderrors.New("term not found")

// Store persists a forest of terms.
type Store interface {
	// Save replaces the stored forest with terms.
	Save(ctx context.Context, terms []*etym.Term) error

	// Load returns every stored term in saved order.
	Load(ctx context.Context) ([]*etym.Term, error)

	// Get returns the first stored term with the given id. When no top-level
	// term has it, the first nested node with the id is returned instead.
	Get(ctx context.Context, id string) (*etym.Term, error)

	// Find returns the terms whose text equals text, ignoring case. An empty
	// lang matches every language.
	Find(ctx context.Context, text, lang string) ([]*etym.Term, error)

	Close() error
}

// Open opens the backend selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig, chunkSize int) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.Path, chunkSize), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case config.BackendMongo:
		return OpenMongo(ctx, cfg.URI, cfg.Database)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
}

// notFound wraps ErrNotFound with the id for both errors.Is styles.
func notFound(id string) error {
	return errors.Wrap(errors.ErrCodeTermNotFound, ErrNotFound, "term %s", id)
}

// nested resolves id against every node of terms, top-level terms first.
func nested(terms []*etym.Term, id string) (*etym.Term, error) {
	if t, ok := etym.IndexAll(terms)[id]; ok {
		return t, nil
	}
	return nil, notFound(id)
}
