package store

import (
	"context"
	stderrors "errors"
	"io/fs"
	"sync"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	etymio "github.com/matzehuels/etymograph/pkg/io"
)

// FileStore keeps the forest as chunked JSON files in a directory. Lookups
// load the whole forest once and serve it from memory.
type FileStore struct {
	dir       string
	chunkSize int

	mu    sync.Mutex
	terms []*etym.Term
	byID  map[string]*etym.Term
}

// NewFileStore returns a store rooted at dir. The directory is created on
// the first Save.
func NewFileStore(dir string, chunkSize int) *FileStore {
	if chunkSize <= 0 {
		chunkSize = etymio.DefaultChunkSize
	}
	return &FileStore{dir: dir, chunkSize: chunkSize}
}

// Save writes terms as chunk files, removing stale chunks.
func (s *FileStore) Save(ctx context.Context, terms []*etym.Term) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := etymio.ExportChunks(s.dir, terms, s.chunkSize); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save %d terms to %s", len(terms), s.dir)
	}
	s.mu.Lock()
	s.terms, s.byID = nil, nil
	s.mu.Unlock()
	return nil
}

// Load reads every chunk in name order.
func (s *FileStore) Load(ctx context.Context) ([]*etym.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return s.terms, nil
}

func (s *FileStore) loadLocked(ctx context.Context) error {
	if s.terms != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	terms, err := etymio.ImportChunks(s.dir)
	if stderrors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "no stored terms in %s", s.dir)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "load terms from %s", s.dir)
	}
	if terms == nil {
		terms = []*etym.Term{}
	}
	s.terms = terms
	s.byID = etym.IndexAll(terms)
	return nil
}

// Get returns the first term saved with id, or the first nested node
// carrying it.
func (s *FileStore) Get(ctx context.Context, id string) (*etym.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	t, ok := s.byID[id]
	if !ok {
		return nil, notFound(id)
	}
	return t, nil
}

// Find matches term text case-insensitively.
func (s *FileStore) Find(ctx context.Context, text, lang string) ([]*etym.Term, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(ctx); err != nil {
		return nil, err
	}
	return etym.Find(s.terms, text, lang), nil
}

// Close drops the in-memory copy.
func (s *FileStore) Close() error {
	s.mu.Lock()
	s.terms, s.byID = nil, nil
	s.mu.Unlock()
	return nil
}

var _ Store = (*FileStore)(nil)
