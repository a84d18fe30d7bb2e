package io

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/matzehuels/etymograph/pkg/etym"
)

// DefaultChunkSize is the number of terms per chunk file.
const DefaultChunkSize = 10000

// ChunkPattern matches the files written by [ExportChunks].
const ChunkPattern = "terms_*.json"

// ChunkName returns the file name of chunk i.
func ChunkName(i int) string { return fmt.Sprintf("terms_%04d.json", i) }

// ExportChunks writes terms into dir as consecutive files of at most size
// terms each and returns the written paths. Stale chunk files from an
// earlier, larger export are removed. Chunk boundaries carry no meaning.
func ExportChunks(dir string, terms []*etym.Term, size int) ([]string, error) {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	old, err := filepath.Glob(filepath.Join(dir, ChunkPattern))
	if err != nil {
		return nil, err
	}

	var paths []string
	for i := 0; i*size < len(terms); i++ {
		end := min((i+1)*size, len(terms))
		path := filepath.Join(dir, ChunkName(i))
		if err := ExportTerms(path, terms[i*size:end]); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	written := make(map[string]bool, len(paths))
	for _, p := range paths {
		written[p] = true
	}
	for _, p := range old {
		if !written[p] {
			if err := os.Remove(p); err != nil {
				return paths, fmt.Errorf("remove stale chunk: %w", err)
			}
		}
	}
	return paths, nil
}

// ImportChunks reads every chunk file in dir in name order.
func ImportChunks(dir string) ([]*etym.Term, error) {
	paths, err := filepath.Glob(filepath.Join(dir, ChunkPattern))
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("open %s: %w", dir, err)
		}
	}
	sort.Strings(paths)
	var terms []*etym.Term
	for _, p := range paths {
		chunk, err := ImportTerms(p)
		if err != nil {
			return nil, err
		}
		terms = append(terms, chunk...)
	}
	return terms, nil
}
