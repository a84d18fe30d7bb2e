// Package pipeline turns a relation table into a grafted forest of
// derivation trees.
//
// The build runs four stages:
//
//  1. Load: read the relation CSV and split it into per-term row groups
//  2. Assemble: build one tree per term, in parallel (see [build.Assemble])
//  3. Cycles: sever cycles in each tree (see [transform.BreakCycles])
//  4. Graft: link trees at shared leaves (see [transform.Graft])
//
// Data problems never abort a build. They are counted in [Stats], logged,
// and reported to the observability hooks. Only I/O failures and
// cancellation return errors.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Build(ctx, pipeline.Options{Input: "etymology.csv"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(len(res.Terms), res.Stats.Graft.Grafted)
package pipeline

import (
	"runtime"
	"time"

	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/etym/build"
	"github.com/matzehuels/etymograph/pkg/etym/transform"
)

// formatVersion is part of the cache key. Bump it whenever assembly or
// grafting changes output for the same input.
const formatVersion = 1

// Export formats understood by the CLI and the HTTP API.
const (
	FormatJSON  = "json"
	FormatDOT   = "dot"
	FormatSVG   = "svg"
	FormatGephi = "gephi"
)

// Formats lists every export format.
var Formats = []string{FormatJSON, FormatDOT, FormatSVG, FormatGephi}

// ValidateFormat checks that format is a known export format.
func ValidateFormat(format string) error {
	return errors.ValidateFormat(format, Formats...)
}

// Options configures a build.
type Options struct {
	// Input is the relation CSV path.
	Input string `json:"input"`
	// Workers bounds parallel assembly. Zero means one per CPU.
	Workers int `json:"workers,omitempty"`
	// SkipGraft leaves trees unlinked.
	SkipGraft bool `json:"skip_graft,omitempty"`
	// Refresh ignores cached results (they are still written).
	Refresh bool `json:"refresh,omitempty"`
}

// ValidateAndSetDefaults checks required fields and fills in defaults. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input file is required")
	}
	if o.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "workers must not be negative")
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	return nil
}

// Result is the outcome of a build.
type Result struct {
	// Terms are the kept trees in input order.
	Terms []*etym.Term `json:"-"`

	// InputHash is the SHA-256 of the input file.
	InputHash string `json:"input_hash"`

	Stats Stats `json:"stats"`

	// Diagnostics lists the terms whose structure had to be guessed.
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// CacheHit is set when the forest came from the cache.
	CacheHit bool `json:"-"`
}

// Stats counts what each stage did.
type Stats struct {
	Rows   int `json:"rows"`
	Groups int `json:"groups"`
	Terms  int `json:"terms"`

	// Empty counts groups whose rows were all of an ignored kind.
	Empty int `json:"empty"`
	// NoParents counts terms dropped because assembly produced no ancestor.
	NoParents int `json:"no_parents"`
	// Ignored counts rows dropped by relation kind.
	Ignored   int `json:"ignored"`
	Collapsed int `json:"collapsed"`
	Ambiguous int `json:"ambiguous"`

	// CycleEdges counts parent edges severed to break cycles, and
	// CycleDropped the terms that were left without parents as a result.
	CycleEdges   int `json:"cycle_edges"`
	CycleDropped int `json:"cycle_dropped"`

	Graft transform.GraftResult `json:"graft"`

	LoadTime     time.Duration `json:"load_time"`
	AssembleTime time.Duration `json:"assemble_time"`
	GraftTime    time.Duration `json:"graft_time"`
}

// Skipped is the number of groups that produced no term.
func (s Stats) Skipped() int { return s.Empty + s.NoParents + s.CycleDropped }

// Diagnostic records a term assembled by heuristic.
type Diagnostic struct {
	TermID    string          `json:"term_id"`
	Term      string          `json:"term"`
	Lang      string          `json:"lang"`
	Ambiguity build.Ambiguity `json:"ambiguity"`
}
