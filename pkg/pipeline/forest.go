package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/etym/build"
	"github.com/matzehuels/etymograph/pkg/etym/transform"
	"github.com/matzehuels/etymograph/pkg/observability"
)

// assembled is the per-group output of the parallel stage.
type assembled struct {
	build.Result
	cycleEdges int
}

// BuildForest assembles one tree per row group, breaks cycles, drops trees
// left without parents and, unless opts.SkipGraft is set, grafts the forest.
// Output order follows groups. Only cancellation returns an error.
func BuildForest(ctx context.Context, groups [][]etym.Row, opts Options, logger *log.Logger) (*Result, error) {
	if logger == nil {
		logger = log.Default()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	hooks := observability.Pipeline()
	res := &Result{}
	res.Stats.Groups = len(groups)
	for _, g := range groups {
		res.Stats.Rows += len(g)
	}

	hooks.OnStageStart(ctx, observability.StageAssemble)
	start := time.Now()
	out := make([]assembled, len(groups))
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i, rows := range groups {
		if ectx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			a := assembled{Result: build.Assemble(rows)}
			if a.Term != nil {
				a.cycleEdges = transform.BreakCycles(a.Term)
			}
			out[i] = a
			return nil
		})
	}
	err := eg.Wait()
	if err == nil {
		err = ctx.Err()
	}
	res.Stats.AssembleTime = time.Since(start)
	if err != nil {
		hooks.OnStageComplete(ctx, observability.StageAssemble, 0, res.Stats.AssembleTime, err)
		return nil, err
	}

	terms := make([]*etym.Term, 0, len(groups))
	for _, a := range out {
		s := &res.Stats
		s.Ignored += a.Ignored
		s.Collapsed += a.Collapsed
		s.CycleEdges += a.cycleEdges
		switch {
		case a.Empty:
			s.Empty++
			continue
		case a.Term == nil:
			s.NoParents++
			continue
		case len(a.Term.Parents) == 0:
			s.CycleDropped++
			logger.Debug("dropped term after cycle removal", "id", a.Term.ID, "term", a.Term.Term)
			continue
		}
		if a.Ambiguity != build.Unambiguous {
			s.Ambiguous++
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				TermID:    a.Term.ID,
				Term:      a.Term.Term,
				Lang:      a.Term.Lang,
				Ambiguity: a.Ambiguity,
			})
			logger.Debug("ambiguous structure", "id", a.Term.ID, "term", a.Term.Term, "lang", a.Term.Lang, "reason", a.Ambiguity)
		}
		terms = append(terms, a.Term)
	}
	hooks.OnStageComplete(ctx, observability.StageAssemble, len(terms), res.Stats.AssembleTime, nil)
	hooks.OnDiagnostic(ctx, "empty", res.Stats.Empty)
	hooks.OnDiagnostic(ctx, "no_parents", res.Stats.NoParents)
	hooks.OnDiagnostic(ctx, "ambiguous", res.Stats.Ambiguous)
	hooks.OnDiagnostic(ctx, "cycle_edges", res.Stats.CycleEdges)
	hooks.OnDiagnostic(ctx, "cycle_dropped", res.Stats.CycleDropped)

	logger.Info("assembled terms",
		"terms", len(terms),
		"skipped", res.Stats.Skipped(),
		"ambiguous", res.Stats.Ambiguous,
		"cycle_edges", res.Stats.CycleEdges,
		"duration", res.Stats.AssembleTime)

	if !opts.SkipGraft {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hooks.OnStageStart(ctx, observability.StageGraft)
		start = time.Now()
		gr := transform.Graft(terms, transform.NewIndex(terms))
		res.Stats.Graft = gr
		res.Stats.GraftTime = time.Since(start)
		hooks.OnStageComplete(ctx, observability.StageGraft, gr.Grafted, res.Stats.GraftTime, nil)
		hooks.OnDiagnostic(ctx, "rejected", gr.Rejected)
		hooks.OnDiagnostic(ctx, "dangling", gr.Dangling)
		hooks.OnDiagnostic(ctx, "duplicates", gr.Duplicates)

		logger.Info("grafted forest",
			"grafted", gr.Grafted,
			"rejected", gr.Rejected,
			"dangling", gr.Dangling,
			"duplicates", gr.Duplicates,
			"duration", res.Stats.GraftTime)
	}

	res.Terms = terms
	res.Stats.Terms = len(terms)
	return res, nil
}
