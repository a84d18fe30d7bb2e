package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/pipeline"
)

// buildCommand creates the build command that turns a relation CSV into a
// stored forest.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		refresh bool
		report  string
	)

	cmd := &cobra.Command{
		Use:   "build [relations.csv]",
		Short: "Build the term forest from a relation table",
		Long: `Build the term forest from a relation table.

The relation CSV is grouped by term, each group is assembled into an ancestry
tree, cycles are broken and trees ending in a known term are grafted onto that
term's own tree. The result is written to the configured store.

Builds are cached by input content, so re-running on an unchanged file is
instant. Use --refresh to rebuild anyway.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("input", args[0]); err != nil {
					return err
				}
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runBuild(cmd.Context(), cfg, refresh, report)
		},
	}

	cmd.Flags().StringP("input", "i", "", "relation CSV file")
	cmd.Flags().Int("workers", 0, "parallel assembly workers (default: one per CPU)")
	cmd.Flags().Bool("graft", true, "graft trees onto the trees of their leaves")
	cmd.Flags().Int("chunk-size", 0, "terms per chunk file (file store)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached builds")
	cmd.Flags().StringVar(&report, "report", "", "write build statistics as JSON to this file")
	addStoreFlags(cmd.Flags())
	addCacheFlags(cmd.Flags())

	return cmd
}

// runBuild builds the forest and saves it.
func (c *CLI) runBuild(ctx context.Context, cfg *config.Config, refresh bool, report string) error {
	if cfg.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no input: pass a relation CSV or set input in the config")
	}

	cc, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Building %s...", cfg.Input))
	spinner.Start()

	res, err := runner.Build(ctx, pipeline.Options{
		Input:     cfg.Input,
		Workers:   cfg.Workers,
		SkipGraft: !cfg.Graft,
		Refresh:   refresh,
	})
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}

	spinner.Update(fmt.Sprintf("Saving %d terms...", len(res.Terms)))
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		spinner.StopWithError("Store unavailable")
		return err
	}
	defer s.Close()

	if err := s.Save(ctx, res.Terms); err != nil {
		spinner.StopWithError("Save failed")
		return err
	}
	spinner.Stop()
	prog.done("Build complete")

	printSuccess("Built %d terms from %s", res.Stats.Terms, cfg.Input)
	printBuildStats(res.Stats, res.CacheHit)
	printDetail("Store: %s (%s)", storeLocation(cfg), cfg.Store.Backend)

	logBuild(c.Logger, res)
	if n := len(res.Diagnostics); n > 0 {
		printWarning("%d terms were assembled by heuristic (see --verbose)", n)
	}

	if report != "" {
		if err := writeReport(report, res); err != nil {
			return err
		}
		printFile(report)
	}
	printNewline()
	printNextStep("Browse a term", appName+" show <term>")
	return nil
}

// storeLocation describes where the store keeps its data.
func storeLocation(cfg *config.Config) string {
	if cfg.Store.Backend == config.BackendMongo {
		return cfg.Store.Database
	}
	return cfg.Store.Path
}

// writeReport writes the build result (statistics and diagnostics) as JSON.
func writeReport(path string, res *pipeline.Result) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
