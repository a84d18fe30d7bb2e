package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/etym/chain"
	etymio "github.com/matzehuels/etymograph/pkg/io"
	"github.com/matzehuels/etymograph/pkg/pipeline"
	"github.com/matzehuels/etymograph/pkg/render/gephi"
	"github.com/matzehuels/etymograph/pkg/render/nodelink"
)

// exportOpts holds the command-line flags for the export command.
type exportOpts struct {
	format    string   // json, dot, svg, gephi
	output    string   // file, or directory for gephi; empty writes to stdout
	terms     []string // terms to export; empty exports the whole forest
	lang      string   // language used to resolve --term
	path      bool     // export the longest chain path starting at the term
	depth     int      // chain path depth cap
	highlight []string // ids drawn highlighted
	detailed  bool     // ids and relation kinds in diagram labels
}

// exportCommand creates the export command.
func (c *CLI) exportCommand() *cobra.Command {
	var opts exportOpts

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export terms as JSON, Graphviz or Gephi tables",
		Long: `Export terms as JSON, Graphviz or Gephi tables.

Without --term the whole stored forest is exported. With --term only the
named terms are exported; with --path the longest word-association path
starting at the single named term is exported and the shared ancestors
linking its steps are highlighted.

Formats:
  json   term records, shared nodes written once per record
  dot    Graphviz source
  svg    rendered Graphviz diagram
  gephi  nodes.csv and edges.csv in the --output directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pipeline.ValidateFormat(opts.format); err != nil {
				return err
			}
			if opts.format == pipeline.FormatGephi && opts.output == "" {
				return errors.New(errors.ErrCodeInvalidPath, "gephi export needs an --output directory")
			}
			if opts.path && len(opts.terms) != 1 {
				return errors.New(errors.ErrCodeInvalidInput, "--path needs exactly one --term")
			}
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runExport(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.FormatJSON, "output format: json, dot, svg, gephi")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (directory for gephi); stdout when empty")
	cmd.Flags().StringSliceVarP(&opts.terms, "term", "t", nil, "term text or id to export (repeatable)")
	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "language of --term")
	cmd.Flags().BoolVar(&opts.path, "path", false, "export the longest chain path from --term")
	cmd.Flags().IntVar(&opts.depth, "depth", chain.DefaultMaxDepth, "maximum path length for --path")
	cmd.Flags().StringSliceVar(&opts.highlight, "highlight", nil, "ids to highlight in diagrams")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show ids and relation kinds in diagrams")
	addStoreFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runExport(ctx context.Context, cfg *config.Config, opts exportOpts) error {
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	var terms []*etym.Term
	highlight := nodelink.HighlightIDs(opts.highlight...)

	switch {
	case opts.path:
		all, err := s.Load(ctx)
		if err != nil {
			return err
		}
		found, err := resolveTerm(ctx, s, opts.terms[0], opts.lang, interactivePicker())
		if err != nil {
			return err
		}
		root := canonical(all, found)
		p := chainGraph(all, root).LongestPath(root, opts.depth)
		c.Logger.Info("longest path", "from", root.String(), "steps", len(p.Terms)-1)
		terms = p.Terms
		for _, id := range p.Highlights() {
			highlight[id] = nodelink.DefaultHighlight
		}
	case len(opts.terms) > 0:
		for _, q := range opts.terms {
			t, err := resolveTerm(ctx, s, q, opts.lang, interactivePicker())
			if err != nil {
				return err
			}
			terms = append(terms, t)
		}
	default:
		if terms, err = s.Load(ctx); err != nil {
			return err
		}
	}

	if opts.format == pipeline.FormatGephi {
		if err := errors.ValidatePath(opts.output); err != nil {
			return err
		}
		if err := gephi.Export(opts.output, terms); err != nil {
			return fmt.Errorf("gephi export: %w", err)
		}
		printSuccess("Exported %d terms", len(terms))
		printFile(opts.output)
		return nil
	}

	var buf bytes.Buffer
	if err := writeExport(ctx, &buf, terms, opts.format, nodelink.Options{Highlight: highlight, Detailed: opts.detailed}); err != nil {
		return err
	}
	if opts.output == "" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	if err := errors.ValidatePath(opts.output); err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return err
	}
	printSuccess("Exported %d terms", len(terms))
	printFile(opts.output)
	return nil
}

// writeExport encodes terms in a single-stream format.
func writeExport(ctx context.Context, w io.Writer, terms []*etym.Term, format string, opts nodelink.Options) error {
	switch format {
	case pipeline.FormatJSON:
		return etymio.WriteTerms(w, terms)
	case pipeline.FormatDOT:
		_, err := io.WriteString(w, nodelink.ToDOT(terms, opts))
		return err
	case pipeline.FormatSVG:
		svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(terms, opts))
		if err != nil {
			return err
		}
		_, err = w.Write(svg)
		return err
	}
	return errors.New(errors.ErrCodeUnsupported, "format %q cannot be streamed", format)
}
