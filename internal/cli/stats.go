package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/etym"
)

// statsOpts holds the command-line flags for the stats command.
type statsOpts struct {
	lang         string // language whose ancestors are ranked
	top          int    // number of ancestors to list
	ancestorLang string // list terms with an ancestor in this language
	skipCalques  bool   // ignore terms reaching ancestorLang through a calque
}

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	opts := statsOpts{top: 20}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored forest",
		Long: `Summarize the stored forest.

Always prints the number of terms per language. With --lang, also ranks the
ancestors in other languages that the terms of that language come from most
often. With --ancestor-lang, lists the terms (of --lang, if given) that have
an ancestor in that language.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runStats(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.lang, "lang", "l", "", "rank the ancestors of this language's terms")
	cmd.Flags().IntVarP(&opts.top, "top", "n", opts.top, "number of ancestors to list (0: all)")
	cmd.Flags().StringVar(&opts.ancestorLang, "ancestor-lang", "", "list terms with an ancestor in this language")
	cmd.Flags().BoolVar(&opts.skipCalques, "skip-calques", false, "with --ancestor-lang, ignore calques")
	addStoreFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runStats(ctx context.Context, cfg *config.Config, opts statsOpts) error {
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	terms, err := s.Load(ctx)
	if err != nil {
		return err
	}
	writeStats(os.Stdout, terms, opts)
	return nil
}

// writeStats renders the requested tables.
func writeStats(w io.Writer, terms []*etym.Term, opts statsOpts) {
	langs := etym.CountByLang(terms)
	t := newTable(w, "Language", "Terms")
	for _, lc := range langs {
		t.AppendRow(table.Row{lc.Lang, lc.Count})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d languages", len(langs)), len(terms)})
	t.Render()

	if opts.lang != "" {
		fmt.Fprintln(w)
		top := etym.TopAncestors(terms, etym.IndexAll(terms), opts.lang, opts.top)
		t := newTable(w, "#", "Ancestor", "Lang", "ID", opts.lang+" terms")
		for i, a := range top {
			t.AppendRow(table.Row{i + 1, a.Term.Label(), orDash(a.Term.Lang), a.Term.ID, a.Count})
		}
		t.Render()
	}

	if opts.ancestorLang != "" {
		fmt.Fprintln(w)
		found := etym.WithAncestorLang(terms, opts.lang, opts.ancestorLang, opts.skipCalques)
		t := newTable(w, "Term", "Lang", "ID")
		for _, f := range found {
			t.AppendRow(table.Row{f.Term, f.Lang, f.ID})
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d with %s ancestors", len(found), opts.ancestorLang), "", ""})
		t.Render()
	}
}

func newTable(w io.Writer, headers ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(headers))
	return t
}
