package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/etym"
)

var (
	styleTreeTerm = lipgloss.NewStyle().Foreground(colorRed)
	styleTreeLang = lipgloss.NewStyle().Foreground(colorGreen)
)

// showCommand creates the show command that prints a term's ancestry.
func (c *CLI) showCommand() *cobra.Command {
	var (
		lang     string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "show [term or id]",
		Short: "Print the ancestry tree of a term",
		Long: `Print the ancestry tree of a term.

The argument is looked up as a term id first, then as surface text. When
several terms share the text, you are asked to pick one (or the first is
used when not running in a terminal). Narrow the search with --lang.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runShow(cmd.Context(), cfg, args[0], lang, maxDepth)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language of the term")
	cmd.Flags().IntVar(&maxDepth, "depth", 0, "maximum depth to print (0: unlimited)")
	addStoreFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runShow(ctx context.Context, cfg *config.Config, query, lang string, maxDepth int) error {
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	t, err := resolveTerm(ctx, s, query, lang, interactivePicker())
	if err != nil {
		return err
	}
	printTree(os.Stdout, t, maxDepth)
	return nil
}

// printTree prints t and its ancestors, one per line, indented by depth:
// surface text, language, id and relation kind, with "-" for unset fields.
func printTree(w io.Writer, t *etym.Term, maxDepth int) {
	etym.Walk(t, func(n *etym.Term, path []*etym.Term) bool {
		fmt.Fprintf(w, "%s%s %s %s %s\n",
			strings.Repeat("  ", len(path)),
			styleTreeTerm.Render(orDash(n.Term)),
			styleTreeLang.Render(orDash(n.Lang)),
			orDash(n.ID),
			orDash(n.Type),
		)
		return maxDepth <= 0 || len(path) < maxDepth
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
