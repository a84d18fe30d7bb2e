package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/etym/chain"
)

// chainCommand creates the chain command that explores word associations.
func (c *CLI) chainCommand() *cobra.Command {
	var (
		lang     string
		maxDepth int
	)

	cmd := &cobra.Command{
		Use:   "chain [term or id]",
		Short: "Find words connected through shared ancestors",
		Long: `Find words connected through shared ancestors.

A term's starting chain follows its first ancestor upwards and its ending
chain follows its last one. Two words connect when the first one ends with
an ancestor the second one starts with, as "heliocentric" and "centrifuge"
share "centric". Only words in the term's own language take part, and
connections through an ancestor in that same language are ignored.

Prints the chains of the term, the words it connects to and the longest
path of connections starting at it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runChain(cmd.Context(), cfg, args[0], lang, maxDepth)
		},
	}

	cmd.Flags().StringVarP(&lang, "lang", "l", "", "language of the term")
	cmd.Flags().IntVar(&maxDepth, "depth", chain.DefaultMaxDepth, "maximum path length")
	addStoreFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runChain(ctx context.Context, cfg *config.Config, query, lang string, maxDepth int) error {
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	all, err := s.Load(ctx)
	if err != nil {
		return err
	}
	found, err := resolveTerm(ctx, s, query, lang, interactivePicker())
	if err != nil {
		return err
	}

	g := chainGraph(all, found)
	root := canonical(all, found)
	chains, ok := g.Chains(root)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "%s takes no part in chains (affix or calque)", found)
	}

	fmt.Println(StyleTitle.Render(root.String()))
	printKeyValue("Starting", formatChain(chains.Starting))
	printKeyValue("Ending", formatChain(chains.Ending))
	printNewline()

	conns := g.Connected(root)
	if len(conns) == 0 {
		printInfo("No connected words")
		return nil
	}
	printInfo("%d connected words", len(conns))
	for _, conn := range conns {
		printDetail("%s via %s", conn.Term, conn.Common)
	}
	printNewline()

	p := g.LongestPath(root, maxDepth)
	printInfo("Longest path (%d steps)", len(p.Terms)-1)
	for i, t := range p.Terms {
		if i == 0 {
			fmt.Println("  " + StyleHighlight.Render(t.String()))
			continue
		}
		fmt.Printf("  %s %s %s\n", StyleDim.Render(iconArrow), StyleValue.Render(t.String()), StyleDim.Render("via "+p.Common[i-1].String()))
	}
	printNewline()
	printNextStep("Draw it", fmt.Sprintf("%s export --format svg --path --term %s -o path.svg", appName, root.ID))
	return nil
}

// chainGraph builds the chain graph for words in root's language.
func chainGraph(all []*etym.Term, root *etym.Term) *chain.Graph {
	return chain.New(all, chain.Options{
		Langs:          []string{root.Lang},
		SkipCommonLang: root.Lang,
	})
}

// canonical returns the top-level term of all with t's id, or t itself.
// Stores may hand out a fresh copy of a term on every lookup.
func canonical(all []*etym.Term, t *etym.Term) *etym.Term {
	for _, a := range all {
		if a == t {
			return a
		}
	}
	for _, a := range all {
		if a.ID != "" && a.ID == t.ID {
			return a
		}
	}
	return t
}

func formatChain(nodes []*etym.Term) string {
	if len(nodes) == 0 {
		return "-"
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, " ← ")
}
