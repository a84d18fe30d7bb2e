package cli

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/etymograph/internal/api"
	"github.com/matzehuels/etymograph/pkg/cache"
	"github.com/matzehuels/etymograph/pkg/config"
	"github.com/matzehuels/etymograph/pkg/observability"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored terms over HTTP",
		Long: `Serve stored terms over HTTP.

Routes:
  GET /terms?q=text&lang=L   find terms by surface text
  GET /terms/{id}            a term with its ancestors (JSON)
  GET /terms/{id}/dot        Graphviz source
  GET /terms/{id}/svg        rendered diagram (cached)
  GET /metrics               Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(cmd)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().String("addr", "", "listen address (default :8080)")
	addStoreFlags(cmd.Flags())
	addCacheFlags(cmd.Flags())

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg *config.Config) error {
	s, err := c.openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	cc, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer cc.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	p := observability.NewPrometheus(reg)
	observability.SetHTTPHooks(p)
	observability.SetCacheHooks(p)
	defer observability.Reset()

	srv := api.New(api.Config{
		Addr:    cfg.Serve.Addr,
		Store:   s,
		Cache:   cc,
		Keyer:   cache.NewScopedKeyer(nil, "serve:"),
		Metrics: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:  c.Logger,
	})
	printInfo("Listening on %s", StyleHighlight.Render(cfg.Serve.Addr))
	return srv.Serve(ctx)
}
