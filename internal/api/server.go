// Package api serves built etymology forests over HTTP.
//
// Routes:
//
//	GET /terms?q=text[&lang=Lang]  terms whose surface text matches
//	GET /terms/{id}                one term with its ancestors
//	GET /terms/{id}/dot            Graphviz source of the term's tree
//	GET /terms/{id}/svg            rendered tree
//	GET /metrics                   Prometheus metrics, when configured
//	GET /healthz                   liveness and build information
//
// Errors are JSON objects {"code": ..., "error": ...} with the status from
// errors.HTTPStatus.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/etymograph/pkg/buildinfo"
	"github.com/matzehuels/etymograph/pkg/cache"
	"github.com/matzehuels/etymograph/pkg/errors"
	"github.com/matzehuels/etymograph/pkg/etym"
	"github.com/matzehuels/etymograph/pkg/io"
	"github.com/matzehuels/etymograph/pkg/observability"
	"github.com/matzehuels/etymograph/pkg/render/nodelink"
	"github.com/matzehuels/etymograph/pkg/store"
)

// Config configures a [Server].
type Config struct {
	Addr  string
	Store store.Store

	// Cache holds rendered SVGs. Nil disables caching.
	Cache cache.Cache
	Keyer cache.Keyer

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler

	Logger *log.Logger
}

// Server answers term lookups from a store.
type Server struct {
	addr    string
	store   store.Store
	cache   cache.Cache
	keyer   cache.Keyer
	scope   string
	metrics http.Handler
	logger  *log.Logger
}

// New creates a server.
func New(cfg Config) *Server {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Keyer == nil {
		cfg.Keyer = cache.NewDefaultKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	return &Server{
		addr:  cfg.Addr,
		store: cfg.Store,
		cache: cfg.Cache,
		keyer: cfg.Keyer,
		// Rendered entries are scoped to this process; the store may be
		// rebuilt between runs.
		scope:   cfg.Keyer.ForestKey(uuid.NewString(), cache.ForestKeyOpts{}),
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
		s.observe,
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		s.writeJSON(w, buildinfo.Current())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/terms", func(r chi.Router) {
		r.Get("/", s.handleFind)
		r.Get("/{id}", s.handleGet)
		r.Get("/{id}/dot", s.handleDOT)
		r.Get("/{id}/svg", s.handleSVG)
	})
	return r
}

// Serve listens on the configured address until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		s.logger.Info("serving", "addr", s.addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if err := errors.ValidateQuery(q); err != nil {
		s.writeError(w, r, err)
		return
	}
	terms, err := s.store.Find(r.Context(), q, r.URL.Query().Get("lang"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]json.RawMessage, 0, len(terms))
	for _, t := range terms {
		data, err := io.MarshalTerm(t)
		if err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", t.ID))
			return
		}
		out = append(out, data)
	}
	s.writeJSON(w, out)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	t, ok := s.term(w, r)
	if !ok {
		return
	}
	data, err := io.MarshalTerm(t)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", t.ID))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	t, ok := s.term(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	_, _ = w.Write([]byte(nodelink.ToDOT([]*etym.Term{t}, highlights(r))))
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	t, ok := s.term(w, r)
	if !ok {
		return
	}
	opts := highlights(r)

	key := s.keyer.TermKey(s.scope, t.ID, "svg")
	cacheable := len(opts.Highlight) == 0
	if cacheable {
		if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
			observability.Cache().OnCacheHit(r.Context(), "term")
			writeSVG(w, data)
			return
		}
		observability.Cache().OnCacheMiss(r.Context(), "term")
	}

	svg, err := nodelink.RenderSVG(r.Context(), nodelink.ToDOT([]*etym.Term{t}, opts))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render %s", t.ID))
		return
	}
	if cacheable {
		if err := s.cache.Set(r.Context(), key, svg, cache.TTLTerm); err != nil {
			s.logger.Warn("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(r.Context(), "term", len(svg))
		}
	}
	writeSVG(w, svg)
}

// term resolves the {id} parameter, writing the error response on failure.
func (s *Server) term(w http.ResponseWriter, r *http.Request) (*etym.Term, bool) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateTermID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return t, true
}

// highlights reads repeated ?highlight=id parameters.
func highlights(r *http.Request) nodelink.Options {
	ids := r.URL.Query()["highlight"]
	if len(ids) == 0 {
		return nodelink.Options{}
	}
	return nodelink.Options{Highlight: nodelink.HighlightIDs(ids...)}
}

func writeSVG(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(data)
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	observability.HTTP().OnError(r.Context(), r.Method, routePattern(r), err)

	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Code: code, Error: errors.UserMessage(err)})
}

// observe reports every response to the HTTP hooks, labelled by route
// pattern rather than raw path.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		d := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, routePattern(r), status, d)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", d)
	})
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
