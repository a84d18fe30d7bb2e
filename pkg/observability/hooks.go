// Package observability provides hooks for metrics and tracing.
//
// Libraries emit events through the hooks returned by [Pipeline], [Cache]
// and [HTTP]. By default these are no-ops; main registers real
// implementations (see [Prometheus]) at startup. Libraries never import a
// metrics backend directly.
//
// # Usage
//
//	func main() {
//	    p := observability.NewPrometheus(prometheus.DefaultRegisterer)
//	    observability.SetPipelineHooks(p)
//	    observability.SetCacheHooks(p)
//	    observability.SetHTTPHooks(p)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnStageStart(ctx, "assemble")
//	// ... assemble ...
//	observability.Pipeline().OnStageComplete(ctx, "assemble", len(terms), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Pipeline stage names.
const (
	StageLoad     = "load"
	StageAssemble = "assemble"
	StageGraft    = "graft"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build pipeline.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	// OnStageComplete reports the number of items the stage produced.
	OnStageComplete(ctx context.Context, stage string, items int, duration time.Duration, err error)

	// OnDiagnostic reports n occurrences of a recoverable data problem
	// (ambiguous, empty, cycle, dangling, rejected, duplicate).
	OnDiagnostic(ctx context.Context, kind string, n int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from the HTTP API.
type HTTPHooks interface {
	// OnResponse records a served request. route is the route pattern, not
	// the raw path.
	OnResponse(ctx context.Context, method, route string, statusCode int, duration time.Duration)

	// OnError records a handler error.
	OnError(ctx context.Context, method, route string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnDiagnostic(context.Context, string, int)                          {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
