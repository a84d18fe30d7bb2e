package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "etymograph"

// Prometheus implements every hook interface with Prometheus collectors.
type Prometheus struct {
	stageDuration *prometheus.HistogramVec
	stageItems    *prometheus.CounterVec
	stageErrors   *prometheus.CounterVec
	diagnostics   *prometheus.CounterVec

	cacheOps   *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheus registers the collectors with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Prometheus{
		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "stage_duration_seconds",
			Help:      "Duration of pipeline stages in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300},
		}, []string{"stage"}),
		stageItems: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "items_total",
			Help:      "Items produced per pipeline stage",
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "errors_total",
			Help:      "Failed pipeline stages",
		}, []string{"stage"}),
		diagnostics: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "diagnostics_total",
			Help:      "Recoverable data problems by kind",
		}, []string{"kind"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache lookups and writes",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Served HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "HTTP handler errors",
		}, []string{"method", "route"}),
	}
}

func (p *Prometheus) OnStageStart(context.Context, string) {}

func (p *Prometheus) OnStageComplete(_ context.Context, stage string, items int, d time.Duration, err error) {
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		p.stageErrors.WithLabelValues(stage).Inc()
		return
	}
	p.stageItems.WithLabelValues(stage).Add(float64(items))
}

func (p *Prometheus) OnDiagnostic(_ context.Context, kind string, n int) {
	if n > 0 {
		p.diagnostics.WithLabelValues(kind).Add(float64(n))
	}
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	p.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, method, route string, _ error) {
	p.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ PipelineHooks = (*Prometheus)(nil)
	_ CacheHooks    = (*Prometheus)(nil)
	_ HTTPHooks     = (*Prometheus)(nil)
)
