package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/etymograph/pkg/cache"
	"github.com/matzehuels/etymograph/pkg/errors"
	etymio "github.com/matzehuels/etymograph/pkg/io"
	"github.com/matzehuels/etymograph/pkg/observability"
)

// Runner runs builds with caching. It holds no per-build state, so one
// Runner may serve concurrent builds.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL of cached forests. Zero means cache.TTLForest.
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means cache.DefaultKeyer and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// cachedForest is the cache entry for one build.
type cachedForest struct {
	Result
	Terms json.RawMessage `json:"terms"`
}

// Build loads opts.Input and builds the forest, serving it from the cache
// when the same input was built before with the same options.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hash, err := cache.HashFile(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.Input)
	}
	key := r.Keyer.ForestKey(hash, cache.ForestKeyOpts{Graft: !opts.SkipGraft, Version: formatVersion})

	if !opts.Refresh {
		if res, ok := r.cached(ctx, key); ok {
			res.InputHash = hash
			r.Logger.Info("loaded forest from cache", "terms", len(res.Terms), "input", opts.Input)
			return res, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageLoad)
	start := time.Now()
	rows, err := etymio.ImportRelations(opts.Input)
	loadTime := time.Since(start)
	if err != nil {
		hooks.OnStageComplete(ctx, observability.StageLoad, 0, loadTime, err)
		return nil, errors.Wrap(errors.ErrCodeInvalidCSV, err, "load relations")
	}
	groups := etymio.GroupRows(rows)
	hooks.OnStageComplete(ctx, observability.StageLoad, len(groups), loadTime, nil)
	r.Logger.Info("loaded relations", "rows", len(rows), "terms", len(groups), "duration", loadTime)

	res, err := BuildForest(ctx, groups, opts, r.Logger)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCanceled, err, "build forest")
	}
	res.InputHash = hash
	res.Stats.LoadTime = loadTime

	r.store(ctx, key, res)
	return res, nil
}

func (r *Runner) cached(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "forest")
		return nil, false
	}
	var entry cachedForest
	if err := json.Unmarshal(data, &entry); err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, "forest")
		return nil, false
	}
	terms, err := etymio.ReadTerms(bytes.NewReader(entry.Terms))
	if err != nil {
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
		observability.Cache().OnCacheMiss(ctx, "forest")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "forest")
	res := entry.Result
	res.Terms = terms
	res.CacheHit = true
	return &res, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result) {
	var buf bytes.Buffer
	if err := etymio.WriteTerms(&buf, res.Terms); err != nil {
		r.Logger.Warn("cache encode failed", "err", err)
		return
	}
	data, err := json.Marshal(cachedForest{Result: *res, Terms: buf.Bytes()})
	if err != nil {
		r.Logger.Warn("cache encode failed", "err", err)
		return
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLForest
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "forest", len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
