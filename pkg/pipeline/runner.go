package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/vmslayers/pkg/availability"
	"github.com/matzehuels/vmslayers/pkg/cache"
	"github.com/matzehuels/vmslayers/pkg/layer"
	"github.com/matzehuels/vmslayers/pkg/observability"
	"github.com/matzehuels/vmslayers/pkg/render/nodelink"
)

// Runner executes pipeline stages through a cache.
// It holds no per-run state and is safe for concurrent use.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	TTL    time.Duration
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// selects cache.DefaultKeyer.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		TTL:    cache.DefaultTTL,
		Logger: logger,
	}
}

// Result is the output of [Runner.Execute].
type Result struct {
	Availability availability.Result
	Artifact     []byte

	Stats struct {
		ResolveTime time.Duration
		RenderTime  time.Duration
	}
	CacheInfo struct {
		ResolveHit bool
		RenderHit  bool
	}
}

// Execute resolves offerings and renders the graph in opts.Format.
func (r *Runner) Execute(ctx context.Context, offerings []layer.Offering, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	res := &Result{}

	start := time.Now()
	res.Availability, res.CacheInfo.ResolveHit = r.resolve(ctx, offerings, opts.Refresh)
	res.Stats.ResolveTime = time.Since(start)

	start = time.Now()
	artifact, hit, err := r.RenderWithCacheInfo(ctx, offerings, res.Availability, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifact = artifact
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit

	r.Logger.Debug("pipeline complete",
		"format", opts.Format,
		"resolve", res.Stats.ResolveTime,
		"render", res.Stats.RenderTime,
		"resolve_hit", res.CacheInfo.ResolveHit,
		"render_hit", res.CacheInfo.RenderHit)
	return res, nil
}

// ResolveWithCacheInfo computes availability and reports whether it came
// from the cache. Cache failures are logged and never fail resolution.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, offerings []layer.Offering) (availability.Result, bool) {
	return r.resolve(ctx, offerings, false)
}

// Resolve is [Runner.ResolveWithCacheInfo] without the cache hit info.
func (r *Runner) Resolve(ctx context.Context, offerings []layer.Offering) availability.Result {
	res, _ := r.resolve(ctx, offerings, false)
	return res
}

func (r *Runner) resolve(ctx context.Context, offerings []layer.Offering, refresh bool) (availability.Result, bool) {
	key := r.Keyer.ResultKey(offerings)
	hooks := observability.Cache()

	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			var rep availability.Report
			if err := json.Unmarshal(data, &rep); err == nil {
				hooks.OnCacheHit(ctx, "result")
				return availability.FromReport(rep), true
			}
		}
		hooks.OnCacheMiss(ctx, "result")
	}

	start := time.Now()
	observability.Resolver().OnResolveStart(ctx, len(offerings))
	result := availability.Resolve(offerings)
	observability.Resolver().OnResolveComplete(ctx, len(result.Available()), len(result.Unavailable()), time.Since(start))

	r.Logger.Debug("resolved availability",
		"offerings", len(offerings),
		"available", len(result.Available()),
		"unavailable", len(result.Unavailable()),
		"passes", result.Passes())

	if data, err := json.Marshal(result.Report()); err == nil {
		r.store(ctx, "result", key, data)
	}
	return result, false
}

// RenderWithCacheInfo renders the graph of offerings coloured by result and
// reports whether the artifact came from the cache. DOT output is cheap and
// never cached.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, offerings []layer.Offering, result availability.Result, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	dot := nodelink.ToDOT(offerings, result, nodelink.Options{Detailed: opts.Detailed})
	if opts.Format == FormatDOT {
		return []byte(dot), false, nil
	}

	key := r.Keyer.GraphKey(offerings, opts.graphKeyOpts())
	hooks := observability.Cache()
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			hooks.OnCacheHit(ctx, "graph")
			return data, true, nil
		}
		hooks.OnCacheMiss(ctx, "graph")
	}

	svg, err := nodelink.RenderSVG(ctx, dot)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "graph", key, svg)
	return svg, false, nil
}

// Render is [Runner.RenderWithCacheInfo] without the cache hit info.
func (r *Runner) Render(ctx context.Context, offerings []layer.Offering, result availability.Result, opts Options) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, offerings, result, opts)
	return data, err
}

func (r *Runner) store(ctx context.Context, kind, key string, data []byte) {
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "kind", kind, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
