package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/netgrid/pkg/cache"
	"github.com/matzehuels/netgrid/pkg/errors"
	"github.com/matzehuels/netgrid/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the compile server use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → compile → render pipeline with caching.
//
// Artifacts are cached per format under a key derived from the netlist hash
// and every option that changes the layout. Compile statistics are cached
// next to them so a fully cached run still reports them.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}

	raw, err := ReadInput(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{NetlistHash: cache.Hash(raw)}
	layoutKey := r.Keyer.LayoutKey(result.NetlistHash, opts.LayoutKeyOpts())
	layoutHash := cache.Hash([]byte(layoutKey))

	if !opts.Refresh {
		if artifacts, stats, ok := r.cached(ctx, layoutKey, layoutHash, opts); ok {
			r.Logger.Debug("artifacts cached", "formats", opts.Formats)
			result.Artifacts = artifacts
			result.Stats = stats
			result.CacheInfo.RenderHit = true
			return result, nil
		}
	}

	nl, err := Load(raw)
	if err != nil {
		return nil, err
	}
	compiled, err := Compile(ctx, nl, opts)
	if err != nil {
		return nil, err
	}
	result.Compiled = compiled

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(ctx, compiled, opts)
	compiled.Stats.RenderTime = time.Since(start)
	hooks.OnRenderComplete(ctx, opts.Formats, compiled.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats = compiled.Stats

	r.store(ctx, layoutKey, layoutHash, result, opts)
	return result, nil
}

// cached returns every requested artifact and the stored stats, or false if
// any of them is missing.
func (r *Runner) cached(ctx context.Context, layoutKey, layoutHash string, opts Options) (map[string][]byte, Stats, bool) {
	hooks := observability.Cache()
	var stats Stats
	data, hit, err := r.Cache.Get(ctx, layoutKey)
	if err != nil || !hit || json.Unmarshal(data, &stats) != nil {
		hooks.OnCacheMiss(ctx, "layout")
		return nil, Stats{}, false
	}
	hooks.OnCacheHit(ctx, "layout")

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			hooks.OnCacheMiss(ctx, "artifact")
			return nil, Stats{}, false
		}
		hooks.OnCacheHit(ctx, "artifact")
		artifacts[format] = data
	}
	return artifacts, stats, true
}

func (r *Runner) store(ctx context.Context, layoutKey, layoutHash string, result *Result, opts Options) {
	hooks := observability.Cache()
	if data, err := json.Marshal(result.Stats); err == nil {
		if err := r.Cache.Set(ctx, layoutKey, data, cache.TTLLayout); err != nil {
			r.Logger.Warn("cache write failed", "key", layoutKey, "err", err)
		} else {
			hooks.OnCacheSet(ctx, "layout", len(data))
		}
	}
	for format, data := range result.Artifacts {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.TTLArtifact); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
			continue
		}
		hooks.OnCacheSet(ctx, "artifact", len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
