// Package observability carries optional instrumentation hooks.
//
// The compiler packages report stage building, channel routing, rendering,
// cache traffic, and served requests through three small interfaces. By
// default every hook is a no-op; a binary that wants metrics or traces
// installs its own implementation once at startup:
//
//	observability.SetPipelineHooks(&promPipeline{})
//
// and library code reports through the accessors:
//
//	observability.Pipeline().OnRouteStart(ctx, boundary, tracks)
//
// Only main (or a test) should install hooks. Libraries never do.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes a compilation.
type PipelineHooks interface {
	OnStagesStart(ctx context.Context, circuits int)
	OnStagesComplete(ctx context.Context, stages int, duration time.Duration, err error)

	// Boundary is the index of the left-hand stage of the routed channel.
	OnRouteStart(ctx context.Context, boundary, tracks int)
	OnRouteComplete(ctx context.Context, boundary, steps, evictions int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks observes cache traffic. KeyType is "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks observes requests handled by the compile server.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// NoopPipelineHooks discards pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStagesStart(context.Context, int)                                   {}
func (NoopPipelineHooks) OnStagesComplete(context.Context, int, time.Duration, error)          {}
func (NoopPipelineHooks) OnRouteStart(context.Context, int, int)                               {}
func (NoopPipelineHooks) OnRouteComplete(context.Context, int, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                              {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)     {}

// NoopCacheHooks discards cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks discards server events.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// slot holds one installed hook implementation. Loads are lock-free.
type slot[T any] struct {
	p   atomic.Pointer[T]
	def T
}

func newSlot[T any](def T) *slot[T] {
	s := &slot[T]{def: def}
	s.reset()
	return s
}

func (s *slot[T]) load() T { return *s.p.Load() }

func (s *slot[T]) store(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.store(s.def) }

var (
	pipelineSlot = newSlot[PipelineHooks](NoopPipelineHooks{})
	cacheSlot    = newSlot[CacheHooks](NoopCacheHooks{})
	serverSlot   = newSlot[ServerHooks](NoopServerHooks{})
)

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		pipelineSlot.store(h)
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.store(h)
	}
}

// SetServerHooks installs h. A nil h is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		serverSlot.store(h)
	}
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return pipelineSlot.load() }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return cacheSlot.load() }

// Server returns the installed server hooks.
func Server() ServerHooks { return serverSlot.load() }

// Reset reinstalls the no-op hooks. Tests call it from t.Cleanup.
func Reset() {
	pipelineSlot.reset()
	cacheSlot.reset()
	serverSlot.reset()
}
