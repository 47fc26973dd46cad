// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; the CLI decides what
// receives them (debug logging with --verbose, nothing otherwise). Hooks are
// registered once at startup:
//
//	observability.Register(observability.Hooks{Pipeline: myHooks})
//
//	observability.Pipeline().OnEnrichStart(ctx, "flask")
//	// ... run integrations ...
//	observability.Pipeline().OnEnrichComplete(ctx, "flask", failures, time.Since(start))
package observability

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the best-of pipeline.
type PipelineHooks interface {
	// Per-project enrichment. failures counts integrations that returned an
	// error or panicked.
	OnEnrichStart(ctx context.Context, project string)
	OnEnrichComplete(ctx context.Context, project string, failures int, duration time.Duration)

	// Whole-document rendering.
	OnRenderStart(ctx context.Context, output string)
	OnRenderComplete(ctx context.Context, output string, bytes int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from registry response caching.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, namespace string)
	OnCacheMiss(ctx context.Context, namespace string)
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from registry HTTP calls.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError records a transport failure (no response received).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnEnrichStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnEnrichComplete(context.Context, string, int, time.Duration)        {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Registry
// =============================================================================

// Hooks bundles the receivers of every event kind.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

func noop() *Hooks {
	return &Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

var (
	current    atomic.Pointer[Hooks]
	registerMu sync.Mutex
)

func init() { current.Store(noop()) }

// Register installs h. Nil fields keep the receiver registered before, so
// a caller interested in cache events alone can pass Hooks{Cache: c}.
func Register(h Hooks) {
	registerMu.Lock()
	defer registerMu.Unlock()

	next := *current.Load()
	if h.Pipeline != nil {
		next.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		next.Cache = h.Cache
	}
	if h.HTTP != nil {
		next.HTTP = h.HTTP
	}
	current.Store(&next)
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Reset restores the no-op defaults.
func Reset() {
	registerMu.Lock()
	defer registerMu.Unlock()
	current.Store(noop())
}
