// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about routing runs, rule checks, and cache
// operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the engine free of observability framework dependencies
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetRouterHooks(&myRouterHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Router().OnRunStart(ctx, total)
//	// ... route ...
//	observability.Router().OnRunComplete(ctx, routed, failed, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Router Hooks
// =============================================================================

// RouterHooks receives events from autorouting runs.
type RouterHooks interface {
	// OnRunStart records the beginning of a run with the connection count.
	OnRunStart(ctx context.Context, total int)

	// OnConnection records one connection attempt. routed is false when the
	// connection could not be routed.
	OnConnection(ctx context.Context, net string, routed bool, duration time.Duration)

	// OnRunComplete records the end of a run. err is non-nil when the run
	// terminated abnormally (cancellation, fatal configuration error).
	OnRunComplete(ctx context.Context, routed, failed int, duration time.Duration, err error)
}

// =============================================================================
// DRC Hooks
// =============================================================================

// DRCHooks receives events from design rule check runs.
type DRCHooks interface {
	// OnCheckStart records the beginning of a check run.
	OnCheckStart(ctx context.Context, tracks, vias, footprints int)

	// OnCheckComplete records the end of a check run with the violation count.
	OnCheckComplete(ctx context.Context, violations int, duration time.Duration)
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
// No-op Implementations
// =============================================================================

// NoopRouterHooks is a no-op implementation of RouterHooks.
type NoopRouterHooks struct{}

func (NoopRouterHooks) OnRunStart(context.Context, int)                                  {}
func (NoopRouterHooks) OnConnection(context.Context, string, bool, time.Duration)        {}
func (NoopRouterHooks) OnRunComplete(context.Context, int, int, time.Duration, error)    {}

// NoopDRCHooks is a no-op implementation of DRCHooks.
type NoopDRCHooks struct{}

func (NoopDRCHooks) OnCheckStart(context.Context, int, int, int)           {}
func (NoopDRCHooks) OnCheckComplete(context.Context, int, time.Duration)   {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	routerHooks RouterHooks = NoopRouterHooks{}
	drcHooks    DRCHooks    = NoopDRCHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	hooksMu     sync.RWMutex
)

// SetRouterHooks registers custom router hooks.
// This should be called once at application startup before any routing runs.
func SetRouterHooks(h RouterHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		routerHooks = h
	}
}

// SetDRCHooks registers custom DRC hooks.
// This should be called once at application startup before any check runs.
func SetDRCHooks(h DRCHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		drcHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Router returns the registered router hooks.
func Router() RouterHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return routerHooks
}

// DRC returns the registered DRC hooks.
func DRC() DRCHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return drcHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	routerHooks = NoopRouterHooks{}
	drcHooks = NoopDRCHooks{}
	cacheHooks = NoopCacheHooks{}
}
