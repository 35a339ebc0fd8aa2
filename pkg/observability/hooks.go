// Package observability provides hooks for metrics, tracing, and logging.
//
// The package uses a simple hooks pattern: hook interfaces for event
// categories, no-op default implementations, and registration at startup.
// This keeps the libraries free of hard dependencies on any observability
// backend while letting main wire in OpenTelemetry, Prometheus, or plain
// logging.
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := put(ctx, name, data)
//	observability.Store().OnPut(ctx, backend, name, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from process store backends.
type StoreHooks interface {
	OnPut(ctx context.Context, backend, name string, duration time.Duration, err error)
	OnGet(ctx context.Context, backend, name string, duration time.Duration, err error)
	OnDelete(ctx context.Context, backend, name string, duration time.Duration, err error)
	OnList(ctx context.Context, backend string, count int, duration time.Duration, err error)
}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnPut(ctx context.Context, backend, name string, duration time.Duration, err error) {
}
func (NoopStoreHooks) OnGet(ctx context.Context, backend, name string, duration time.Duration, err error) {
}
func (NoopStoreHooks) OnDelete(ctx context.Context, backend, name string, duration time.Duration, err error) {
}
func (NoopStoreHooks) OnList(ctx context.Context, backend string, count int, duration time.Duration, err error) {
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the render cache.
type CacheHooks interface {
	OnHit(ctx context.Context, key string)
	OnMiss(ctx context.Context, key string)
	OnSet(ctx context.Context, key string, size int)
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnHit(ctx context.Context, key string)           {}
func (NoopCacheHooks) OnMiss(ctx context.Context, key string)          {}
func (NoopCacheHooks) OnSet(ctx context.Context, key string, size int) {}

// =============================================================================
// Registration
// =============================================================================

var (
	mu         sync.RWMutex
	storeHooks StoreHooks = NoopStoreHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
)

// SetStoreHooks registers store hooks. Call at startup, before any store use.
func SetStoreHooks(h StoreHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopStoreHooks{}
	}
	storeHooks = h
}

// SetCacheHooks registers cache hooks. Call at startup, before any cache use.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	mu.RLock()
	defer mu.RUnlock()
	return storeHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults. Intended for tests.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
