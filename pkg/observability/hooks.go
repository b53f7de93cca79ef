// Package observability provides hooks for progress reporting, metrics and
// logging.
//
// Library packages never log. They emit events through the hooks registered
// here, and the command line (or any other host program) decides what to do
// with them: write log lines, drive a progress view, count metrics.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so there are no import
// cycles and the core packages stay free of any logging backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetBulkHooks(&progressHooks{})
//	    observability.SetSourceHooks(&logHooks{logger})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Source().OnFetchStart(ctx, "github.com", "owner/repo")
//	// ... fetch ...
//	observability.Source().OnFetchComplete(ctx, "github.com", "owner/repo", time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Bulk Hooks
// =============================================================================

// BulkHooks receives events from bulk runs. Item events arrive from worker
// goroutines concurrently; implementations must be safe for concurrent use.
type BulkHooks interface {
	OnRunStart(ctx context.Context, runID string, total int)
	OnItemStart(ctx context.Context, runID, itemID string)
	// OnItemComplete reports the final status ("succeeded", "warned",
	// "failed" or "skipped") of one item.
	OnItemComplete(ctx context.Context, runID, itemID, status string, duration time.Duration, err error)
	OnRunComplete(ctx context.Context, runID string, duration time.Duration)
}

// =============================================================================
// Source Hooks
// =============================================================================

// SourceHooks receives events from repository fact lookups.
type SourceHooks interface {
	OnFetchStart(ctx context.Context, host, repo string)
	OnFetchComplete(ctx context.Context, host, repo string, duration time.Duration, err error)
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

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopBulkHooks is a no-op implementation of BulkHooks.
type NoopBulkHooks struct{}

func (NoopBulkHooks) OnRunStart(context.Context, string, int)     {}
func (NoopBulkHooks) OnItemStart(context.Context, string, string) {}
func (NoopBulkHooks) OnItemComplete(context.Context, string, string, string, time.Duration, error) {
}
func (NoopBulkHooks) OnRunComplete(context.Context, string, time.Duration) {}

// NoopSourceHooks is a no-op implementation of SourceHooks.
type NoopSourceHooks struct{}

func (NoopSourceHooks) OnFetchStart(context.Context, string, string)                          {}
func (NoopSourceHooks) OnFetchComplete(context.Context, string, string, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	bulkHooks   BulkHooks   = NoopBulkHooks{}
	sourceHooks SourceHooks = NoopSourceHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetBulkHooks registers custom bulk hooks.
// This should be called once at application startup before any bulk run.
func SetBulkHooks(h BulkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		bulkHooks = h
	}
}

// SetSourceHooks registers custom repository source hooks.
func SetSourceHooks(h SourceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sourceHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Bulk returns the registered bulk hooks.
func Bulk() BulkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return bulkHooks
}

// Source returns the registered source hooks.
func Source() SourceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sourceHooks
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
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	bulkHooks = NoopBulkHooks{}
	sourceHooks = NoopSourceHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
