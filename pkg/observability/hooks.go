// Package observability provides hooks for metrics and tracing of layout runs.
//
// Instrumentation is optional: the engine and pipeline always call the
// registered hooks, which default to no-ops. A binary registers concrete
// implementations once at startup, for example the Prometheus-backed
// [PrometheusHooks]:
//
//	func main() {
//	    hooks := observability.NewPrometheusHooks()
//	    observability.SetLayoutHooks(hooks)
//	    observability.SetInputHooks(hooks)
//	    // ... run layouts
//	    _ = hooks.WriteTextfile("ssaview.prom")
//	}
//
// Libraries emit events through the accessors:
//
//	observability.Layout().OnRunStart(ctx, runID, items, pairs)
//	// ... iterate ...
//	observability.Layout().OnRunComplete(ctx, runID, iterations, stress, reason, duration)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from the spring layout engine.
type LayoutHooks interface {
	// OnRunStart is called before the initial stress is recorded.
	OnRunStart(ctx context.Context, runID string, items, pairs int)

	// OnStressCheck is called every time stress is evaluated.
	OnStressCheck(ctx context.Context, runID string, iteration int, stress float64)

	// OnRunComplete is called once when the run stops, whatever the reason.
	OnRunComplete(ctx context.Context, runID string, iterations int, stress float64, reason string, duration time.Duration)
}

// =============================================================================
// Input Hooks
// =============================================================================

// InputHooks receives events from vector loading.
type InputHooks interface {
	OnLoad(ctx context.Context, source string, items, features int, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnRunStart(context.Context, string, int, int)        {}
func (NoopLayoutHooks) OnStressCheck(context.Context, string, int, float64) {}
func (NoopLayoutHooks) OnRunComplete(context.Context, string, int, float64, string, time.Duration) {
}

// NoopInputHooks is a no-op implementation of InputHooks.
type NoopInputHooks struct{}

func (NoopInputHooks) OnLoad(context.Context, string, int, int, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	layoutHooks LayoutHooks = NoopLayoutHooks{}
	inputHooks  InputHooks  = NoopInputHooks{}
	hooksMu     sync.RWMutex
)

// SetLayoutHooks registers custom layout hooks.
// This should be called once at application startup before any run starts.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetInputHooks registers custom input hooks.
func SetInputHooks(h InputHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		inputHooks = h
	}
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Input returns the registered input hooks.
func Input() InputHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return inputHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	layoutHooks = NoopLayoutHooks{}
	inputHooks = NoopInputHooks{}
}
