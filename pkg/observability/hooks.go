// Package observability lets binaries watch what the library packages do
// without those packages importing a logging or metrics backend.
//
// The pipeline, the QMK client and the caches report events through the
// hooks returned by [Pipeline], [Cache] and [HTTP]. Until a binary installs
// its own, every hook is a [Noop]:
//
//	observability.SetHTTPHooks(myHTTPLogger{})
//	defer observability.Reset()
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks observes the load and render stages of a diagram run.
type PipelineHooks interface {
	// source is a file path, a keyboard path or "request body".
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, layouts int, duration time.Duration, err error)

	// A render covers grid extraction, pin resolution and encoding.
	OnRenderStart(ctx context.Context, layout, format string)
	OnRenderComplete(ctx context.Context, layout, format string, keys int, duration time.Duration, err error)
}

// CacheHooks observes lookups of fetched keyboard documents. keyType is the
// cache namespace, e.g. "qmk".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks observes requests made by the QMK client. OnError fires when no
// response arrived at all.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// Noop implements every hook interface and ignores all events. Embed it to
// implement only some methods.
type Noop struct{}

func (Noop) OnLoadStart(context.Context, string)                                        {}
func (Noop) OnLoadComplete(context.Context, string, int, time.Duration, error)          {}
func (Noop) OnRenderStart(context.Context, string, string)                              {}
func (Noop) OnRenderComplete(context.Context, string, string, int, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                                         {}
func (Noop) OnCacheMiss(context.Context, string)                                        {}
func (Noop) OnCacheSet(context.Context, string, int)                                    {}
func (Noop) OnRequest(context.Context, string, string, string)                          {}
func (Noop) OnResponse(context.Context, string, string, string, int, time.Duration)     {}
func (Noop) OnError(context.Context, string, string, string, error)                     {}

var (
	_ PipelineHooks = Noop{}
	_ CacheHooks    = Noop{}
	_ HTTPHooks     = Noop{}
)

// registry is replaced as a whole on every change so readers never lock.
type registry struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}

var current atomic.Pointer[registry]

func init() { Reset() }

func update(change func(r *registry)) {
	for {
		old := current.Load()
		next := *old
		change(&next)
		if current.CompareAndSwap(old, &next) {
			return
		}
	}
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *registry) { r.pipeline = h })
	}
}

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *registry) { r.cache = h })
	}
}

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *registry) { r.http = h })
	}
}

// Pipeline, Cache and HTTP return the installed hooks of each kind.
func Pipeline() PipelineHooks { return current.Load().pipeline }
func Cache() CacheHooks       { return current.Load().cache }
func HTTP() HTTPHooks         { return current.Load().http }

// Reset puts [Noop] back in place of every installed hook.
func Reset() {
	current.Store(&registry{pipeline: Noop{}, cache: Noop{}, http: Noop{}})
}
