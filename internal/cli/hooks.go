package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/qmkwire/pkg/observability"
)

// logHooks reports cache and HTTP activity at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, statusCode int, duration time.Duration) {
	h.logger.Debug("http response", "status", statusCode, "path", path, "duration", duration.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

// registerHooks routes library events to the CLI logger.
func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
