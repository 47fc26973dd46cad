package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bestof/pkg/observability"
)

// logHooks routes observability events to the debug log.
type logHooks struct {
	logger *log.Logger
}

// registerLogHooks installs logHooks for pipeline, cache and HTTP events.
func registerLogHooks(logger *log.Logger) {
	h := logHooks{logger: logger}
	observability.Register(observability.Hooks{Pipeline: h, Cache: h, HTTP: h})
}

func (h logHooks) OnEnrichStart(_ context.Context, project string) {
	h.logger.Debug("enrich start", "project", project)
}

func (h logHooks) OnEnrichComplete(_ context.Context, project string, failures int, d time.Duration) {
	h.logger.Debug("enrich done", "project", project, "failures", failures, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnRenderStart(_ context.Context, output string) {
	h.logger.Debug("render start", "output", output)
}

func (h logHooks) OnRenderComplete(_ context.Context, output string, bytes int, d time.Duration, err error) {
	h.logger.Debug("render done", "output", output, "bytes", bytes, "duration", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h logHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "namespace", namespace)
}

func (h logHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache set", "namespace", namespace, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http error", "method", method, "host", host, "path", path, "err", err)
}
