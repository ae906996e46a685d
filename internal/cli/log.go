package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/spiderweb/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created,
// rounded to the millisecond: "Rendered 25 frames (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability
// =============================================================================

// logHooks reports pipeline, cache and server events to a logger at debug
// level.
type logHooks struct {
	logger *log.Logger
}

func installHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetServerHooks(h)
}

func (h *logHooks) OnSynthesizeStart(_ context.Context, fingerprint string) {
	h.logger.Debug("synthesizing", "fingerprint", fingerprint)
}

func (h *logHooks) OnSynthesizeComplete(_ context.Context, fingerprint string, vertices int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("synthesis failed", "fingerprint", fingerprint, "err", err)
		return
	}
	h.logger.Debug("synthesized", "fingerprint", fingerprint, "vertices", vertices, "duration", d)
}

func (h *logHooks) OnAnimateStart(_ context.Context, behavior string, frames int) {
	h.logger.Debug("animating", "behavior", behavior, "frames", frames)
}

func (h *logHooks) OnAnimateComplete(_ context.Context, behavior string, frames int, d time.Duration, err error) {
	h.logger.Debug("animated", "behavior", behavior, "frames", frames, "duration", d, "err", err)
}

func (h *logHooks) OnRenderStart(context.Context, []string) {}

func (h *logHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("rendered", "formats", formats, "duration", d, "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *logHooks) OnRequest(context.Context, string, string) {}

func (h *logHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("request", "method", method, "route", route, "status", status, "duration", d)
}
