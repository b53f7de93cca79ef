package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/codemeta/pkg/observability"
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

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Generated codemeta.json (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// =============================================================================
// Observability hooks
// =============================================================================

// logHooks forwards library events to the logger. Fetches and cache traffic
// are logged at debug level; bulk item results at info or warn.
type logHooks struct {
	logger *log.Logger
}

func installLogHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetSourceHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	observability.SetBulkHooks(h)
}

func (h logHooks) OnFetchStart(_ context.Context, host, repo string) {
	h.logger.Debug("fetching repository", "host", host, "repo", repo)
}

func (h logHooks) OnFetchComplete(_ context.Context, host, repo string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("fetch failed", "host", host, "repo", repo, "error", err)
		return
	}
	h.logger.Debug("fetched repository", "host", host, "repo", repo, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(context.Context, string, int) {}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "host", host, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "error", err)
}

func (h logHooks) OnRunStart(_ context.Context, runID string, total int) {
	h.logger.Debug("bulk run started", "run", runID, "items", total)
}

func (h logHooks) OnItemStart(_ context.Context, _, itemID string) {
	h.logger.Debug("processing", "item", itemID)
}

func (h logHooks) OnItemComplete(_ context.Context, _, itemID, status string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("item "+status, "item", itemID, "error", err)
		return
	}
	h.logger.Info("item "+status, "item", itemID, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnRunComplete(_ context.Context, runID string, d time.Duration) {
	h.logger.Debug("bulk run finished", "run", runID, "duration", d.Round(time.Millisecond))
}

var (
	_ observability.BulkHooks   = logHooks{}
	_ observability.SourceHooks = logHooks{}
	_ observability.CacheHooks  = logHooks{}
	_ observability.HTTPHooks   = logHooks{}
)
