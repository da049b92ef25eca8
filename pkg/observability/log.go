package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug log line. Failures are logged at
// warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log through l for both categories.
func NewLogHooks(l *log.Logger) Hooks {
	h := &LogHooks{Logger: l}
	return Hooks{Document: h, Store: h}
}

func (h *LogHooks) OnLoad(_ context.Context, nodes, links int, d time.Duration, err error) {
	h.report("load", err, "nodes", nodes, "links", links, "took", round(d))
}

func (h *LogHooks) OnMerge(_ context.Context, nodes, links int, d time.Duration, err error) {
	h.report("merge", err, "nodes", nodes, "links", links, "took", round(d))
}

func (h *LogHooks) OnSave(_ context.Context, size int, d time.Duration, err error) {
	h.report("save", err, "bytes", size, "took", round(d))
}

func (h *LogHooks) OnSearch(_ context.Context, results int, d time.Duration) {
	h.report("search", nil, "results", results, "took", round(d))
}

func (h *LogHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	h.report("store "+op, err, "backend", backend, "took", round(d))
}

func (h *LogHooks) report(msg string, err error, keyvals ...any) {
	if err != nil {
		h.Logger.Warn(msg, append(keyvals, "err", err)...)
		return
	}
	h.Logger.Debug(msg, keyvals...)
}

func round(d time.Duration) time.Duration {
	return d.Round(time.Microsecond)
}

var (
	_ DocumentHooks = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
)
