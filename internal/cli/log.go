// Package cli implements the graphit command-line interface.
//
// The commands work on graph editor documents, either as files (JSON or
// YAML, chosen by extension) or in the configured document store. The CLI
// is built using cobra and logs via the charmbracelet/log library.
//
// # Commands
//
//   - validate, info: check documents and summarize them
//   - merge: merge an incoming document into a base document
//   - search: rank node labels against a query, optionally interactively
//   - import, watch: build documents from node and link CSV files
//   - export: write JSON, YAML, DOT, SVG, PDF or PNG
//   - store: put, get, list, merge, search and delete stored documents
//   - serve: run the HTTP API
//   - config: show the resolved configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// reports document and store operations through log-backed hooks. Loggers
// are passed through context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with timestamps such as
// "14:32:01.45".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took. Not safe for concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs the formatted message with the elapsed time rounded to the
// millisecond, e.g. "Merged 42 nodes (12ms)".
func (p *progress) done(format string, args ...any) {
	p.logger.Infof("%s (%s)", fmt.Sprintf(format, args...), time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by the root command, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
