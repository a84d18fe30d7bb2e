// Package cli implements the etymograph command-line interface.
//
// The CLI builds a term forest from a relation CSV, stores it, and offers
// commands to browse, analyse, export and serve it. Commands are built on
// cobra; settings come from pkg/config (file, environment, flags).
//
// # Commands
//
//   - build: Assemble the forest from a relation CSV and save it
//   - show: Print a term's ancestry tree
//   - export: Write JSON, Graphviz (DOT/SVG) or Gephi tables
//   - stats: Term counts per language and most frequent ancestors
//   - chain: Words connected through shared ancestors
//   - serve: HTTP API with Prometheus metrics
//   - cache: Manage the build cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/etymograph/pkg/pipeline"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
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

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Build complete (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logBuild logs the stage timings and counters of a build at info level and
// every heuristically assembled term at debug level.
func logBuild(l *log.Logger, res *pipeline.Result) {
	st := res.Stats
	l.Info("build stats",
		"rows", st.Rows,
		"groups", st.Groups,
		"terms", st.Terms,
		"ignored", st.Ignored,
		"skipped", st.Skipped(),
		"grafted", st.Graft.Grafted,
		"dangling", st.Graft.Dangling,
		"cached", res.CacheHit,
	)
	l.Debug("build timings", "load", st.LoadTime, "assemble", st.AssembleTime, "graft", st.GraftTime)
	for _, d := range res.Diagnostics {
		l.Debug("heuristic assembly", "id", d.TermID, "term", d.Term, "lang", d.Lang, "ambiguity", d.Ambiguity)
	}
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
