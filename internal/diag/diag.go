// Package diag is the diagnostic sink used by the loaders. Library code
// reports leveled messages through a Reporter instead of writing to the
// console, so callers choose where diagnostics go and tests can inspect them.
package diag

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Reporter accepts leveled diagnostic messages with slog-style key/value args.
type Reporter interface {
	Report(level slog.Level, msg string, args ...any)
}

// SlogReporter forwards diagnostics to a slog.Logger.
type SlogReporter struct {
	log *slog.Logger
}

func NewSlogReporter(log *slog.Logger) *SlogReporter {
	return &SlogReporter{log: log}
}

func (r *SlogReporter) Report(level slog.Level, msg string, args ...any) {
	r.log.Log(context.Background(), level, msg, args...)
}

type tagged struct {
	base Reporter
	args []any
}

func (t tagged) Report(level slog.Level, msg string, args ...any) {
	all := make([]any, 0, len(t.args)+len(args))
	all = append(all, t.args...)
	all = append(all, args...)
	t.base.Report(level, msg, all...)
}

// With returns a reporter that prepends args to every message sent to r.
func With(r Reporter, args ...any) Reporter {
	return tagged{base: r, args: args}
}

type discard struct{}

func (discard) Report(slog.Level, string, ...any) {}

// Discard drops every diagnostic.
var Discard Reporter = discard{}

// Entry is one recorded diagnostic.
type Entry struct {
	Level   slog.Level
	Message string
	Args    []any
}

// Attr returns the value recorded for key, if any.
func (e Entry) Attr(key string) (any, bool) {
	for i := 0; i+1 < len(e.Args); i += 2 {
		if k, ok := e.Args[i].(string); ok && k == key {
			return e.Args[i+1], true
		}
	}
	return nil, false
}

// Recorder keeps diagnostics in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) Report(level slog.Level, msg string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Message: msg, Args: append([]any(nil), args...)})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many entries were recorded at level.
func (r *Recorder) Count(level slog.Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// NewLogger builds the JSON slog logger used by the binaries.
func NewLogger(level string, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	})
	return slog.New(handler).With("service", "pharmadocs")
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
