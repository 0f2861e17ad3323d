// Package debug provides category-scoped debug logging on top of log/slog.
//
// Categories select which subsystems emit debug output (VENDORCHAT_DEBUG),
// the level selects how much detail is printed (VENDORCHAT_LOG_LEVEL).
//
//	debug.Log(debug.Providers, "vendor request", "url", url)
//	if debug.TraceEnabled(debug.Providers) { debug.Raw(debug.Providers, body) }
//
// At TRACE level full vendor request and response bodies are printed.
package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync/atomic"
)

// Known categories.
const (
	Providers = "providers"
	Transport = "transport"
	Config    = "config"
	Auth      = "auth"
	Storage   = "storage"
	All       = "all"
)

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.LevelDebug - 4

var (
	enabled atomic.Pointer[map[string]bool]
	rawOut  io.Writer = os.Stderr
)

func init() {
	setCategories(os.Getenv("VENDORCHAT_DEBUG"))
}

// Init installs the process-wide slog handler and enables debug
// categories. Environment variables win over the configured values.
// format is "text" (default) or "json".
func Init(configCategories, configLevel, format string) {
	cats := os.Getenv("VENDORCHAT_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	setCategories(cats)

	level := os.Getenv("VENDORCHAT_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, ParseLevel(level))))
}

// NewHandler builds the slog handler used by the server.
func NewHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && a.Value.Any() == LevelTrace {
				a.Value = slog.StringValue("TRACE")
			}
			return a
		},
	}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Enabled reports whether category is switched on.
func Enabled(category string) bool {
	m := *enabled.Load()
	return m[All] || m[category]
}

// Log emits a DEBUG record tagged with category. No-op when the category
// is disabled.
func Log(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a TRACE record tagged with category.
func Trace(category, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(context.Background(), LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// TraceEnabled reports whether category is on and the logger accepts TRACE.
func TraceEnabled(category string) bool {
	return Enabled(category) && slog.Default().Enabled(context.Background(), LevelTrace)
}

// Raw prints text unformatted so bodies can be copied verbatim. Only
// emitted at TRACE.
func Raw(category, text string) {
	if !TraceEnabled(category) {
		return
	}
	fmt.Fprintln(rawOut, text)
}

// ParseLevel maps a level name to a slog.Level. Unknown names yield INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the enabled categories, sorted.
func Categories() []string {
	m := *enabled.Load()
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Truncate shortens s to at most maxLen bytes, marking the cut with "...".
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

func setCategories(s string) {
	m := parseCategories(s)
	enabled.Store(&m)
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	for _, cat := range strings.Split(s, ",") {
		cat = strings.ToLower(strings.TrimSpace(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
