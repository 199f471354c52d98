// Package debug provides category-based debug logging for authgate.
//
// Two orthogonal controls:
//   - Categories (WHAT to debug): controlled via AUTHGATE_DEBUG env or config
//   - Levels (HOW MUCH detail): controlled via AUTHGATE_LOG_LEVEL env or config
//
// Usage:
//
//	debug.Log("session", "created", "session", debug.Redact(sid))
//	if debug.Enabled("auth") { /* expensive formatting */ }
//
// Categories: auth, session, storage, transport, config, all.
// Levels: ERROR, WARN, INFO, DEBUG, TRACE.
package debug

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelTrace is below slog.LevelDebug for maximum verbosity.
const LevelTrace = slog.LevelDebug - 4

// categories holds the set of enabled debug categories.
// Read-only after Init.
var categories map[string]bool

func init() {
	categories = parseCategories(os.Getenv("AUTHGATE_DEBUG"))
}

// Init configures the debug system and installs the default slog logger.
// Environment overrides config. format is "text" (default) or "json".
// Attributes named in redact are masked in every log record.
func Init(configCategories, configLevel, format string, redact ...string) {
	cats := os.Getenv("AUTHGATE_DEBUG")
	if cats == "" {
		cats = configCategories
	}
	categories = parseCategories(cats)

	level := os.Getenv("AUTHGATE_LOG_LEVEL")
	if level == "" {
		level = configLevel
	}

	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, ParseLevel(level), redact...)))
}

// RedactedValue replaces the value of masked attributes.
const RedactedValue = "***"

// NewHandler returns a text or JSON slog handler writing to w. Attribute
// keys listed in redact (case-insensitive, at any group depth) are
// written as RedactedValue.
func NewHandler(w io.Writer, format string, level slog.Level, redact ...string) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if masked := parseCategories(strings.Join(redact, ",")); len(masked) > 0 {
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if masked[strings.ToLower(a.Key)] {
				return slog.String(a.Key, RedactedValue)
			}
			return a
		}
	}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Enabled reports whether debug output is active for the given category.
func Enabled(category string) bool {
	return categories["all"] || categories[category]
}

// Log emits a debug message for the given category.
// If the category is not enabled, this is a no-op.
func Log(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Debug(msg, append([]any{"debug", category}, args...)...)
}

// Trace emits a trace-level message for the given category.
// Only visible when AUTHGATE_LOG_LEVEL=TRACE.
func Trace(category string, msg string, args ...any) {
	if !Enabled(category) {
		return
	}
	slog.Log(nil, LevelTrace, msg, append([]any{"debug", category}, args...)...)
}

// ParseLevel converts a level string to a slog.Level.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return slog.LevelDebug
	case "INFO", "":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Categories returns the list of enabled categories.
func Categories() []string {
	var result []string
	for k := range categories {
		result = append(result, k)
	}
	return result
}

// Redact shortens a secret (session id, reset token) to a prefix that is
// still useful for correlating log lines.
func Redact(secret string) string {
	const keep = 6
	if len(secret) <= keep {
		return strings.Repeat("*", len(secret))
	}
	return secret[:keep] + "..."
}

func parseCategories(s string) map[string]bool {
	m := make(map[string]bool)
	if s == "" {
		return m
	}
	for _, cat := range strings.Split(s, ",") {
		cat = strings.TrimSpace(strings.ToLower(cat))
		if cat != "" {
			m[cat] = true
		}
	}
	return m
}
