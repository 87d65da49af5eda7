// Package log provides the slog setup shared by the riskmirror commands.
package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mask replaces redacted attribute values.
const Mask = "***REDACTED***"

// secretKeys are attribute keys whose values are never logged.
var secretKeys = map[string]bool{
	"api_key":           true,
	"apikey":            true,
	"x-api-key":         true,
	"authorization":     true,
	"password":          true,
	"secret":            true,
	"connection_string": true,
	"account_key":       true,
	"sas":               true,
}

// secretValues match values that look like credentials regardless of key.
var secretValues = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^bearer\s+.+`),
	regexp.MustCompile(`(?i)AccountKey=[^;]+`),
	regexp.MustCompile(`(?i)[?&]sig=[^&]+`),
	regexp.MustCompile(`^sk-[A-Za-z0-9_-]{16,}$`),
}

// RedactHandler wraps a slog.Handler and masks credential-bearing
// attributes before they reach it.
type RedactHandler struct {
	handler slog.Handler
}

// NewRedactHandler wraps h. A nil h wraps the default handler.
func NewRedactHandler(h slog.Handler) *RedactHandler {
	if h == nil {
		h = slog.Default().Handler()
	}
	return &RedactHandler{handler: h}
}

func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(clean)}
}

func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = redact(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}
	if secretKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Mask)
	}
	if a.Value.Kind() == slog.KindString && looksSecret(a.Value.String()) {
		return slog.String(a.Key, Mask)
	}
	return a
}

func looksSecret(v string) bool {
	for _, re := range secretValues {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level,
// defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// New returns a JSON logger writing to w with redaction applied.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewRedactHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}
