package logging

import (
	"context"
	"log/slog"
	"strings"
)

const keepCharacters = 7

var sensitiveKeys = map[string]struct{}{
	"token":         {},
	"accesstoken":   {},
	"authtoken":     {},
	"password":      {},
	"authorization": {},
}

// SanitizingLoggerHandler masks credentials before they reach the wrapped handler.
type SanitizingLoggerHandler struct {
	next slog.Handler
}

func NewSanitizingLoggerHandler(next slog.Handler) *SanitizingLoggerHandler {
	return &SanitizingLoggerHandler{next: next}
}

func (h *SanitizingLoggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingLoggerHandler) Handle(ctx context.Context, record slog.Record) error {
	sanitized := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		sanitized.AddAttrs(sanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, sanitized)
}

func (h *SanitizingLoggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitized := make([]slog.Attr, 0, len(attrs))
	for _, attr := range attrs {
		sanitized = append(sanitized, sanitizeAttr(attr))
	}
	return &SanitizingLoggerHandler{next: h.next.WithAttrs(sanitized)}
}

func (h *SanitizingLoggerHandler) WithGroup(name string) slog.Handler {
	return &SanitizingLoggerHandler{next: h.next.WithGroup(name)}
}

func sanitizeAttr(attr slog.Attr) slog.Attr {
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		group := value.Group()
		sanitized := make([]any, 0, len(group))
		for _, a := range group {
			sanitized = append(sanitized, sanitizeAttr(a))
		}
		return slog.Group(attr.Key, sanitized...)
	}
	if _, ok := sensitiveKeys[strings.ToLower(attr.Key)]; ok {
		return slog.String(attr.Key, KeepFirstNCharacters(value.String(), keepCharacters))
	}
	return slog.Attr{Key: attr.Key, Value: value}
}

// KeepFirstNCharacters replaces everything after the first n characters with "***".
func KeepFirstNCharacters(s string, n int) string {
	if s == "" {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:n]) + "***"
}
