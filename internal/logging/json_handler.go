package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// scopeKeys are written first, once each, so a line's list and row can be
// read without scanning the rest of the object.
var scopeKeys = []string{FieldComponent, FieldListID, FieldRowRank, FieldCorrelationID}

func isScopeKey(key string) bool { return slices.Contains(scopeKeys, key) }

// jsonHandler wraps slog's JSON handler. Scope fields bound through With are
// held back and merged with the record's own, the record winning, so a
// logger carrying list_id from both its component and its context emits the
// key once.
type jsonHandler struct {
	inner   slog.Handler
	scope   []slog.Attr
	grouped bool
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) (slog.Handler, error) {
	opts := slog.HandlerOptions{
		Level:       lvl,
		AddSource:   addSource,
		ReplaceAttr: jsonReplaceAttr,
	}
	return &jsonHandler{inner: slog.NewJSONHandler(w, &opts)}, nil
}

func jsonReplaceAttr(groups []string, attr slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return attr
	}
	switch attr.Key {
	case slog.TimeKey:
		attr.Key = "ts"
		if attr.Value.Kind() == slog.KindTime {
			attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
		}
	case slog.LevelKey:
		attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
	case slog.SourceKey:
		if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
			attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
		}
	}
	return attr
}

func (h *jsonHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *jsonHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.grouped {
		return h.inner.Handle(ctx, record)
	}

	scope := make(map[string]slog.Value, len(scopeKeys))
	for _, attr := range h.scope {
		scope[attr.Key] = attr.Value
	}
	rest := make([]slog.Attr, 0, record.NumAttrs())
	record.Attrs(func(attr slog.Attr) bool {
		if isScopeKey(attr.Key) {
			scope[attr.Key] = attr.Value
			return true
		}
		rest = append(rest, attr)
		return true
	})

	out := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	for _, key := range scopeKeys {
		if v, ok := scope[key]; ok {
			out.AddAttrs(slog.Attr{Key: key, Value: v})
		}
	}
	out.AddAttrs(rest...)
	return h.inner.Handle(ctx, out)
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	if h.grouped {
		clone.inner = h.inner.WithAttrs(attrs)
		return &clone
	}
	var passthrough []slog.Attr
	clone.scope = append([]slog.Attr(nil), h.scope...)
	for _, attr := range attrs {
		if isScopeKey(attr.Key) {
			clone.scope = append(clone.scope, attr)
			continue
		}
		passthrough = append(passthrough, attr)
	}
	if len(passthrough) > 0 {
		clone.inner = h.inner.WithAttrs(passthrough)
	}
	return &clone
}

// WithGroup flushes held scope fields to the inner handler so they stay at
// the top level.
func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	inner := h.inner
	if !h.grouped && len(h.scope) > 0 {
		inner = inner.WithAttrs(h.scope)
	}
	return &jsonHandler{inner: inner.WithGroup(name), grouped: true}
}
