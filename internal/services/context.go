package services

import "context"

type contextKey string

const (
	listIDKey    contextKey = "list_id"
	rowRankKey   contextKey = "row_rank"
	requestIDKey contextKey = "request_id"
)

// WithListID annotates context with the movie list being imported.
func WithListID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, listIDKey, id)
}

// ListIDFromContext returns the list identifier if present.
func ListIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(listIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRowRank annotates context with the rank of the CSV row being resolved.
func WithRowRank(ctx context.Context, rank int) context.Context {
	return context.WithValue(ctx, rowRankKey, rank)
}

// RowRankFromContext extracts the row rank if present.
func RowRankFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(rowRankKey).(int)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
