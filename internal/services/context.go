package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	rootKey  contextKey = "root"
)

// WithRunID annotates context with the organize run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRoot annotates context with the directory being organized.
func WithRoot(ctx context.Context, root string) context.Context {
	if root == "" {
		return ctx
	}
	return context.WithValue(ctx, rootKey, root)
}

// RootFromContext returns the organize root if present.
func RootFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(rootKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
