package core

import "context"

// Context keys for scoring options
type contextKey string

const suppressProgressKey contextKey = "suppressProgress"

// WithSuppressProgress marks ctx so that scoring runs print no progress lines.
func WithSuppressProgress(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressProgressKey, true)
}

// shouldSuppressProgress returns whether progress lines should be suppressed from context
func shouldSuppressProgress(ctx context.Context) bool {
	val := ctx.Value(suppressProgressKey)
	if val == nil {
		return false // default: show progress
	}
	suppress, ok := val.(bool)
	return ok && suppress
}
