package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextProviderKey ctxKey = "provider"

func ProviderFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if provider, ok := ctx.Value(ContextProviderKey).(string); ok {
		return provider
	}
	return ""
}

func ContextWithProvider(ctx context.Context, provider string) context.Context {
	return context.WithValue(ctx, ContextProviderKey, provider)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
