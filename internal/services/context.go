package services

import "context"

type contextKey string

const (
	assetKey     contextKey = "asset"
	stepKey      contextKey = "step"
	profileKey   contextKey = "profile"
	requestIDKey contextKey = "request_id"
)

// WithAsset annotates context with the asset stem being processed.
func WithAsset(ctx context.Context, asset string) context.Context {
	if asset == "" {
		return ctx
	}
	return context.WithValue(ctx, assetKey, asset)
}

// AssetFromContext returns the asset stem if present.
func AssetFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(assetKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStep annotates context with the 1-based chain step index.
func WithStep(ctx context.Context, step int) context.Context {
	if step <= 0 {
		return ctx
	}
	return context.WithValue(ctx, stepKey, step)
}

// StepFromContext returns the chain step index if present.
func StepFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(stepKey).(int); ok && v > 0 {
		return v, true
	}
	return 0, false
}

// WithProfile annotates context with the workflow profile name.
func WithProfile(ctx context.Context, profile string) context.Context {
	if profile == "" {
		return ctx
	}
	return context.WithValue(ctx, profileKey, profile)
}

// ProfileFromContext returns the profile name if present.
func ProfileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(profileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
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
