package logging

import (
	"context"
	"log/slog"

	"easel/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldAsset is the standardized structured logging key for asset stems.
	FieldAsset = "asset"
	// FieldStep is the standardized structured logging key for chain step indexes.
	FieldStep = "step"
	// FieldProfile is the standardized structured logging key for pipeline profile names.
	FieldProfile = "profile"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 4)
	if asset, ok := services.AssetFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldAsset, asset))
	}
	if step, ok := services.StepFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldStep, step))
	}
	if profile, ok := services.ProfileFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldProfile, profile))
	}
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}
