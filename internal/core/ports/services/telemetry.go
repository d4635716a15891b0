package services

import (
	"context"
)

// TelemetryRecorder records product analytics events and metrics.
// Implementations are fire and forget: recording failures are swallowed and
// never surface to the caller.
type TelemetryRecorder interface {
	// RecordEvent captures a named event with optional properties.
	RecordEvent(ctx context.Context, userID string, event string, properties map[string]any)

	// RecordMetric captures a numeric measurement.
	RecordMetric(ctx context.Context, name string, value float64, properties map[string]any)

	// NoticeError reports an unexpected error encountered during an operation.
	NoticeError(ctx context.Context, operation string, err error)
}
