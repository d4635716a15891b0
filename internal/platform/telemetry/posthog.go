// Package telemetry records product analytics events. Recording is fire and
// forget: failures are logged and never surface to the caller.
package telemetry

import (
	"context"
	"log/slog"

	"github.com/posthog/posthog-go"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
)

// PosthogRecorder sends events to PostHog. When no API key is configured the
// recorder stays uninitialized and every call is a no-op.
type PosthogRecorder struct {
	client posthog.Client
	logger *slog.Logger
}

// NewPosthogRecorder creates a recorder for the given API key. An empty key
// yields a recorder that drops everything.
func NewPosthogRecorder(apiKey string, logger *slog.Logger) *PosthogRecorder {
	if apiKey == "" {
		logger.Warn("PostHog API key is empty, telemetry disabled")
		return &PosthogRecorder{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize PostHog client, telemetry disabled", slog.String("error", err.Error()))
		return &PosthogRecorder{logger: logger}
	}
	return &PosthogRecorder{client: client, logger: logger}
}

// Ensure PosthogRecorder implements the portssvc.TelemetryRecorder interface
var _ portssvc.TelemetryRecorder = (*PosthogRecorder)(nil)

// RecordEvent captures a named event with optional properties.
func (r *PosthogRecorder) RecordEvent(ctx context.Context, userID string, event string, properties map[string]any) {
	if r.client == nil {
		return
	}
	if err := r.client.Enqueue(posthog.Capture{
		DistinctId: userID,
		Event:      event,
		Properties: properties,
	}); err != nil {
		r.logger.Warn("Failed to enqueue telemetry event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

// RecordMetric captures a numeric measurement as an event property.
func (r *PosthogRecorder) RecordMetric(ctx context.Context, name string, value float64, properties map[string]any) {
	if r.client == nil {
		return
	}
	if properties == nil {
		properties = make(map[string]any)
	}
	properties["value"] = value
	if err := r.client.Enqueue(posthog.Capture{
		DistinctId: "system",
		Event:      name,
		Properties: properties,
	}); err != nil {
		r.logger.Warn("Failed to enqueue telemetry metric", slog.String("metric", name), slog.String("error", err.Error()))
	}
}

// NoticeError reports an unexpected error encountered during an operation.
func (r *PosthogRecorder) NoticeError(ctx context.Context, operation string, err error) {
	if r.client == nil || err == nil {
		return
	}
	if enqueueErr := r.client.Enqueue(posthog.Capture{
		DistinctId: "system",
		Event:      "operation_error",
		Properties: map[string]any{
			"operation": operation,
			"error":     err.Error(),
		},
	}); enqueueErr != nil {
		r.logger.Warn("Failed to enqueue error event", slog.String("operation", operation), slog.String("error", enqueueErr.Error()))
	}
}

// Close flushes and shuts down the underlying client.
func (r *PosthogRecorder) Close() {
	if r.client == nil {
		return
	}
	r.client.Close()
}
