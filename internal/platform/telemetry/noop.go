package telemetry

import (
	"context"

	portssvc "github.com/shinseihub/approval_workflow_app/internal/core/ports/services"
)

// NoopRecorder drops every event. Useful in tests and when telemetry is off.
type NoopRecorder struct{}

// Ensure NoopRecorder implements the portssvc.TelemetryRecorder interface
var _ portssvc.TelemetryRecorder = (*NoopRecorder)(nil)

func (NoopRecorder) RecordEvent(ctx context.Context, userID string, event string, properties map[string]any) {
}

func (NoopRecorder) RecordMetric(ctx context.Context, name string, value float64, properties map[string]any) {
}

func (NoopRecorder) NoticeError(ctx context.Context, operation string, err error) {}
