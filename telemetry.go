package ygggo_dbal

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName    = "github.com/yggai/ygggo_dbal"
	instrumentationVersion = "v0.1.0"
)

var tracer = otel.Tracer(instrumentationName, trace.WithInstrumentationVersion(instrumentationVersion))

// EnableTelemetry enables or disables OpenTelemetry tracing for this
// session's lifecycle operations.
func (s *Session) EnableTelemetry(enabled bool) {
	if s == nil {
		return
	}
	s.telemetryEnabled = enabled
}

// startSpan creates a span with common database attributes.
func (s *Session) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	if s == nil || !s.telemetryEnabled {
		return ctx, trace.SpanFromContext(ctx)
	}
	ctx, span := tracer.Start(ctx, "ygggo_dbal."+operation)
	span.SetAttributes(
		attribute.String("db.system", s.cfg.Test.Driver),
		attribute.String("db.operation", operation),
	)
	return ctx, span
}

// finishSpan completes a span, recording any error.
func (s *Session) finishSpan(span trace.Span, err error) {
	if s == nil || !s.telemetryEnabled {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
