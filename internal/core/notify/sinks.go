package notify

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// LogSink writes notifications to a zap logger, errors at warn level.
func LogSink(logger *zap.Logger) Sink {
	return SinkFunc(func(n Notification) {
		fields := []zap.Field{
			zap.String("kind", string(n.Kind)),
			zap.String("text", n.Text),
		}
		if n.Kind == KindError {
			logger.Warn("notification", fields...)
			return
		}
		logger.Info("notification", fields...)
	})
}

// TraceSink records each notification as a span.
type TraceSink struct {
	tracer trace.Tracer
}

// NewTraceSink creates a sink on tracer.
func NewTraceSink(tracer trace.Tracer) *TraceSink {
	return &TraceSink{tracer: tracer}
}

// Deliver implements Sink.
func (t *TraceSink) Deliver(n Notification) {
	_, span := t.tracer.Start(context.Background(), "notification."+string(n.Kind))
	defer span.End()

	span.SetAttributes(
		attribute.String("notification.kind", string(n.Kind)),
		attribute.String("notification.text", n.Text),
	)
	if n.Kind == KindError {
		span.SetStatus(codes.Error, n.Text)
	}
}
