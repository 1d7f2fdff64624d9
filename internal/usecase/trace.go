package usecase

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("fc24pred/internal/usecase")

// startUsecaseSpan opens a child span tagged with attrs. Calls outside a
// traced request, such as console commands, stay untraced.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, parent
	}
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func matchupAttributes(team1, team2 string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("fc24pred.team1", team1),
		attribute.String("fc24pred.team2", team2),
	}
}
