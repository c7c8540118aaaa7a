// Package wrapper holds UserAction decorators shared by all transports.
package wrapper

import (
	"context"

	"github.com/rise-and-shine/popreg/ucdef"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "ucdef/user_action"

type tracingAction[I, O any] struct {
	tracer trace.Tracer
	next   ucdef.UserAction[I, O]
}

// NewTracing starts a span named after the operation id around every execution.
func NewTracing[I, O any]() ucdef.WrapFunc[I, O] {
	return func(next ucdef.UserAction[I, O]) ucdef.UserAction[I, O] {
		return &tracingAction[I, O]{tracer: otel.Tracer(tracerName), next: next}
	}
}

func (t *tracingAction[I, O]) OperationID() string { return t.next.OperationID() }

func (t *tracingAction[I, O]) Execute(ctx context.Context, in I) (O, error) {
	ctx, span := t.tracer.Start(ctx, t.next.OperationID(),
		trace.WithAttributes(attribute.String("operation_id", t.next.OperationID())))
	defer span.End()

	out, err := t.next.Execute(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}

	return out, err
}
