package database

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/wishlist/pkg/logger"
)

const tracerName = "github.com/ghuser/wishlist/pkg/database"

type queryTracer struct {
	log           logger.Logger
	slowThreshold time.Duration
	now           func() time.Time
}

func (t *queryTracer) clock() time.Time {
	if t.now != nil {
		return t.now()
	}
	return time.Now()
}

func (t *queryTracer) start(ctx context.Context, operation, statement string) (context.Context, func(error)) {
	start := t.clock()
	ctx, span := otel.Tracer(tracerName).Start(ctx, "db."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.operation", operation),
			attribute.String("db.statement", statement),
		),
	)

	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if t.slowThreshold <= 0 || t.log == nil {
			return
		}
		if elapsed := t.clock().Sub(start); elapsed >= t.slowThreshold {
			args := []any{
				"operation", operation,
				"statement", statement,
				"duration", elapsed,
			}
			if err != nil {
				args = append(args, "error", err)
			}
			t.log.WarnContext(ctx, "slow query detected", args...)
		}
	}
}
