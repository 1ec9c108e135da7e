package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/telemetry"
)

const tracerName = "github.com/mufashe/mufashe-api/internal/service"

// instrumentation carries the logger and tracer shared by the services.
type instrumentation struct {
	logger *zap.Logger
	tracer trace.Tracer
}

func newInstrumentation(logger *zap.Logger, tracing *telemetry.Provider) instrumentation {
	return instrumentation{logger: logger, tracer: tracing.Tracer(tracerName)}
}

func (i instrumentation) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if i.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return i.tracer.Start(ctx, name)
}

func (i instrumentation) audit(event string, attrs ...any) {
	fields := make([]zap.Field, 0, len(attrs)/2+2)
	fields = append(fields, zap.String("event", event), zap.Time("timestamp", time.Now().UTC()))
	for j := 0; j+1 < len(attrs); j += 2 {
		key, ok := attrs[j].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(key, attrs[j+1]))
	}
	i.log().Info("audit", fields...)
}

func (i instrumentation) log() *zap.Logger {
	if i.logger != nil {
		return i.logger
	}
	return zap.L()
}
