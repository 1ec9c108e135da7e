package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/zap"

	"github.com/mufashe/mufashe-api/internal/config"
)

func TestNewWithoutEndpointDropsSpans(t *testing.T) {
	provider, err := New(context.Background(), config.Config{ServiceName: "mufashe-api"}, zap.NewNop())
	require.NoError(t, err)

	_, span := provider.Tracer("test").Start(context.Background(), "noop")
	require.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestNilProviderFallsBackToGlobal(t *testing.T) {
	var provider *Provider
	require.NotNil(t, provider.TracerProvider())
	require.NotNil(t, provider.Tracer("test"))
	require.NoError(t, provider.Shutdown(context.Background()))
}

func TestResourceCarriesEnvironment(t *testing.T) {
	res, err := newResource(context.Background(), config.Config{ServiceName: "mufashe-api", Environment: "staging"})
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	require.Equal(t, "mufashe-api", attrs[string(semconv.ServiceNameKey)])
	require.Equal(t, "staging", attrs[string(semconv.DeploymentEnvironmentKey)])
}

func TestSamplerRatio(t *testing.T) {
	require.Contains(t, newSampler(1).Description(), "AlwaysOnSampler")
	require.Contains(t, newSampler(0).Description(), "AlwaysOffSampler")
	require.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased{0.25}")
}
