package observability

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"portfolio/internal/models"
	"portfolio/internal/storage"
	"portfolio/internal/version"
)

func setupTestProvider(t *testing.T) *Provider {
	t.Helper()
	metrics := models.MetricsConfig{Enabled: true, Path: "/metrics", Port: 9090}
	obs := models.ObservabilityConfig{
		ServiceName: "test",
		Tracing: models.TracingConfig{
			Enabled:    true,
			Exporter:   "stdout",
			SampleRate: 1.0,
		},
	}
	provider, err := Setup(metrics, obs, version.Info{})
	require.NoError(t, err)
	t.Cleanup(func() { provider.Shutdown(context.Background()) })
	return provider
}

func setupMemoryStorage(t *testing.T) storage.Storage {
	t.Helper()
	s, err := storage.NewMemoryStorage(storage.Config{Type: "memory"})
	require.NoError(t, err)
	return s
}

func TestNewInstrumentedStorage(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)
	assert.NotNil(t, instrumented)
}

func TestInstrumentedStorage_Ping(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)

	err = instrumented.Ping(context.Background())
	assert.NoError(t, err)
}

func TestInstrumentedStorage_LeaderboardOperations(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)

	ctx := context.Background()

	updated, err := instrumented.SubmitScore(ctx, "alice", 100)
	assert.NoError(t, err)
	assert.True(t, updated)

	scores, err := instrumented.TopScores(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, scores, 1)
}

func TestInstrumentedStorage_LikesOperations(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)

	ctx := context.Background()

	count, err := instrumented.IncrementLikes(ctx, "project-snake")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = instrumented.LikeCount(ctx, "project-snake")
	assert.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestInstrumentedStorage_Close(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)

	err = instrumented.Close()
	assert.NoError(t, err)
}

func TestInstrumentedStorage_ImplementsInterface(t *testing.T) {
	_ = setupTestProvider(t)
	inner := setupMemoryStorage(t)

	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)

	var _ storage.Storage = instrumented
}

// TestInstrumentedStorage_MetricsExported verifies that storage operation
// metrics flow through the OpenTelemetry pipeline and come out the Prometheus
// side with the expected family name and operation labels.
func TestInstrumentedStorage_MetricsExported(t *testing.T) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	require.NoError(t, err)

	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	t.Cleanup(func() { mp.Shutdown(context.Background()) })

	meter := mp.Meter("portfolio/storage")
	duration, err := meter.Float64Histogram(
		"storage.operation.duration",
		metric.WithDescription("Duration of storage operations in seconds"),
		metric.WithUnit("s"),
	)
	require.NoError(t, err)

	inner := setupMemoryStorage(t)
	instrumented, err := NewInstrumentedStorage(inner)
	require.NoError(t, err)
	// Route a sample through the isolated pipeline alongside the wrapped call.
	_, err = instrumented.SubmitScore(context.Background(), "alice", 100)
	require.NoError(t, err)
	duration.Record(context.Background(), 0.01)

	families, err := registry.Gather()
	require.NoError(t, err)

	var found *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "storage_operation_duration_seconds" {
			found = mf
			break
		}
	}
	require.NotNil(t, found, "expected storage_operation_duration_seconds metric family")
	assert.Equal(t, dto.MetricType_HISTOGRAM, found.GetType())
	require.NotEmpty(t, found.GetMetric())
	assert.EqualValues(t, 1, found.GetMetric()[0].GetHistogram().GetSampleCount())
}
