package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeOTel_Disabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "test"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.TracerProvider)
	assert.Nil(t, providers.MeterProvider)
	assert.NotNil(t, providers.Tracer)
	assert.NotNil(t, providers.Meter)
	assert.Nil(t, providers.PrometheusHTTP)
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTel_MetricsExposed(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "test",
		EnableMetrics: true,
		SampleRatio:   1,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)

	metrics, err := CreatePipelineMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.RowsRead.Add(context.Background(), 3)
	metrics.StageDuration.Record(context.Background(), 0.25,
		metric.WithAttributes(attribute.String("stage", "clean")))

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "dataset_rows_read_total")
	assert.Contains(t, w.Body.String(), "pipeline_stage_duration_seconds")
}

func TestInitializeOTel_Tracing(t *testing.T) {
	var spans bytes.Buffer
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:   "test",
		EnableTracing: true,
		SampleRatio:   1,
		TraceWriter:   &spans,
	}, discardLogger())
	require.NoError(t, err)

	ctx, span := providers.Tracer.Start(context.Background(), "clean")
	assert.NotEmpty(t, TraceIDFromContext(ctx))
	span.End()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, providers.Shutdown(ctx))
	assert.Contains(t, spans.String(), `"Name": "clean"`)
}

func TestNoopPipelineMetrics(t *testing.T) {
	m := NoopPipelineMetrics()
	require.NotNil(t, m)
	assert.NotPanics(t, func() {
		m.DuplicatesRemoved.Add(context.Background(), 1)
	})
}
