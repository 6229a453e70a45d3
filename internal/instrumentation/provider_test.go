package instrumentation

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(t *testing.T, cfg Config) *Provider {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := NewProvider(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })
	return p
}

func enabledConfig(metrics, tracing string) Config {
	return Config{
		ServiceName:       "assistant-test",
		ServiceVersion:    "1.0.0",
		Enabled:           true,
		MetricsExporter:   metrics,
		TracingExporter:   tracing,
		TraceSamplingRate: 0.5,
		SessionID:         "sess-42",
	}
}

func TestNewProvider_Disabled(t *testing.T) {
	p := newTestProvider(t, Config{ServiceName: "assistant-test", Enabled: false})

	assert.False(t, p.Enabled())
	require.NotNil(t, p.Metrics(), "disabled provider still hands out a recorder")
	assert.Nil(t, p.PrometheusHandler())
	assert.NotNil(t, p.Tracer("test"))
	assert.NoError(t, p.Shutdown(context.Background()))

	// the no-op recorder accepts calls
	p.Metrics().RecordSchedulingOperation(context.Background(), "add", OutcomeSuccess)
}

func TestNewProvider_Exporters(t *testing.T) {
	tests := []struct {
		name           string
		metrics        string
		tracing        string
		wantPrometheus bool
	}{
		{name: "prometheus", metrics: ExporterPrometheus, tracing: ExporterNone, wantPrometheus: true},
		{name: "default metrics exporter", metrics: "", tracing: "", wantPrometheus: true},
		{name: "stdout", metrics: ExporterStdout, tracing: ExporterStdout},
		{name: "no metrics", metrics: ExporterNone, tracing: ExporterNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, enabledConfig(tt.metrics, tt.tracing))
			assert.True(t, p.Enabled())
			assert.NotNil(t, p.Metrics())
			assert.NotNil(t, p.Tracer("test"))
			assert.Equal(t, tt.wantPrometheus, p.PrometheusHandler() != nil)
		})
	}
}

func TestNewProvider_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "metrics exporter", cfg: enabledConfig("invalid", ExporterNone)},
		{name: "tracing exporter", cfg: enabledConfig(ExporterPrometheus, "invalid")},
		{name: "otlp tracing without endpoint", cfg: enabledConfig(ExporterPrometheus, ExporterOTLP)},
		{name: "otlp metrics without endpoint", cfg: enabledConfig(ExporterOTLP, ExporterNone)},
		{name: "sampling rate", cfg: func() Config {
			c := enabledConfig(ExporterNone, ExporterNone)
			c.TraceSamplingRate = 2
			return c
		}()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewProvider(context.Background(), tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestProvider_PrometheusHandlerServesMetrics(t *testing.T) {
	p := newTestProvider(t, enabledConfig(ExporterPrometheus, ExporterNone))
	p.Metrics().RecordSchedulingOperation(context.Background(), "add", OutcomeSuccess)

	rec := httptest.NewRecorder()
	p.PrometheusHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "scheduling_operations_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestProvider_SeparateRegistries(t *testing.T) {
	// two providers in one process must not collide on registration
	a := newTestProvider(t, enabledConfig(ExporterPrometheus, ExporterNone))
	b := newTestProvider(t, enabledConfig(ExporterPrometheus, ExporterNone))
	assert.NotNil(t, a.PrometheusHandler())
	assert.NotNil(t, b.PrometheusHandler())
}
