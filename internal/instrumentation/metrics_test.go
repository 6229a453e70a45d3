package instrumentation

import (
	"context"
	"testing"
	"time"
)

func newCtxTestProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(ctx) })
	return provider
}

func TestMetrics_RecordStoreOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newCtxTestProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordStoreOperation(ctx, StoreOpList, StatusSuccess, 200*time.Millisecond)
	metrics.RecordStoreOperation(ctx, StoreOpPatch, StatusError, 500*time.Millisecond)
	metrics.RecordStoreOperation(ctx, StoreOpFreeBusy, StatusSuccess, 100*time.Millisecond)
}

func TestMetrics_RecordSchedulingOperation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newCtxTestProvider(t, ctx).Metrics()

	for _, outcome := range []string{OutcomeSuccess, OutcomeError, OutcomeCancelled, OutcomeConflict, OutcomeAmbiguous, OutcomePartial} {
		metrics.RecordSchedulingOperation(ctx, "add", outcome)
	}
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	metrics := newCtxTestProvider(t, ctx).Metrics()

	metrics.RecordToolInvocation(ctx, "calendar_add", StatusSuccess, 150*time.Millisecond)
	metrics.RecordToolInvocation(ctx, "calendar_free", StatusError, 50*time.Millisecond)
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	metrics.RecordStoreOperation(ctx, StoreOpInsert, StatusSuccess, time.Second)
	metrics.RecordSchedulingOperation(ctx, "add", OutcomeSuccess)
	metrics.RecordToolInvocation(ctx, "calendar_add", StatusSuccess, time.Second)
}

func TestMetrics_NilReceiver(t *testing.T) {
	var metrics *Metrics
	ctx := context.Background()
	metrics.RecordStoreOperation(ctx, StoreOpDelete, StatusError, time.Second)
	metrics.RecordSchedulingOperation(ctx, "delete", OutcomeError)
	metrics.RecordToolInvocation(ctx, "calendar_delete", StatusError, time.Second)
}
