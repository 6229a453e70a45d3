// Package instrumentation provides OpenTelemetry metrics and tracing for the
// assistant.
//
// # Metrics
//
// Calendar store:
//   - calendar_store_operations_total: store calls by operation and status
//   - calendar_store_operation_duration_seconds: store call latency
//
// Scheduling:
//   - scheduling_operations_total: add/reschedule/delete/... by outcome
//     (success, error, cancelled, conflict, ambiguous, partial)
//
// MCP tools:
//   - mcp_tool_invocations_total: tool invocations by tool name and status
//   - mcp_tool_duration_seconds: tool execution latency
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and calendar
// store calls (calendar.<operation>).
//
// # Exporters
//
// Metrics go to prometheus (served by serve --metrics-addr), otlp, stdout
// or nowhere (none). Traces go to otlp, stdout or none. Instrumentation is
// configured from the telemetry section of the config file and is disabled
// unless telemetry.enabled is set.
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:     "assistant",
//		Enabled:         true,
//		MetricsExporter: instrumentation.ExporterPrometheus,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordStoreOperation(ctx, instrumentation.StoreOpList, instrumentation.StatusSuccess, elapsed)
//
// All Record* methods are safe on a nil or disabled Metrics.
package instrumentation
