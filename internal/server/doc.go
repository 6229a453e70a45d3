// Package server provides the shared state of the MCP server and the
// auxiliary HTTP endpoints it exposes.
//
// # Key Components
//
// ServerContext carries the scheduling service, the task manager and the
// metrics recorder to every tool handler. It is created once per process
// and cancelled on shutdown.
//
// MetricsServer serves Prometheus metrics and health probes on a dedicated
// address, separate from the stdio transport:
//   - /metrics: Prometheus scrape endpoint
//   - /healthz: liveness
//   - /readyz: readiness, failing while no calendar is configured
//   - /healthz/detailed: status and uptime
package server
