// Package instrumentation provides OpenTelemetry metrics and tracing for kshell.
//
// Every command and every Kubernetes API call is measured. Metrics always
// land in a private Prometheus registry that the stats command reads; with
// INSTRUMENTATION_ENABLED=true they are also pushed to an OTLP collector or
// stdout, and spans are exported the same way.
//
// # Metrics
//
//   - kshell_commands_total: commands by name and status
//   - kshell_command_duration_seconds: command latency
//   - kshell_kubernetes_operations_total: API calls by operation, resource type, context type and status
//   - kshell_kubernetes_operation_duration_seconds: API call latency
//   - kshell_completions_total: completion requests by candidate source
//
// Context names are classified (production, staging, development, local,
// other) before being used as a label.
//
// # Configuration
//
//   - INSTRUMENTATION_ENABLED: export metrics and traces (default: false)
//   - METRICS_EXPORTER: prometheus (in-process only), otlp, stdout
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG: sampling rate (default: 0.1)
//   - OTEL_SERVICE_NAME: service name (default: kshell)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	provider.Metrics().RecordCommand(ctx, "pods", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
