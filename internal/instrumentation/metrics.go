package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric names as registered with the meter.
const (
	MetricCommandsTotal       = "kshell_commands_total"
	MetricCommandDuration     = "kshell_command_duration_seconds"
	MetricK8sOperationsTotal  = "kshell_kubernetes_operations_total"
	MetricK8sOperationSeconds = "kshell_kubernetes_operation_duration_seconds"
	MetricCompletionsTotal    = "kshell_completions_total"
)

const (
	attrCommand      = "command"
	attrStatus       = "status"
	attrOperation    = "operation"
	attrResourceType = "resource_type"
	attrContextType  = "context_type"
	attrResult       = "result"
)

// Metrics records shell activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	commandsTotal   metric.Int64Counter
	commandDuration metric.Float64Histogram

	k8sOperationsTotal   metric.Int64Counter
	k8sOperationDuration metric.Float64Histogram

	completionsTotal metric.Int64Counter
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.commandsTotal, err = meter.Int64Counter(
		MetricCommandsTotal,
		metric.WithDescription("Total number of shell commands executed"),
		metric.WithUnit("{command}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricCommandsTotal, err)
	}

	m.commandDuration, err = meter.Float64Histogram(
		MetricCommandDuration,
		metric.WithDescription("Shell command duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricCommandDuration, err)
	}

	m.k8sOperationsTotal, err = meter.Int64Counter(
		MetricK8sOperationsTotal,
		metric.WithDescription("Total number of Kubernetes API operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricK8sOperationsTotal, err)
	}

	m.k8sOperationDuration, err = meter.Float64Histogram(
		MetricK8sOperationSeconds,
		metric.WithDescription("Kubernetes API operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", MetricK8sOperationSeconds, err)
	}

	m.completionsTotal, err = meter.Int64Counter(
		MetricCompletionsTotal,
		metric.WithDescription("Total number of completion requests by candidate source"),
		metric.WithUnit("{completion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", MetricCompletionsTotal, err)
	}

	return m, nil
}

// RecordCommand records one executed shell command.
func (m *Metrics) RecordCommand(ctx context.Context, command, status string, duration time.Duration) {
	if m == nil || m.commandsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrCommand, command),
		attribute.String(attrStatus, status),
	)
	m.commandsTotal.Add(ctx, 1, attrs)
	m.commandDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordK8sOperation records one Kubernetes API call. Context names are
// reduced to a ContextType to keep label cardinality bounded.
func (m *Metrics) RecordK8sOperation(ctx context.Context, kubeContext, operation, resourceType, status string, duration time.Duration) {
	if m == nil || m.k8sOperationsTotal == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrResourceType, resourceType),
		attribute.String(attrContextType, ClassifyContextName(kubeContext)),
		attribute.String(attrStatus, status),
	)
	m.k8sOperationsTotal.Add(ctx, 1, attrs)
	m.k8sOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordCompletion records which candidate source served a completion request.
func (m *Metrics) RecordCompletion(ctx context.Context, result string) {
	if m == nil || m.completionsTotal == nil {
		return
	}
	m.completionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrResult, result)))
}
