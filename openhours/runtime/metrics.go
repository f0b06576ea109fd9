package runtime

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	constant "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/log"
)

// PanicMetrics counts recovered panics on an OpenTelemetry meter.
type PanicMetrics struct {
	counter metric.Int64Counter
	logger  Logger
}

var (
	panicMetricsInstance *PanicMetrics
	panicMetricsMu       sync.RWMutex
)

// InitPanicMetrics registers panic_recovered_total on meter.
// The logger is optional. Subsequent calls are no-ops.
//
//	runtime.InitPanicMetrics(telemetry.MeterProvider.Meter(constant.TelemetrySDKName), logger)
func InitPanicMetrics(meter metric.Meter, logger ...Logger) {
	panicMetricsMu.Lock()
	defer panicMetricsMu.Unlock()

	if meter == nil || panicMetricsInstance != nil {
		return
	}

	var l Logger
	if len(logger) > 0 {
		l = logger[0]
	}

	counter, err := meter.Int64Counter(
		constant.MetricPanicRecoveredTotal,
		metric.WithUnit("1"),
		metric.WithDescription("Total number of recovered panics"),
	)
	if err != nil {
		if l != nil {
			l.Log(context.Background(), log.LevelWarn, "failed to create panic metric counter", log.Err(err))
		}

		return
	}

	panicMetricsInstance = &PanicMetrics{counter: counter, logger: l}
}

// GetPanicMetrics returns the singleton PanicMetrics, or nil before InitPanicMetrics.
func GetPanicMetrics() *PanicMetrics {
	panicMetricsMu.RLock()
	defer panicMetricsMu.RUnlock()

	return panicMetricsInstance
}

// ResetPanicMetrics clears the singleton. Intended for tests.
func ResetPanicMetrics() {
	panicMetricsMu.Lock()
	defer panicMetricsMu.Unlock()

	panicMetricsInstance = nil
}

// RecordPanicRecovered increments panic_recovered_total with the given labels.
func (pm *PanicMetrics) RecordPanicRecovered(ctx context.Context, component, goroutineName string) {
	if pm == nil || pm.counter == nil {
		return
	}

	pm.counter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", constant.SanitizeMetricLabel(component)),
		attribute.String("goroutine_name", constant.SanitizeMetricLabel(goroutineName)),
	))
}

func recordPanicMetric(ctx context.Context, component, goroutineName string) {
	if pm := GetPanicMetrics(); pm != nil {
		pm.RecordPanicRecovered(ctx, component, goroutineName)
	}
}
