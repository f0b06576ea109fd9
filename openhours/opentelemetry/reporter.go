package opentelemetry

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	otellog "go.opentelemetry.io/otel/log"

	constant "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/runtime"
)

// PanicReporter emits recovered panics as OpenTelemetry log records, so they
// reach the collector even when the zap output is not shipped.
type PanicReporter struct {
	logger otellog.Logger
}

var _ runtime.ErrorReporter = (*PanicReporter)(nil)

// NewPanicReporter builds a reporter on provider's logger named name.
func NewPanicReporter(provider otellog.LoggerProvider, name string) (*PanicReporter, error) {
	if provider == nil {
		return nil, ErrNilTelemetry
	}

	return &PanicReporter{logger: provider.Logger(name)}, nil
}

// CaptureException implements runtime.ErrorReporter. Tags become
// "panic."-prefixed attributes in key order.
func (reporter *PanicReporter) CaptureException(ctx context.Context, err error, tags map[string]string) {
	if reporter == nil || err == nil {
		return
	}

	var record otellog.Record

	record.SetTimestamp(time.Now())
	record.SetSeverity(otellog.SeverityError)
	record.SetSeverityText(otellog.SeverityError.String())
	record.SetBody(otellog.StringValue(constant.EventPanicRecovered))

	keys := slices.Sorted(maps.Keys(tags))
	attrs := make([]otellog.KeyValue, 0, len(keys)+2)
	attrs = append(attrs,
		otellog.String("exception.type", fmt.Sprintf("%T", err)),
		otellog.String("exception.message", err.Error()),
	)

	for _, key := range keys {
		attrs = append(attrs, otellog.String(constant.AttrPrefixPanic+key, tags[key]))
	}

	record.AddAttributes(attrs...)

	reporter.logger.Emit(ctx, record)
}
