package behavior

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/ema-thinking/core/behavior"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	actuationFailures, _ = meter.Int64Counter("behavior.actuation.failures",
		metric.WithDescription("Number of failed best-effort actuation calls"),
	)
)
