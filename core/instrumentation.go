package orchestration

import (
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const scopeName = "github.com/koscakluka/ema-thinking/core"

var (
	tracer = otel.Tracer(scopeName)
	meter  = otel.Meter(scopeName)
	logger = otelslog.NewLogger(scopeName)

	turnsCounter, _ = meter.Int64Counter("turns",
		metric.WithDescription("Number of turns run, by path and outcome"),
	)
	thinkingCuesCounter, _ = meter.Int64Counter("thinking.cues",
		metric.WithDescription("Number of surfaced thinking cues"),
	)
	fallbackCuesCounter, _ = meter.Int64Counter("thinking.fallback_cues",
		metric.WithDescription("Number of filler lines surfaced after the thinking stream ended"),
	)
	actuationFailuresCounter, _ = meter.Int64Counter("actuation.failures",
		metric.WithDescription("Number of failed speak calls"),
	)
)
