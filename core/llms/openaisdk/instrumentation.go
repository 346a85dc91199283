package openaisdk

import (
	"go.opentelemetry.io/otel"
)

const scopeName = "github.com/koscakluka/ema-thinking/core/llms/openaisdk"

var tracer = otel.Tracer(scopeName)
