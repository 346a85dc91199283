package behavior

import (
	"context"
	"errors"
	"sync"

	"github.com/koscakluka/ema-thinking/core/actuation"
	"github.com/koscakluka/ema-thinking/core/decision"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	expressionIntensity = 0.7
	expressionDuration  = 1.0
)

var (
	thinkingGestures    = []Gesture{GestureLookStraight, GestureShakeSlightly}
	thinkingExpressions = []Expression{ExpressionThoughtful, ExpressionOh}
)

// Performer turns descriptors into actuation calls. All calls are best
// effort: failures are logged and counted, never returned.
type Performer struct {
	actuator actuation.Actuator
}

func NewPerformer(actuator actuation.Actuator) *Performer {
	return &Performer{actuator: actuator}
}

// PerformConfidence shows the gesture, expression and LED color of tier at
// the same time.
func (p *Performer) PerformConfidence(ctx context.Context, tier Tier) {
	ctx, span := tracer.Start(ctx, "perform confidence")
	defer span.End()
	span.SetAttributes(attribute.String("tier", string(tier)))

	descriptor := Describe(tier)
	p.all(ctx, "confidence",
		func(ctx context.Context) error { return p.gesture(ctx, descriptor.Gesture) },
		func(ctx context.Context) error { return p.expression(ctx, descriptor.Expression) },
		func(ctx context.Context) error {
			return actuation.Wrap("set led", p.actuator.SetLED(ctx, LEDHex(descriptor.LEDColor)))
		},
	)
}

// PerformThinking shows the index-th step of the thinking cycle.
func (p *Performer) PerformThinking(ctx context.Context, index int) {
	if index < 0 {
		index = 0
	}
	gesture := thinkingGestures[index%len(thinkingGestures)]
	expression := thinkingExpressions[index%len(thinkingExpressions)]

	p.all(ctx, "thinking",
		func(ctx context.Context) error { return p.gesture(ctx, gesture) },
		func(ctx context.Context) error { return p.expression(ctx, expression) },
		func(ctx context.Context) error {
			return actuation.Wrap("set led", p.actuator.SetLED(ctx, thinkingLEDColor))
		},
	)
}

// PerformEntry plays one step of a behaviour plan. Unknown gesture or
// expression names are skipped.
func (p *Performer) PerformEntry(ctx context.Context, entry decision.BehaviorEntry) {
	var steps []func(context.Context) error
	if gesture, ok := CanonicalGesture(entry.Gesture); ok {
		steps = append(steps, func(ctx context.Context) error { return p.gesture(ctx, gesture) })
	} else if entry.Gesture != "" {
		logger.DebugContext(ctx, "skipping unknown gesture", "gesture", entry.Gesture)
	}
	if expression, ok := CanonicalExpression(entry.Expression); ok {
		steps = append(steps, func(ctx context.Context) error { return p.expression(ctx, expression) })
	}
	if target := entry.LookAt; target != nil {
		steps = append(steps, func(ctx context.Context) error {
			return actuation.Wrap("look at", p.actuator.LookAt(ctx, target.X, target.Y, target.Z))
		})
	}
	p.all(ctx, "plan entry", steps...)
}

func (p *Performer) gesture(ctx context.Context, gesture Gesture) error {
	switch gesture {
	case GestureShakeSlightly:
		return actuation.Wrap("gesture", p.actuator.StartGesture(ctx, "Shake", 0.5, 0.8))
	case GestureNod:
		return actuation.Wrap("gesture", p.actuator.StartGesture(ctx, "Nod", 0.7, 0.6))
	case GestureLookStraight:
		return actuation.Wrap("attend user", p.actuator.AttendUser(ctx))
	default:
		return nil
	}
}

func (p *Performer) expression(ctx context.Context, expression Expression) error {
	return actuation.Wrap("expression", p.actuator.StartGesture(ctx, string(expression), expressionIntensity, expressionDuration))
}

func (p *Performer) all(ctx context.Context, name string, steps ...func(context.Context) error) {
	if p == nil || p.actuator == nil || len(steps) == 0 {
		return
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for _, step := range steps {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := step(ctx); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		actuationFailures.Add(ctx, int64(len(errs)), metric.WithAttributes(attribute.String("behavior", name)))
		logger.WarnContext(ctx, "actuation failed", "behavior", name, "error", err)
	}
}
