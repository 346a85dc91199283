package behavior

import "strings"

// Gesture is a base movement the robot can make.
type Gesture int

const (
	GestureUnknown Gesture = iota
	GestureShakeSlightly
	GestureLookStraight
	GestureNod
)

func (g Gesture) String() string {
	switch g {
	case GestureShakeSlightly:
		return "slight head shake"
	case GestureLookStraight:
		return "look straight"
	case GestureNod:
		return "nod head"
	default:
		return "unknown"
	}
}

var gestureNames = map[string]Gesture{
	"slight head shake": GestureShakeSlightly,
	"shake slightly":    GestureShakeSlightly,
	"gentle head shake": GestureShakeSlightly,
	"shake":             GestureShakeSlightly,
	"轻微摇头":              GestureShakeSlightly,
	"look straight":     GestureLookStraight,
	"steady gaze":       GestureLookStraight,
	"平视凝神":              GestureLookStraight,
	"nod head":          GestureNod,
	"nod":               GestureNod,
	"affirmative nod":   GestureNod,
	"点头示意":              GestureNod,
}

// CanonicalGesture maps a free-text gesture description, as produced by the
// controller model or older configs, to a Gesture.
func CanonicalGesture(text string) (Gesture, bool) {
	gesture, ok := gestureNames[normalizeName(text)]
	return gesture, ok
}

// Expression is a named facial gesture from the robot's gesture library.
type Expression string

const (
	ExpressionThoughtful Expression = "Thoughtful"
	ExpressionOh         Expression = "Oh"
	ExpressionBigSmile   Expression = "BigSmile"
	ExpressionBrowFrown  Expression = "BrowFrown"
)

var expressions = []Expression{ExpressionThoughtful, ExpressionOh, ExpressionBigSmile, ExpressionBrowFrown}

func CanonicalExpression(text string) (Expression, bool) {
	name := strings.ReplaceAll(normalizeName(text), " ", "")
	for _, expression := range expressions {
		if strings.EqualFold(name, string(expression)) {
			return expression, true
		}
	}
	return "", false
}

func normalizeName(text string) string {
	name := strings.ToLower(strings.TrimSpace(text))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}

var ledColors = map[string]string{
	"red":    "#FF0000",
	"green":  "#00FF00",
	"blue":   "#0066FF",
	"yellow": "#FFC800",
	"purple": "#9600FF",
	"white":  "#FFFFFF",
}

const thinkingLEDColor = "#FFA500"

// LEDHex resolves a color name to the hex value the LED ring takes. Hex
// input is passed through and unknown names fall back to blue.
func LEDHex(color string) string {
	color = strings.TrimSpace(color)
	if strings.HasPrefix(color, "#") {
		return color
	}
	if hex, ok := ledColors[strings.ToLower(color)]; ok {
		return hex
	}
	return ledColors["blue"]
}
