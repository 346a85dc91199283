package behavior

import "github.com/jinzhu/copier"

// Descriptor is everything a confidence tier shows.
type Descriptor struct {
	Prefix     string
	Gesture    Gesture
	Expression Expression
	LEDColor   string
}

// LegacyBehavior is the older two-field view of a descriptor: the verbal
// prefix and the gesture description.
type LegacyBehavior struct {
	Prefix  string
	Gesture string
}

var descriptors = map[Tier]Descriptor{
	TierLow: {
		Prefix:     "I'm not entirely sure, but",
		Gesture:    GestureShakeSlightly,
		Expression: ExpressionOh,
		LEDColor:   "yellow",
	},
	TierMedium: {
		Prefix:     "Let me think",
		Gesture:    GestureLookStraight,
		Expression: ExpressionThoughtful,
		LEDColor:   "blue",
	},
	TierHigh: {
		Prefix:     "I'm confident that",
		Gesture:    GestureNod,
		Expression: ExpressionBigSmile,
		LEDColor:   "green",
	},
}

// Describe returns the descriptor of tier, medium for anything unknown.
func Describe(tier Tier) Descriptor {
	if descriptor, ok := descriptors[tier]; ok {
		return descriptor
	}
	return descriptors[TierMedium]
}

var legacyCopyOption = copier.Option{
	Converters: []copier.TypeConverter{{
		SrcType: GestureUnknown,
		DstType: copier.String,
		Fn: func(src any) (any, error) {
			return src.(Gesture).String(), nil
		},
	}},
}

func (d Descriptor) Legacy() LegacyBehavior {
	var legacy LegacyBehavior
	if err := copier.CopyWithOption(&legacy, d, legacyCopyOption); err != nil {
		logger.Warn("failed to project behavior descriptor", "error", err)
		return LegacyBehavior{Prefix: d.Prefix, Gesture: d.Gesture.String()}
	}
	return legacy
}

// Utterance prefixes text with the descriptor's verbal prefix.
func (d Descriptor) Utterance(text string) string {
	if d.Prefix == "" {
		return text
	}
	if text == "" {
		return d.Prefix
	}
	return d.Prefix + " " + text
}
