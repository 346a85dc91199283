// Package behavior maps confidence to the verbal and nonverbal cues a robot
// shows with an answer.
package behavior

import "strings"

type Tier string

const (
	TierLow    Tier = "low"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

const (
	lowWordCountLimit    = 25
	mediumWordCountLimit = 60
)

func ParseTier(text string) (Tier, bool) {
	switch tier := Tier(strings.ToLower(strings.TrimSpace(text))); tier {
	case TierLow, TierMedium, TierHigh:
		return tier, true
	default:
		return "", false
	}
}

// Resolve returns the tier named by hint when there is one. Otherwise longer
// answers count as more confident.
func Resolve(hint string, wordCount int) Tier {
	if tier, ok := ParseTier(hint); ok {
		return tier
	}
	switch {
	case wordCount < lowWordCountLimit:
		return TierLow
	case wordCount < mediumWordCountLimit:
		return TierMedium
	default:
		return TierHigh
	}
}

// InferTier guesses the tier back from the verbal prefix of a spoken text.
// Text without a recognisable prefix is medium.
func InferTier(text string) Tier {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "i'm not entirely sure"), strings.Contains(lower, "i'm not sure"):
		return TierLow
	case strings.Contains(lower, "i'm confident"), strings.Contains(lower, "i'm certain"):
		return TierHigh
	default:
		return TierMedium
	}
}
