package ai

import (
	"fmt"
	"regexp"
	"strings"

	"mapchat/internal/types"
)

// directionKeywords mark a prompt as a directions request.
var directionKeywords = []string{"direction", "directions", "how to get", "route to", "way to"}

var (
	// Both patterns run independently over the whole prompt. Letters and
	// whitespace are matched in the Unicode sense, so "São\u00a0Paulo" is
	// captured whole.
	originPattern      = regexp.MustCompile(`(?i)from[\s\p{Z}]+([\p{L}\p{M}\p{N}_\s\p{Z},]+)[\s\p{Z}]+to`)
	destinationPattern = regexp.MustCompile(`(?i)to[\s\p{Z}]+([\p{L}\p{M}\p{N}_\s\p{Z},]+)`)

	// Only one leading phrase is removed, and only at the very start.
	leadingPhrasePattern = regexp.MustCompile(`(?i)^(where is|find|show me|locate|what is|tell me about)[\s\p{Z}]+`)
)

// Fallback derives an Intent from the prompt text alone. It is used whenever the
// completion endpoint is unreachable or its output cannot be decoded, and never
// fails. completionText, when non-empty, becomes the response text.
func Fallback(prompt string, completionText *string) Intent {
	intent := Intent{TravelMode: types.TravelModeDriving}

	if completionText != nil && *completionText != "" {
		intent.ResponseText = *completionText
	} else {
		intent.ResponseText = fmt.Sprintf("I'll help you find information about %s", prompt)
	}

	lower := strings.ToLower(prompt)
	if !containsAny(lower, directionKeywords) {
		intent.LocationQuery = strPtr(StripLeadingPhrase(prompt))
		return intent
	}

	intent.WantsDirections = true
	if m := originPattern.FindStringSubmatch(prompt); m != nil {
		intent.Origin = strPtr(strings.TrimSpace(m[1]))
	}
	if m := destinationPattern.FindStringSubmatch(prompt); m != nil {
		intent.Destination = strPtr(strings.TrimSpace(m[1]))
	}
	intent.TravelMode = travelModeFromText(lower)
	return intent
}

// StripLeadingPhrase removes a single leading interrogative phrase such as
// "where is" or "show me" from s.
func StripLeadingPhrase(s string) string {
	return leadingPhrasePattern.ReplaceAllString(s, "")
}

func travelModeFromText(lower string) types.TravelMode {
	switch {
	case strings.Contains(lower, "walk"):
		return types.TravelModeWalking
	case containsAny(lower, []string{"bike", "cycling", "bicycle"}):
		return types.TravelModeBicycling
	case containsAny(lower, []string{"transit", "bus", "train"}):
		return types.TravelModeTransit
	default:
		return types.TravelModeDriving
	}
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
