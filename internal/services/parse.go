package services

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	nonNumericPattern = regexp.MustCompile(`[^0-9.]`)
	nonAlphaPattern   = regexp.MustCompile(`[^a-zA-Z\s]`)
)

// parseWeight normalizes a free-text weight to whole pounds.
// "25 tons" -> 50000, "10 kg" -> 22, "40000 lbs" -> 40000.
func parseWeight(input string) (int, bool) {
	t := strings.ToLower(strings.TrimSpace(input))

	magnitude, err := strconv.ParseFloat(nonNumericPattern.ReplaceAllString(t, ""), 64)
	if err != nil || math.IsInf(magnitude, 0) || magnitude <= 0 {
		return 0, false
	}

	switch {
	case strings.Contains(t, "ton"):
		// US short tons
		return int(math.Round(magnitude * 2000)), true
	case strings.Contains(t, "kg"):
		return int(math.Round(magnitude * 2.20462)), true
	default:
		return int(math.Round(magnitude)), true
	}
}

// parseDollars normalizes "$2400", "2400 dollars" etc. to whole dollars.
func parseDollars(input string) (int, bool) {
	amount, err := strconv.ParseFloat(nonNumericPattern.ReplaceAllString(input, ""), 64)
	if err != nil || math.IsInf(amount, 0) || amount <= 0 {
		return 0, false
	}
	return int(math.Round(amount)), true
}

// cleanLocation collapses whitespace runs and trims. Returns "" for inputs
// shorter than 2 characters after cleaning.
func cleanLocation(input string) string {
	t := strings.Join(strings.Fields(input), " ")
	if len(t) < 2 {
		return ""
	}
	return t
}

// cleanCrop strips everything but letters and spaces
func cleanCrop(input string) string {
	return strings.TrimSpace(nonAlphaPattern.ReplaceAllString(input, ""))
}

// capitalize upper-cases the first letter of each word
func capitalize(input string) string {
	words := strings.Fields(input)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
