package parser

import (
	"strconv"
	"strings"
	"unicode"
)

// normalizeWhitespace replaces unicode whitespace (e.g. &nbsp;) with regular
// spaces, collapses runs and trims the ends
func normalizeWhitespace(text string) string {
	normalized := strings.Builder{}
	for _, r := range text {
		if unicode.IsSpace(r) {
			normalized.WriteRune(' ')
		} else {
			normalized.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(normalized.String()), " ")
}

// parseRank returns 0 for anything that is not a positive integer
func parseRank(text string) int {
	rank, err := strconv.Atoi(normalizeWhitespace(text))
	if err != nil || rank < 0 {
		return 0
	}
	return rank
}
