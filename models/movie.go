package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var decimalPattern = regexp.MustCompile(`^\d+(\.\d+)?$`)

// Movie represents one entry of the Top 250 list
type Movie struct {
	Rank       int    `json:"rank,omitempty"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	RatingText string `json:"rating"` // Kept as scraped, see Rating()
	Tagline    string `json:"tagline"`
	ImageURL   string `json:"image_url"`
}

// Rating parses RatingText as a decimal number
func (m Movie) Rating() (float64, error) {
	text := strings.TrimSpace(m.RatingText)
	if text == "" {
		return 0, fmt.Errorf("empty rating for %q", m.Title)
	}
	// ParseFloat alone would also take "Inf", "NaN", "0x1p3" and "1_0"
	if !decimalPattern.MatchString(text) {
		return 0, fmt.Errorf("invalid rating %q for %q: not a decimal number", m.RatingText, m.Title)
	}
	rating, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid rating %q for %q: %w", m.RatingText, m.Title, err)
	}
	return rating, nil
}
