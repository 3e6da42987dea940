package parser

import "douban-top250/config"

// Selectors are the CSS selectors used by Parser.
// Each field selector is matched inside one list item, first match wins.
type Selectors struct {
	Container string
	Item      string // matched against the container's direct children
	Title     string
	Link      string // href is read from the match
	Rating    string
	Tagline   string
	Image     string // src is read from the match
	Rank      string
}

// DefaultSelectors matches the douban Top 250 markup
func DefaultSelectors() Selectors {
	return Selectors{
		Container: ".grid_view",
		Item:      "li",
		Title:     ".title",
		Link:      "a",
		Rating:    ".rating_num",
		Tagline:   ".inq",
		Image:     "img",
		Rank:      ".pic em",
	}
}

// SelectorsFromConfig overlays the non-empty configured selectors on the defaults
func SelectorsFromConfig(c config.SelectorsConfig) Selectors {
	s := DefaultSelectors()
	override(&s.Container, c.Container)
	override(&s.Item, c.Item)
	override(&s.Title, c.Title)
	override(&s.Link, c.Link)
	override(&s.Rating, c.Rating)
	override(&s.Tagline, c.Tagline)
	override(&s.Image, c.Image)
	override(&s.Rank, c.Rank)
	return s
}

func override(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
