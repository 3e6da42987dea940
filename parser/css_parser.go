package parser

import (
	"fmt"
	"strings"

	"douban-top250/models"

	"github.com/PuerkitoBio/goquery"
)

// Parser extracts movies from HTML with CSS selectors
type Parser struct {
	sel Selectors
}

// NewParser creates a new Parser instance with the default selectors
func NewParser() *Parser {
	return NewParserWithSelectors(DefaultSelectors())
}

// NewParserWithSelectors creates a Parser with custom selectors
func NewParserWithSelectors(sel Selectors) *Parser {
	return &Parser{sel: sel}
}

// Extract implements the Extractor interface
func (p *Parser) Extract(htmlContent string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	container := doc.Find(p.sel.Container).First()
	if container.Length() == 0 {
		return nil, fmt.Errorf("%w: no node matches %q", ErrContainerNotFound, p.sel.Container)
	}

	result := &Result{}
	container.ChildrenFiltered(p.sel.Item).Each(func(i int, s *goquery.Selection) {
		movie, itemErr := p.extractMovie(i, s)
		if itemErr != nil {
			result.Skipped = append(result.Skipped, itemErr)
			return
		}
		result.Movies = append(result.Movies, movie)
	})

	return result, nil
}

// extractMovie reads the fields of one list item
func (p *Parser) extractMovie(index int, s *goquery.Selection) (models.Movie, *ItemError) {
	movie := models.Movie{}

	movie.Title = firstText(s, p.sel.Title)
	if movie.Title == "" {
		return movie, &ItemError{Index: index, Field: FieldTitle}
	}

	movie.URL = firstAttr(s, p.sel.Link, "href")
	if movie.URL == "" {
		return movie, &ItemError{Index: index, Field: FieldLink}
	}

	movie.RatingText = firstText(s, p.sel.Rating)
	if movie.RatingText == "" {
		return movie, &ItemError{Index: index, Field: FieldRating}
	}

	// Optional: many entries carry no tagline
	movie.Tagline = firstText(s, p.sel.Tagline)
	movie.ImageURL = firstAttr(s, p.sel.Image, "src")
	movie.Rank = parseRank(firstText(s, p.sel.Rank))

	return movie, nil
}

func firstText(s *goquery.Selection, selector string) string {
	return normalizeWhitespace(s.Find(selector).First().Text())
}

func firstAttr(s *goquery.Selection, selector, attr string) string {
	return strings.TrimSpace(s.Find(selector).First().AttrOr(attr, ""))
}
