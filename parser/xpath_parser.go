package parser

import (
	"fmt"
	"strings"

	"douban-top250/models"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"
)

// classXPath matches elements whose class list contains name
func classXPath(name string) string {
	return fmt.Sprintf(`contains(concat(' ', normalize-space(@class), ' '), ' %s ')`, name)
}

// XPathExpressions are evaluated by XPathParser.
// Field expressions are relative to one list item.
type XPathExpressions struct {
	Container string
	Item      string
	Title     string
	Link      string
	Rating    string
	Tagline   string
	Image     string
	Rank      string
}

// DefaultXPathExpressions mirror DefaultSelectors
func DefaultXPathExpressions() XPathExpressions {
	return XPathExpressions{
		Container: "//*[" + classXPath("grid_view") + "]",
		Item:      "./li",
		Title:     ".//*[" + classXPath("title") + "]",
		Link:      ".//a",
		Rating:    ".//*[" + classXPath("rating_num") + "]",
		Tagline:   ".//*[" + classXPath("inq") + "]",
		Image:     ".//img",
		Rank:      ".//*[" + classXPath("pic") + "]//em",
	}
}

// XPathParser extracts movies with XPath via htmlquery.
// It gives the same output as Parser for the default selectors.
type XPathParser struct {
	expr XPathExpressions
}

// NewXPathParser creates a new XPathParser with the default expressions
func NewXPathParser() *XPathParser {
	return &XPathParser{expr: DefaultXPathExpressions()}
}

// Extract implements the Extractor interface
func (xp *XPathParser) Extract(htmlContent string) (*Result, error) {
	doc, err := htmlquery.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	container, err := htmlquery.Query(doc, xp.expr.Container)
	if err != nil {
		return nil, fmt.Errorf("invalid container expression: %w", err)
	}
	if container == nil {
		return nil, fmt.Errorf("%w: no node matches %q", ErrContainerNotFound, xp.expr.Container)
	}

	items, err := htmlquery.QueryAll(container, xp.expr.Item)
	if err != nil {
		return nil, fmt.Errorf("invalid item expression: %w", err)
	}

	result := &Result{}
	for i, item := range items {
		movie, itemErr := xp.extractMovie(i, item)
		if itemErr != nil {
			result.Skipped = append(result.Skipped, itemErr)
			continue
		}
		result.Movies = append(result.Movies, movie)
	}

	return result, nil
}

func (xp *XPathParser) extractMovie(index int, item *html.Node) (models.Movie, *ItemError) {
	movie := models.Movie{}

	movie.Title = xp.text(item, xp.expr.Title)
	if movie.Title == "" {
		return movie, &ItemError{Index: index, Field: FieldTitle}
	}

	movie.URL = xp.attr(item, xp.expr.Link, "href")
	if movie.URL == "" {
		return movie, &ItemError{Index: index, Field: FieldLink}
	}

	movie.RatingText = xp.text(item, xp.expr.Rating)
	if movie.RatingText == "" {
		return movie, &ItemError{Index: index, Field: FieldRating}
	}

	movie.Tagline = xp.text(item, xp.expr.Tagline)
	movie.ImageURL = xp.attr(item, xp.expr.Image, "src")
	movie.Rank = parseRank(xp.text(item, xp.expr.Rank))

	return movie, nil
}

func (xp *XPathParser) text(item *html.Node, expr string) string {
	n, err := htmlquery.Query(item, expr)
	if err != nil || n == nil {
		return ""
	}
	return normalizeWhitespace(htmlquery.InnerText(n))
}

func (xp *XPathParser) attr(item *html.Node, expr, name string) string {
	n, err := htmlquery.Query(item, expr)
	if err != nil || n == nil {
		return ""
	}
	return strings.TrimSpace(htmlquery.SelectAttr(n, name))
}
