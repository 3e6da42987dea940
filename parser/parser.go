package parser

import (
	"errors"
	"fmt"

	"douban-top250/config"
	"douban-top250/models"
)

var (
	// ErrContainerNotFound is returned when the page has no list container
	ErrContainerNotFound = errors.New("list container not found")
	// ErrFieldMissing is wrapped by every ItemError
	ErrFieldMissing = errors.New("required field missing")
)

// Field names reported in ItemError
const (
	FieldTitle  = "title"
	FieldLink   = "link"
	FieldRating = "rating"
)

// Extractor turns a page into movies
type Extractor interface {
	Extract(htmlContent string) (*Result, error)
}

// Result holds the extracted movies in document order
// and the list items that were skipped
type Result struct {
	Movies  []models.Movie
	Skipped []*ItemError
}

// ItemError describes a list item dropped because a required field was absent
type ItemError struct {
	Index int // zero-based position among the container's items
	Field string
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item #%d: missing %s", e.Index+1, e.Field)
}

func (e *ItemError) Unwrap() error {
	return ErrFieldMissing
}

// NewExtractor returns the engine selected in cfg
func NewExtractor(cfg config.ParserConfig) (Extractor, error) {
	switch cfg.Engine {
	case "", "css":
		return NewParserWithSelectors(SelectorsFromConfig(cfg.Selectors)), nil
	case "xpath":
		return NewXPathParser(), nil
	default:
		return nil, fmt.Errorf("unknown parser engine %q", cfg.Engine)
	}
}
