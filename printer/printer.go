// Package printer writes movies to a terminal or any io.Writer.
package printer

import (
	"encoding/json"
	"fmt"
	"io"

	"douban-top250/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Print dispatches on format: text, table or json
func Print(w io.Writer, format string, movies []models.Movie) error {
	switch format {
	case "", "text":
		return Text(w, movies)
	case "table":
		return Table(w, movies)
	case "json":
		return JSON(w, movies)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// Text writes five labelled lines per movie followed by a blank line
func Text(w io.Writer, movies []models.Movie) error {
	for _, m := range movies {
		_, err := fmt.Fprintf(w, "标题: %s\n链接: %s\n评分: %s\n评论: %s\n图片: %s\n\n",
			m.Title, m.URL, m.RatingText, m.Tagline, m.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to print %q: %w", m.Title, err)
		}
	}
	return nil
}

// Table renders the movies as a rounded table
func Table(w io.Writer, movies []models.Movie) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "标题", "评分", "评论", "链接", "图片"})
	for i, m := range movies {
		rank := m.Rank
		if rank == 0 {
			rank = i + 1
		}
		t.AppendRow(table.Row{rank, m.Title, m.RatingText, m.Tagline, m.URL, m.ImageURL})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d movies", len(movies))})
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
	return nil
}

// JSON writes the movies as an indented array
func JSON(w io.Writer, movies []models.Movie) error {
	if movies == nil {
		movies = []models.Movie{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(movies); err != nil {
		return fmt.Errorf("failed to encode movies: %w", err)
	}
	return nil
}
