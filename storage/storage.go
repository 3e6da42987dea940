package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"douban-top250/models"
)

var csvHeader = []string{"rank", "title", "url", "rating", "tagline", "image_url"}

// EncodeCSV encodes the movies as CSV with a header row.
func EncodeCSV(movies []models.Movie) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, m := range movies {
		row := []string{
			strconv.Itoa(m.Rank),
			m.Title,
			m.URL,
			m.RatingText,
			m.Tagline,
			m.ImageURL,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeJSON encodes the movies as a pretty JSON array.
func EncodeJSON(movies []models.Movie) ([]byte, error) {
	if movies == nil {
		movies = []models.Movie{}
	}
	return json.MarshalIndent(movies, "", "  ")
}

// SaveCSV writes the movies as CSV to path, creating parent directories.
func SaveCSV(path string, movies []models.Movie) error {
	data, err := EncodeCSV(movies)
	if err != nil {
		return fmt.Errorf("failed to encode csv: %w", err)
	}
	return writeFile(path, data)
}

// SaveJSON writes the movies as JSON to path, creating parent directories.
func SaveJSON(path string, movies []models.Movie) error {
	data, err := EncodeJSON(movies)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return writeFile(path, data)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("could not create output dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
