package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"douban-top250/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleMovies() []models.Movie {
	return []models.Movie{
		{Rank: 1, Title: "肖申克的救赎", URL: "https://movie.douban.com/subject/1292052/", RatingText: "9.7", Tagline: "希望让人自由。", ImageURL: "https://img/1.jpg"},
		{Rank: 2, Title: "Comma, inside", URL: "https://movie.douban.com/subject/2/", RatingText: "9.6", Tagline: "Line1\nLine2"},
	}
}

func TestEncodeCSV_AndReadBack(t *testing.T) {
	data, err := EncodeCSV(sampleMovies())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"1", "肖申克的救赎", "https://movie.douban.com/subject/1292052/", "9.7", "希望让人自由。", "https://img/1.jpg"}, rows[1])
	assert.Equal(t, "Comma, inside", rows[2][1])
	assert.Equal(t, "Line1\nLine2", rows[2][4])
}

func TestEncodeJSON_Empty(t *testing.T) {
	data, err := EncodeJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestSaveCSV_CreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "movies.csv")
	require.NoError(t, SaveCSV(path, sampleMovies()))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestSaveJSON_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	require.NoError(t, SaveJSON(path, sampleMovies()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got []models.Movie
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleMovies(), got)
}
