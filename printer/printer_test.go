package printer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"douban-top250/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shawshank = models.Movie{
	Rank:       1,
	Title:      "肖申克的救赎",
	URL:        "https://movie.douban.com/subject/1292052/",
	RatingText: "9.7",
	Tagline:    "希望让人自由。",
	ImageURL:   "https://img/1.jpg",
}

func TestText_SingleMovie(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, []models.Movie{shawshank}))

	want := "标题: 肖申克的救赎\n" +
		"链接: https://movie.douban.com/subject/1292052/\n" +
		"评分: 9.7\n" +
		"评论: 希望让人自由。\n" +
		"图片: https://img/1.jpg\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestText_KeepsOrder(t *testing.T) {
	second := shawshank
	second.Title = "霸王别姬"

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, []models.Movie{shawshank, second}))

	out := buf.String()
	assert.Less(t, strings.Index(out, "肖申克的救赎"), strings.Index(out, "霸王别姬"))
	assert.Equal(t, 12, strings.Count(out, "\n"))
}

func TestText_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, []models.Movie{shawshank}))

	out := buf.String()
	assert.Contains(t, out, "肖申克的救赎")
	assert.Contains(t, out, "9.7")
	assert.Contains(t, out, "https://img/1.jpg")
	assert.Contains(t, out, "1 movies")
	assert.NotContains(t, out, "1 MOVIES")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, []models.Movie{shawshank}))

	var got []models.Movie
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, []models.Movie{shawshank}, got)
	assert.Contains(t, buf.String(), `"rating": "9.7"`)
}

func TestJSON_EmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestPrint_UnknownFormat(t *testing.T) {
	assert.Error(t, Print(&bytes.Buffer{}, "xml", nil))
}
