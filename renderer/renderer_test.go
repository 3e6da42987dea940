package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"douban-top250/config"
	"douban-top250/fetcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDownloader returns fixed bytes or an error
type stubDownloader struct {
	data []byte
	err  error
	urls []string
}

func (s *stubDownloader) Download(url string) ([]byte, error) {
	s.urls = append(s.urls, url)
	return s.data, s.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRender_WritesLabelledFile(t *testing.T) {
	dir := t.TempDir()
	d := &stubDownloader{data: pngBytes(t, 4, 3)}
	r := New(d, config.RendererConfig{Dir: dir})

	img, err := r.Render(context.Background(), "https://img/1.jpg", "肖申克的救赎")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "肖申克的救赎.jpg"), img.Path)
	assert.Equal(t, "png", img.Format)
	assert.Equal(t, 4, img.Width)
	assert.Equal(t, 3, img.Height)
	assert.Equal(t, []string{"https://img/1.jpg"}, d.urls)

	data, err := os.ReadFile(img.Path)
	require.NoError(t, err)
	assert.Equal(t, d.data, data)
}

func TestRender_CollisionGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	r := New(&stubDownloader{data: pngBytes(t, 1, 1)}, config.RendererConfig{Dir: dir})

	first, err := r.Render(context.Background(), "https://img/1.jpg", "Twin")
	require.NoError(t, err)
	second, err := r.Render(context.Background(), "https://img/2.jpg", "Twin")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Twin.jpg"), first.Path)
	assert.Equal(t, filepath.Join(dir, "Twin-1.jpg"), second.Path)
}

func TestRender_DownloadError(t *testing.T) {
	r := New(&stubDownloader{err: fetcher.ErrFetchFailed}, config.RendererConfig{Dir: t.TempDir()})

	_, err := r.Render(context.Background(), "https://img/1.jpg", "x")
	assert.True(t, errors.Is(err, fetcher.ErrFetchFailed))
}

func TestRender_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	r := New(&stubDownloader{data: []byte("<html>blocked</html>")}, config.RendererConfig{Dir: dir})

	_, err := r.Render(context.Background(), "https://img/1.jpg", "x")
	assert.ErrorContains(t, err, "failed to decode")

	// The rejected body is not left behind to push later runs onto x-1.jpg
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	r.downloader = &stubDownloader{data: pngBytes(t, 3, 2)}
	img, err := r.Render(context.Background(), "https://img/1.jpg", "x")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.jpg"), img.Path)
}

func TestRender_EmptyURL(t *testing.T) {
	d := &stubDownloader{}
	r := New(d, config.RendererConfig{Dir: t.TempDir()})

	_, err := r.Render(context.Background(), "", "x")
	assert.Error(t, err)
	assert.Empty(t, d.urls)
}

func TestRender_ThroughCollyFetcher(t *testing.T) {
	payload := pngBytes(t, 2, 2)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(payload)
	}))
	defer server.Close()

	f := fetcher.NewCollyFetcher(config.FetchConfig{UserAgent: "test", Timeout: 5 * time.Second})
	r := New(f, config.RendererConfig{Dir: t.TempDir()})

	img, err := r.Render(context.Background(), server.URL+"/p1.png", "Poster")
	require.NoError(t, err)
	assert.Equal(t, 2, img.Width)
}

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"肖申克的救赎", "肖申克的救赎"},
		{"AC/DC: Live?", "AC_DC_ Live_"},
		{"  ..  ", "poster"},
		{"", "poster"},
		{"../../etc/passwd", "_.._etc_passwd"},
	}

	for _, tt := range tests {
		if got := sanitizeFileName(tt.input); got != tt.expected {
			t.Errorf("sanitizeFileName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}
