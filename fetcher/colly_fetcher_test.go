package fetcher

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"douban-top250/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{
		Mode:      "http",
		UserAgent: "top250-test",
		Timeout:   5 * time.Second,
	}
}

func TestCollyFetcher_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<ol class="grid_view"><li>肖申克的救赎</li></ol>`))
	}))
	defer server.Close()

	f := NewCollyFetcher(testFetchConfig())
	body, err := f.Fetch(server.URL + "/top250")
	require.NoError(t, err)

	assert.Contains(t, body, "肖申克的救赎")
	assert.Equal(t, "top250-test", gotUA)
}

func TestCollyFetcher_FetchTwiceSameURL(t *testing.T) {
	hits := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	f := NewCollyFetcher(testFetchConfig())
	first, err := f.Fetch(server.URL)
	require.NoError(t, err)
	second, err := f.Fetch(server.URL)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, hits)
}

func TestCollyFetcher_DelayBetweenRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<p>ok</p>"))
	}))
	defer server.Close()

	cfg := testFetchConfig()
	cfg.Delay = 150 * time.Millisecond
	f := NewCollyFetcher(cfg)

	start := time.Now()
	_, err := f.Fetch(server.URL)
	require.NoError(t, err)
	_, err = f.Fetch(server.URL)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), cfg.Delay)
}

func TestCollyFetcher_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "go away", http.StatusForbidden)
	}))
	defer server.Close()

	f := NewCollyFetcher(testFetchConfig())
	_, err := f.Fetch(server.URL)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestCollyFetcher_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	f := NewCollyFetcher(testFetchConfig())
	_, err := f.Fetch(url)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestCollyFetcher_Download(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0xe0, 0x00, 0x10}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	f := NewCollyFetcher(testFetchConfig())
	got, err := f.Download(server.URL + "/poster.jpg")
	require.NoError(t, err)

	assert.Equal(t, payload, got)
}

func TestNew_UnknownMode(t *testing.T) {
	cfg := testFetchConfig()
	cfg.Mode = "ftp"

	_, err := New(cfg)
	assert.Error(t, err)
}

func TestNew_HTTPMode(t *testing.T) {
	f, err := New(testFetchConfig())
	require.NoError(t, err)
	defer f.Close()

	_, ok := f.(*CollyFetcher)
	assert.True(t, ok)
}
