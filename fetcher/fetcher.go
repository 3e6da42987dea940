package fetcher

import (
	"errors"
	"fmt"

	"douban-top250/config"
)

// ErrFetchFailed wraps every network or HTTP status failure
var ErrFetchFailed = errors.New("fetch failed")

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch performs a single GET of url and returns the response body as text
	Fetch(url string) (string, error)
	// Close releases any resources held by the fetcher
	Close() error
}

// Downloader returns raw response bytes, used for images
type Downloader interface {
	Download(url string) ([]byte, error)
}

// New builds the fetcher selected by cfg.Mode
func New(cfg config.FetchConfig) (Fetcher, error) {
	switch cfg.Mode {
	case "", "http":
		return NewCollyFetcher(cfg), nil
	case "browser":
		return NewRodFetcher(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", cfg.Mode)
	}
}
