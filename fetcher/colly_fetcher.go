package fetcher

import (
	"fmt"
	"log"

	"douban-top250/config"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(cfg config.FetchConfig) *CollyFetcher {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}

	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)

	if cfg.Timeout > 0 {
		c.SetRequestTimeout(cfg.Timeout)
	}

	// One request at a time per host, with a pause afterwards
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       cfg.Delay,
	}); err != nil {
		log.Printf("Warning: Failed to set rate limit: %v\n", err)
	}

	return &CollyFetcher{
		collector: c,
	}
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(url string) (string, error) {
	body, err := cf.get(url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Download implements the Downloader interface
func (cf *CollyFetcher) Download(url string) ([]byte, error) {
	return cf.get(url)
}

// Close implements the Fetcher interface, colly holds nothing to release
func (cf *CollyFetcher) Close() error {
	return nil
}

// get runs one request on a clone so callbacks never pile up across calls
func (cf *CollyFetcher) get(url string) ([]byte, error) {
	c := cf.collector.Clone()

	var body []byte
	status := 0
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching %s (status %d): %v\n", r.Request.URL, r.StatusCode, err)
	})

	if err := c.Visit(url); err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrFetchFailed, url, err)
	}
	if body == nil && status == 0 {
		return nil, fmt.Errorf("%w: GET %s: no response", ErrFetchFailed, url)
	}

	log.Printf("Fetched %s (status %d, %d bytes)\n", url, status, len(body))
	return body, nil
}
