package fetcher

import (
	"fmt"
	"log"
	"os"
	"time"

	"douban-top250/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// RodFetcher implements the Fetcher interface using rod (headless browser)
type RodFetcher struct {
	browser   *rod.Browser
	userAgent string
	timeout   time.Duration
}

// NewRodFetcher launches a headless browser and connects to it
func NewRodFetcher(cfg config.FetchConfig) (*RodFetcher, error) {
	l := launcher.New().
		Headless(true).
		Set("disable-blink-features", "AutomationControlled").
		NoSandbox(true).
		Leakless(false).
		Set("disable-dev-shm-usage").
		Set("disable-gpu").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("disable-extensions").
		Set("mute-audio")

	// Prefer a system browser, rod downloads Chromium otherwise
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	} else if path, ok := launcher.LookPath(); ok {
		l = l.Bin(path)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &RodFetcher{
		browser:   browser,
		userAgent: cfg.UserAgent,
		timeout:   timeout,
	}, nil
}

// Close closes the browser
func (rf *RodFetcher) Close() error {
	if rf.browser != nil {
		return rf.browser.Close()
	}
	return nil
}

// Fetch implements the Fetcher interface
func (rf *RodFetcher) Fetch(url string) (string, error) {
	page, err := rf.browser.Timeout(rf.timeout).Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("%w: failed to create page: %w", ErrFetchFailed, err)
	}
	defer page.Close()

	if rf.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: rf.userAgent}); err != nil {
			log.Printf("Warning: Failed to set user agent: %v\n", err)
		}
	}

	if err := page.Navigate(url); err != nil {
		return "", fmt.Errorf("%w: failed to navigate to %s: %w", ErrFetchFailed, url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("%w: page %s did not load: %w", ErrFetchFailed, url, err)
	}

	if err := page.WaitStable(500 * time.Millisecond); err != nil {
		log.Printf("Warning: Page did not stabilize within timeout, continuing anyway: %v\n", err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("%w: failed to get HTML: %w", ErrFetchFailed, err)
	}

	log.Printf("Fetched %s in browser (%d bytes)\n", url, len(html))
	return html, nil
}
