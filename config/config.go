package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultURL is the page scraped when nothing else is configured
const DefaultURL = "https://movie.douban.com/top250"

// DefaultUserAgent mimics a desktop browser, douban rejects the Go default
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config represents the scraper configuration
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch"`
	Parser   ParserConfig   `yaml:"parser"`
	Filters  FilterConfig   `yaml:"filters"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Renderer RendererConfig `yaml:"renderer"`
}

// FetchConfig controls how the page is downloaded
type FetchConfig struct {
	URL            string        `yaml:"url"`
	Mode           string        `yaml:"mode"` // "http" (colly) or "browser" (rod)
	UserAgent      string        `yaml:"user_agent"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
	DelaySeconds   int           `yaml:"delay_seconds"`
	Delay          time.Duration `yaml:"-"`
}

// ParserConfig selects the extraction engine and its selectors
type ParserConfig struct {
	Engine    string          `yaml:"engine"` // "css" (goquery) or "xpath" (htmlquery)
	Selectors SelectorsConfig `yaml:"selectors"`
}

// SelectorsConfig overrides the CSS selectors used by the css engine.
// Empty fields keep the built-in defaults.
type SelectorsConfig struct {
	Container string `yaml:"container"`
	Item      string `yaml:"item"`
	Title     string `yaml:"title"`
	Link      string `yaml:"link"`
	Rating    string `yaml:"rating"`
	Tagline   string `yaml:"tagline"`
	Image     string `yaml:"image"`
	Rank      string `yaml:"rank"`
}

// FilterConfig represents the filter criteria
type FilterConfig struct {
	MinRating float64 `yaml:"min_rating"`
	Limit     int     `yaml:"limit"`
}

// OutputConfig controls printing and file exports
type OutputConfig struct {
	Format string `yaml:"format"` // text, table or json
	CSV    string `yaml:"csv"`
	JSON   string `yaml:"json"`
	// Sheet is a Google Sheets spreadsheet ID or URL; empty disables the export
	Sheet            string `yaml:"sheet"`
	SheetTab         string `yaml:"sheet_tab"`
	SheetCredentials string `yaml:"sheet_credentials"` // falls back to GOOGLE_SHEETS_CREDENTIALS
}

// DatabaseConfig holds the optional PostgreSQL settings
type DatabaseConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// RendererConfig controls poster downloads
type RendererConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Dir         string `yaml:"dir"`
	OpenCommand string `yaml:"open_command"`
}

// LoadConfig loads configuration from a YAML file on top of the defaults
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := GetDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetDefaultConfig returns a default configuration
func GetDefaultConfig() *Config {
	cfg := &Config{}
	cfg.Fetch.URL = DefaultURL
	cfg.Fetch.Mode = "http"
	cfg.Fetch.UserAgent = DefaultUserAgent
	cfg.Fetch.TimeoutSeconds = 30
	cfg.Fetch.DelaySeconds = 1
	cfg.Parser.Engine = "css"
	cfg.Output.Format = "text"
	cfg.Renderer.Dir = "."
	_ = cfg.Normalize() // the defaults above are always valid
	return cfg
}

// Normalize fills derived fields and rejects unknown enum values.
// Call it again after changing fields by hand (e.g. from CLI flags).
func (c *Config) Normalize() error {
	if c.Fetch.URL == "" {
		c.Fetch.URL = DefaultURL
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = DefaultUserAgent
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Fetch.DelaySeconds < 0 {
		c.Fetch.DelaySeconds = 0
	}
	c.Fetch.Timeout = time.Duration(c.Fetch.TimeoutSeconds) * time.Second
	c.Fetch.Delay = time.Duration(c.Fetch.DelaySeconds) * time.Second

	if c.Renderer.Dir == "" {
		c.Renderer.Dir = "."
	}
	if c.Output.SheetTab == "" {
		c.Output.SheetTab = "Top250"
	}
	if c.Database.DSN == "" {
		c.Database.DSN = os.Getenv("DATABASE_URL")
	}

	switch c.Fetch.Mode {
	case "", "http":
		c.Fetch.Mode = "http"
	case "browser":
	default:
		return fmt.Errorf("unknown fetch mode %q (want http or browser)", c.Fetch.Mode)
	}

	switch c.Parser.Engine {
	case "", "css":
		c.Parser.Engine = "css"
	case "xpath":
	default:
		return fmt.Errorf("unknown parser engine %q (want css or xpath)", c.Parser.Engine)
	}

	switch c.Output.Format {
	case "", "text":
		c.Output.Format = "text"
	case "table", "json":
	default:
		return fmt.Errorf("unknown output format %q (want text, table or json)", c.Output.Format)
	}

	if c.Filters.MinRating < 0 {
		return fmt.Errorf("filters.min_rating must not be negative, got %v", c.Filters.MinRating)
	}
	return nil
}
