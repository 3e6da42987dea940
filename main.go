package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"

	"douban-top250/config"
	"douban-top250/db"
	"douban-top250/fetcher"
	"douban-top250/filter"
	"douban-top250/models"
	"douban-top250/parser"
	"douban-top250/printer"
	"douban-top250/renderer"
	"douban-top250/sheets"
	"douban-top250/storage"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options holds the command line flags that override the config file
type options struct {
	configPath string
	url        string
	format     string
	engine     string
	mode       string
	csvPath    string
	jsonPath   string
	sheet      string
	render     bool
	renderDir  string
	minRating  float64
	limit      int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "top250",
		Short:         "top250 scrapes the douban Top 250 list and prints every movie.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "config.yaml", "Path to configuration file")
	flags.StringVar(&opts.url, "url", config.DefaultURL, "Page to scrape")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, table or json")
	flags.StringVar(&opts.engine, "engine", "css", "Extraction engine: css or xpath")
	flags.StringVar(&opts.mode, "mode", "http", "Fetch mode: http or browser")
	flags.StringVar(&opts.csvPath, "csv", "", "Also write the movies to this CSV file")
	flags.StringVar(&opts.jsonPath, "json", "", "Also write the movies to this JSON file")
	flags.StringVar(&opts.sheet, "sheet", "", "Also write the movies to this Google Sheets spreadsheet (ID or URL)")
	flags.BoolVar(&opts.render, "render", false, "Download every poster as <title>.jpg")
	flags.StringVar(&opts.renderDir, "render-dir", ".", "Directory for downloaded posters")
	flags.Float64Var(&opts.minRating, "min-rating", 0, "Only keep movies rated at least this")
	flags.IntVar(&opts.limit, "limit", 0, "Keep at most this many movies (0 = all)")

	return cmd
}

// apply copies the flags the user actually set over the loaded config
func (o *options) apply(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("url") {
		cfg.Fetch.URL = o.url
	}
	if changed("format") {
		cfg.Output.Format = o.format
	}
	if changed("engine") {
		cfg.Parser.Engine = o.engine
	}
	if changed("mode") {
		cfg.Fetch.Mode = o.mode
	}
	if changed("csv") {
		cfg.Output.CSV = o.csvPath
	}
	if changed("json") {
		cfg.Output.JSON = o.jsonPath
	}
	if changed("sheet") {
		cfg.Output.Sheet = o.sheet
	}
	if changed("render") {
		cfg.Renderer.Enabled = o.render
	}
	if changed("render-dir") {
		cfg.Renderer.Dir = o.renderDir
	}
	if changed("min-rating") {
		cfg.Filters.MinRating = o.minRating
	}
	if changed("limit") {
		cfg.Filters.Limit = o.limit
	}

	return cfg.Normalize()
}

// loadConfig loads the YAML config, falling back to defaults when the file is absent
func loadConfig(configPath string) (*config.Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		log.Println("Config file not found. Using default configuration.")
		return config.GetDefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// run fetches the page once, extracts the movies and writes every requested output
func run(ctx context.Context, cfg *config.Config, out io.Writer) error {
	f, err := fetcher.New(cfg.Fetch)
	if err != nil {
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: Failed to close fetcher: %v\n", err)
		}
	}()

	htmlContent, err := f.Fetch(cfg.Fetch.URL)
	if err != nil {
		return err
	}

	extractor, err := parser.NewExtractor(cfg.Parser)
	if err != nil {
		return err
	}

	result, err := extractor.Extract(htmlContent)
	if err != nil {
		return fmt.Errorf("failed to extract movies from %s: %w", cfg.Fetch.URL, err)
	}
	for _, skipped := range result.Skipped {
		log.Printf("Warning: Skipping %v\n", skipped)
	}

	movies := filter.NewFilter(cfg.Filters).Apply(result.Movies)
	log.Printf("Extracted %d movies (%d skipped), %d after filtering\n",
		len(result.Movies), len(result.Skipped), len(movies))

	if err := printer.Print(out, cfg.Output.Format, movies); err != nil {
		return err
	}

	if err := export(ctx, cfg, movies); err != nil {
		return err
	}

	if cfg.Renderer.Enabled {
		renderPosters(ctx, cfg, f, movies)
	}
	return nil
}

// export writes the optional CSV/JSON files, spreadsheet and database rows
func export(ctx context.Context, cfg *config.Config, movies []models.Movie) error {
	if cfg.Output.CSV != "" {
		if err := storage.SaveCSV(cfg.Output.CSV, movies); err != nil {
			return fmt.Errorf("failed to save CSV: %w", err)
		}
		log.Printf("Saved %d movies to %s\n", len(movies), cfg.Output.CSV)
	}

	if cfg.Output.JSON != "" {
		if err := storage.SaveJSON(cfg.Output.JSON, movies); err != nil {
			return fmt.Errorf("failed to save JSON: %w", err)
		}
		log.Printf("Saved %d movies to %s\n", len(movies), cfg.Output.JSON)
	}

	if cfg.Output.Sheet != "" {
		writer, err := newSheetWriter(ctx, cfg.Output.Sheet, cfg.Output.SheetCredentials)
		if err != nil {
			return fmt.Errorf("failed to initialize Google Sheets: %w", err)
		}
		if err := writer.WriteMovies(ctx, cfg.Output.SheetTab, movies); err != nil {
			return err
		}
	}

	if cfg.Database.Enabled {
		database, err := db.NewDB(cfg.Database.DSN)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		if err := database.SaveMovies(ctx, movies); err != nil {
			return err
		}
		log.Printf("Saved %d movies to PostgreSQL\n", len(movies))
	}
	return nil
}

// newSheetWriter is swapped in tests to point at a local server
var newSheetWriter = sheets.NewWriter

// renderPosters downloads each poster; one failure does not stop the rest
func renderPosters(ctx context.Context, cfg *config.Config, f fetcher.Fetcher, movies []models.Movie) {
	downloader, ok := f.(fetcher.Downloader)
	if !ok {
		// The browser fetcher cannot return raw bytes
		downloader = fetcher.NewCollyFetcher(cfg.Fetch)
	}

	r := renderer.New(downloader, cfg.Renderer)
	for _, m := range movies {
		if _, err := r.Render(ctx, m.ImageURL, m.Title); err != nil {
			log.Printf("Warning: Failed to render poster for %q: %v\n", m.Title, err)
		}
	}
}
