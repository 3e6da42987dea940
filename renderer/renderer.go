// Package renderer downloads movie posters and shows them.
//
// It is off by default. When enabled, every poster is written to
// <dir>/<title>.jpg, its header is decoded to check the download is an
// image, and the configured viewer (if any) is launched on the file.
package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"douban-top250/config"
	"douban-top250/fetcher"
)

// maxCollisions bounds the name-1, name-2, ... search
const maxCollisions = 1000

// Image is a poster written to disk
type Image struct {
	Path   string
	Format string
	Width  int
	Height int
}

// Renderer writes posters to a directory
type Renderer struct {
	downloader  fetcher.Downloader
	dir         string
	openCommand string
}

// New creates a Renderer that downloads through d
func New(d fetcher.Downloader, cfg config.RendererConfig) *Renderer {
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Renderer{
		downloader:  d,
		dir:         dir,
		openCommand: cfg.OpenCommand,
	}
}

// Render downloads imageURL, saves it under a name derived from label
// and opens it
func (r *Renderer) Render(ctx context.Context, imageURL, label string) (*Image, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("no image URL for %q", label)
	}

	data, err := r.downloader.Download(imageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to download image for %q: %w", label, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create image dir: %w", err)
	}

	path, err := r.writeUnique(sanitizeFileName(label), data)
	if err != nil {
		return nil, err
	}

	img, err := decodeHeader(path)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			log.Printf("Warning: Failed to remove %s: %v\n", path, rmErr)
		}
		return nil, err
	}
	log.Printf("Saved poster %s (%s, %dx%d)\n", img.Path, img.Format, img.Width, img.Height)

	if r.openCommand != "" {
		cmd := exec.CommandContext(ctx, r.openCommand, img.Path)
		if err := cmd.Start(); err != nil {
			log.Printf("Warning: Failed to open %s with %s: %v\n", img.Path, r.openCommand, err)
		} else {
			go cmd.Wait()
		}
	}

	return img, nil
}

// writeUnique creates <base>.jpg, or <base>-N.jpg when the name is taken
func (r *Renderer) writeUnique(base string, data []byte) (string, error) {
	for i := 0; i < maxCollisions; i++ {
		name := base + ".jpg"
		if i > 0 {
			name = base + "-" + strconv.Itoa(i) + ".jpg"
		}
		path := filepath.Join(r.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("could not create %s: %w", path, err)
		}

		_, writeErr := f.Write(data)
		closeErr := f.Close()
		if writeErr != nil {
			return "", fmt.Errorf("could not write %s: %w", path, writeErr)
		}
		if closeErr != nil {
			return "", fmt.Errorf("could not close %s: %w", path, closeErr)
		}
		return path, nil
	}
	return "", fmt.Errorf("too many files named %s.jpg in %s", base, r.dir)
}

func decodeHeader(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Image{Path: path, Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}

// sanitizeFileName removes characters that are invalid in file names
func sanitizeFileName(name string) string {
	invalidChars := []string{"/", "\\", "?", "*", ":", "|", "\"", "<", ">", "\x00"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.Trim(strings.TrimSpace(result), ".")
	if result == "" {
		result = "poster"
	}
	return result
}
