// Package sheets exports movies to a Google Sheets spreadsheet.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"douban-top250/models"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// DefaultSheetName is the tab written when none is configured
const DefaultSheetName = "Top250"

var header = []interface{}{"Rank", "Title", "Link", "Rating", "Tagline", "Image"}

// Writer writes movies into one spreadsheet
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a Google Sheets writer authenticated with a service account.
// spreadsheet may be a bare ID or a full docs.google.com URL. Credentials are read
// from credentialsPath, or from GOOGLE_SHEETS_CREDENTIALS when the path is empty.
func NewWriter(ctx context.Context, spreadsheet, credentialsPath string) (*Writer, error) {
	credsJSON, err := loadCredentials(credentialsPath)
	if err != nil {
		return nil, err
	}
	return NewWriterWithOptions(ctx, spreadsheet, option.WithCredentialsJSON(credsJSON))
}

// NewWriterWithOptions creates a writer with explicit client options, such as
// a custom endpoint
func NewWriterWithOptions(ctx context.Context, spreadsheet string, opts ...option.ClientOption) (*Writer, error) {
	id := spreadsheet
	if strings.Contains(spreadsheet, "/d/") {
		id = ExtractSpreadsheetID(spreadsheet)
	}
	if id == "" {
		return nil, fmt.Errorf("no spreadsheet ID in %q", spreadsheet)
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: id,
	}, nil
}

// loadCredentials reads service account JSON from a file or the environment
func loadCredentials(credentialsPath string) ([]byte, error) {
	var credsJSON []byte

	if credentialsPath != "" {
		data, err := os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		credsJSON = data
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		log.Printf("Reading credentials from GOOGLE_SHEETS_CREDENTIALS environment variable (%d bytes)\n", len(credsEnv))
		credsJSON = []byte(credsEnv)
	}

	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON: %w", err)
	}
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}
	return credsJSON, nil
}

// WriteMovies replaces the contents of sheetName with a header row and one row per movie
func (w *Writer) WriteMovies(ctx context.Context, sheetName string, movies []models.Movie) error {
	sheetName = sanitizeSheetName(sheetName)
	if len(sheetName) > 100 {
		sheetName = sheetName[:100]
	}

	values := make([][]interface{}, 0, len(movies)+1)
	values = append(values, header)
	for _, m := range movies {
		values = append(values, movieRow(m))
	}

	// Clear first so a shorter list does not leave stale rows below it
	clearRange := sheetName + "!A:F"
	_, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		log.Printf("Warning: Failed to clear %s: %v\n", clearRange, err)
	}

	writeRange := sheetName + "!A1"
	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheet %s: %w", sheetName, err)
	}

	log.Printf("Successfully wrote %d movies to sheet '%s'\n", len(movies), sheetName)
	return nil
}

// movieRow stores the rating as a number when it parses so the sheet can sort on it
func movieRow(m models.Movie) []interface{} {
	var rating interface{} = m.RatingText
	if value, err := m.Rating(); err == nil {
		rating = value
	}
	var rank interface{} = ""
	if m.Rank > 0 {
		rank = m.Rank
	}
	return []interface{}{rank, m.Title, m.URL, rating, m.Tagline, m.ImageURL}
}

// sanitizeSheetName removes invalid characters from sheet name
func sanitizeSheetName(name string) string {
	// Google Sheets sheet names cannot contain: / \ ? * [ ]
	invalidChars := []string{"/", "\\", "?", "*", "[", "]"}
	result := name
	for _, char := range invalidChars {
		result = strings.ReplaceAll(result, char, "_")
	}
	result = strings.TrimSpace(result)
	if result == "" {
		result = DefaultSheetName
	}
	return result
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL,
// e.g. https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing
func ExtractSpreadsheetID(url string) string {
	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.IndexAny(idPart, "/?#"); idx != -1 {
		idPart = idPart[:idx]
	}
	return strings.TrimSpace(idPart)
}
