package db

import (
	"context"
	"database/sql"
	"fmt"

	"douban-top250/models"
)

const upsertMovieSQL = `
	INSERT INTO movies (rank, title, url, rating_text, rating, tagline, image_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (url) DO UPDATE SET
		rank = EXCLUDED.rank,
		title = EXCLUDED.title,
		rating_text = EXCLUDED.rating_text,
		rating = EXCLUDED.rating,
		tagline = EXCLUDED.tagline,
		image_url = EXCLUDED.image_url,
		scraped_at = CURRENT_TIMESTAMP
`

// SaveMovies upserts the movies by detail URL in a single transaction
func (db *DB) SaveMovies(ctx context.Context, movies []models.Movie) error {
	if len(movies) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, upsertMovieSQL)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, m := range movies {
		var rating sql.NullFloat64
		if value, err := m.Rating(); err == nil {
			rating = sql.NullFloat64{Float64: value, Valid: true}
		}

		_, err := stmt.ExecContext(ctx, m.Rank, m.Title, m.URL, m.RatingText, rating, m.Tagline, m.ImageURL)
		if err != nil {
			return fmt.Errorf("failed to save movie %q: %w", m.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit movies: %w", err)
	}
	return nil
}

// ListMovies returns the stored movies ordered by rank
func (db *DB) ListMovies(ctx context.Context) ([]models.Movie, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT rank, title, url, rating_text, tagline, image_url
		FROM movies
		ORDER BY rank, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.Rank, &m.Title, &m.URL, &m.RatingText, &m.Tagline, &m.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
