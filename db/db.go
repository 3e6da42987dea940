package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// NewDB opens a PostgreSQL connection and makes sure the schema exists.
// An empty dsn falls back to DATABASE_URL and then to the DB_* variables.
func NewDB(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		host := getEnvOrDefault("DB_HOST", "localhost")
		port := getEnvOrDefault("DB_PORT", "5432")
		user := getEnvOrDefault("DB_USER", "top250")
		password := getEnvOrDefault("DB_PASSWORD", "")
		dbname := getEnvOrDefault("DB_NAME", "top250")
		sslmode := getEnvOrDefault("DB_SSLMODE", "disable")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, password, dbname, sslmode)
	}

	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db, err := newDB(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// newDB wraps an open connection and initializes the schema
func newDB(conn *sql.DB) (*DB, error) {
	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return db, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the movies table if it doesn't exist
func (db *DB) initSchema() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS movies (
			id SERIAL PRIMARY KEY,
			rank INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL,
			url TEXT NOT NULL UNIQUE,
			rating_text VARCHAR(16) NOT NULL,
			rating DOUBLE PRECISION,
			tagline TEXT NOT NULL DEFAULT '',
			image_url TEXT NOT NULL DEFAULT '',
			scraped_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create movies table: %w", err)
	}

	_, err = db.conn.Exec(`CREATE INDEX IF NOT EXISTS idx_movies_rank ON movies(rank)`)
	if err != nil {
		log.Printf("Warning: Failed to create index on movies.rank: %v\n", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}
