package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/catkoreabeauty/shopcheck/internal/config"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a connection pool to the run history database
func Connect(pgConfig *config.PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", pgConfig.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Runs write a handful of rows; keep the pool small
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
