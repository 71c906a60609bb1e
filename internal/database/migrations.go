package database

import (
	"database/sql"
	"fmt"
)

// Schema creates the run history tables
const Schema = `
	CREATE TABLE IF NOT EXISTS check_runs (
		id UUID PRIMARY KEY,
		target_url TEXT NOT NULL,
		status VARCHAR(50) NOT NULL,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS check_results (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES check_runs(id) ON DELETE CASCADE,
		name VARCHAR(255) NOT NULL,
		outcome VARCHAR(50) NOT NULL,
		message TEXT NOT NULL DEFAULT '',
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_check_runs_started_at ON check_runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_check_results_run_id ON check_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_check_results_outcome ON check_results(outcome);
	`

// RunMigrations creates the run history tables
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create run history tables: %w", err)
	}
	return nil
}
