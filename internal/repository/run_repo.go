package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// ErrRunNotFound is returned when no run matches the given ID
var ErrRunNotFound = errors.New("run not found")

// RunRepository handles database operations for check runs
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new run repository with a specific database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{
		db: db,
	}
}

// CreateRun inserts a new run
func (r *RunRepository) CreateRun(run *models.Run) error {
	query := `
		INSERT INTO check_runs (id, target_url, status, started_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(query, run.ID, run.TargetURL, run.Status, run.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// RecordResult inserts one check result
func (r *RunRepository) RecordResult(result *models.CheckResult) error {
	query := `
		INSERT INTO check_results (id, run_id, name, outcome, message, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(query,
		result.ID,
		result.RunID,
		result.Name,
		result.Outcome,
		result.Message,
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record result: %w", err)
	}

	return nil
}

// FinishRun stores the final status and finish time of a run
func (r *RunRepository) FinishRun(run *models.Run) error {
	query := `
		UPDATE check_runs
		SET status = $1, finished_at = $2
		WHERE id = $3
	`

	result, err := r.db.Exec(query, run.Status, run.FinishedAt, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrRunNotFound
	}

	return nil
}

// GetRun retrieves a run with its results in execution order
func (r *RunRepository) GetRun(id string) (*models.Run, error) {
	query := `
		SELECT id, target_url, status, started_at, finished_at
		FROM check_runs
		WHERE id = $1
	`

	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	results, err := r.listResults(id)
	if err != nil {
		return nil, err
	}
	run.Results = results

	return run, nil
}

// ListRuns returns the most recent runs, newest first, without their results
func (r *RunRepository) ListRuns(limit int) ([]*models.Run, error) {
	query := `
		SELECT id, target_url, status, started_at, finished_at
		FROM check_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

func (r *RunRepository) listResults(runID string) ([]models.CheckResult, error) {
	query := `
		SELECT id, run_id, name, outcome, message, started_at, finished_at
		FROM check_results
		WHERE run_id = $1
		ORDER BY started_at, name
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []models.CheckResult
	for rows.Next() {
		var res models.CheckResult
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Name,
			&res.Outcome,
			&res.Message,
			&res.StartedAt,
			&res.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	return results, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	run := &models.Run{}
	var finishedAt sql.NullTime
	if err := row.Scan(&run.ID, &run.TargetURL, &run.Status, &run.StartedAt, &finishedAt); err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return run, nil
}
