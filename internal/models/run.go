package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunStatus represents valid run states
type RunStatus string

// Run statuses
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusAborted   RunStatus = "aborted"
)

// Run is one execution of the check suite against a target
type Run struct {
	ID         string
	TargetURL  string
	Status     RunStatus
	Results    []CheckResult
	StartedAt  time.Time
	FinishedAt time.Time
}

// Domain errors
var (
	ErrInvalidTargetURL        = errors.New("target URL cannot be empty")
	ErrInvalidCheckName        = errors.New("check name cannot be empty")
	ErrInvalidRunTransition    = errors.New("invalid run status transition")
	ErrRunAlreadyFinished      = errors.New("run is already finished")
	ErrResultBelongsToOtherRun = errors.New("check result belongs to a different run")
)

// NewRun creates a new running run
func NewRun(targetURL string) (*Run, error) {
	if targetURL == "" {
		return nil, ErrInvalidTargetURL
	}

	return &Run{
		ID:        uuid.New().String(),
		TargetURL: targetURL,
		Status:    RunStatusRunning,
		StartedAt: time.Now(),
	}, nil
}

// AddResult appends a finished check result to the run
func (r *Run) AddResult(result CheckResult) error {
	if r.IsFinished() {
		return ErrRunAlreadyFinished
	}
	if result.RunID != r.ID {
		return fmt.Errorf("%w: %s", ErrResultBelongsToOtherRun, result.RunID)
	}

	r.Results = append(r.Results, result)
	return nil
}

// Complete marks the run as completed
func (r *Run) Complete() error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot complete run with status %s", ErrInvalidRunTransition, r.Status)
	}

	r.Status = RunStatusCompleted
	r.FinishedAt = time.Now()
	return nil
}

// Abort marks the run as aborted
func (r *Run) Abort() error {
	if r.Status != RunStatusRunning {
		return fmt.Errorf("%w: cannot abort run with status %s", ErrInvalidRunTransition, r.Status)
	}

	r.Status = RunStatusAborted
	r.FinishedAt = time.Now()
	return nil
}

// IsFinished returns true once the run left the running state
func (r *Run) IsFinished() bool {
	return r.Status != RunStatusRunning
}

// Passed returns true if the run completed and every result passed
func (r *Run) Passed() bool {
	if r.Status != RunStatusCompleted {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed() {
			return false
		}
	}
	return true
}

// Counts returns the number of results per outcome
func (r *Run) Counts() map[Outcome]int {
	counts := make(map[Outcome]int)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// Duration returns how long the run took, or took so far
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
