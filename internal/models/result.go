package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a single check ended
type Outcome string

// Check outcomes
const (
	OutcomePassed          Outcome = "passed"
	OutcomeAssertionFailed Outcome = "assertion_failed"
	OutcomeElementNotFound Outcome = "element_not_found"
	OutcomeError           Outcome = "error"
)

// Error kinds surfaced by browser checks
var (
	// ErrLaunch aborts the whole run.
	ErrLaunch = errors.New("browser launch failed")
	// ErrElementNotFound means a selector resolved to nothing when an
	// interaction was attempted.
	ErrElementNotFound = errors.New("element not found")
)

// AssertionError reports an expected substring missing from an observed value
type AssertionError struct {
	Subject  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s does not contain %q: %s", e.Subject, e.Expected, e.Actual)
}

// CheckResult is the recorded outcome of one check within a run
type CheckResult struct {
	ID         string
	RunID      string
	Name       string
	Outcome    Outcome
	Message    string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewCheckResult builds a result for the named check, classifying err
func NewCheckResult(runID, name string, startedAt time.Time, err error) (CheckResult, error) {
	if name == "" {
		return CheckResult{}, ErrInvalidCheckName
	}

	res := CheckResult{
		ID:         uuid.New().String(),
		RunID:      runID,
		Name:       name,
		Outcome:    Classify(err),
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if err != nil {
		res.Message = err.Error()
	}
	return res, nil
}

// Classify maps an error returned by a check onto an outcome
func Classify(err error) Outcome {
	var assertErr *AssertionError
	switch {
	case err == nil:
		return OutcomePassed
	case errors.As(err, &assertErr):
		return OutcomeAssertionFailed
	case errors.Is(err, ErrElementNotFound):
		return OutcomeElementNotFound
	default:
		return OutcomeError
	}
}

// Passed returns true if the check passed
func (c CheckResult) Passed() bool {
	return c.Outcome == OutcomePassed
}

// Duration returns how long the check took
func (c CheckResult) Duration() time.Duration {
	return c.FinishedAt.Sub(c.StartedAt)
}
