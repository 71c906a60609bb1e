package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/catkoreabeauty/shopcheck/internal/checks"
	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// ErrNoSessionFactories is returned when a run has no worker to execute on
var ErrNoSessionFactories = errors.New("at least one session factory is required")

// PageSession is a ready page whose browsing context must be closed after use
type PageSession interface {
	Page() checks.Page
	Close() error
}

// SessionFactory opens page sessions on one browser instance
type SessionFactory interface {
	Open(ctx context.Context) (PageSession, error)
}

// SessionFactoryFunc adapts a function to SessionFactory
type SessionFactoryFunc func(ctx context.Context) (PageSession, error)

// Open calls f(ctx)
func (f SessionFactoryFunc) Open(ctx context.Context) (PageSession, error) {
	return f(ctx)
}

// RunRecorder defines the interface for run persistence
type RunRecorder interface {
	CreateRun(run *models.Run) error
	RecordResult(result *models.CheckResult) error
	FinishRun(run *models.Run) error
}

// RunService executes a check suite and records the outcome
type RunService interface {
	Execute(ctx context.Context, targetURL string, suite []checks.Check) (*models.Run, error)
}

// RunServiceImpl implements RunService
type RunServiceImpl struct {
	factories []SessionFactory
	recorder  RunRecorder
	logger    *zap.Logger
}

// NewRunService creates a run service. Each factory is one worker with its
// own browser instance; checks are spread across them. A nil recorder keeps
// results in memory only.
func NewRunService(factories []SessionFactory, recorder RunRecorder, logger *zap.Logger) RunService {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &RunServiceImpl{
		factories: factories,
		recorder:  recorder,
		logger:    logger,
	}
}

// Execute runs every check in its own page session. A failing check never
// stops its siblings. Results keep suite order. When ctx is cancelled the
// remaining checks are reported as errors and the run is aborted.
func (s *RunServiceImpl) Execute(ctx context.Context, targetURL string, suite []checks.Check) (*models.Run, error) {
	if len(s.factories) == 0 {
		return nil, ErrNoSessionFactories
	}
	for i, c := range suite {
		if c.Name == "" || c.Run == nil {
			return nil, fmt.Errorf("check %d: %w", i, models.ErrInvalidCheckName)
		}
	}

	run, err := models.NewRun(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid run: %w", err)
	}
	if err := s.recorder.CreateRun(run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}

	logger := s.logger.With(zap.String("run_id", run.ID), zap.String("target", targetURL))
	logger.Info("Run started", zap.Int("checks", len(suite)), zap.Int("workers", len(s.factories)))

	results := make([]*models.CheckResult, len(suite))
	jobs := make(chan int)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range suite {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})
	for worker, factory := range s.factories {
		worker, factory := worker, factory
		g.Go(func() error {
			for i := range jobs {
				res := s.runCheck(gctx, logger.With(zap.Int("worker", worker)), factory, run.ID, suite[i])
				results[i] = &res
				if err := s.recorder.RecordResult(&res); err != nil {
					return fmt.Errorf("failed to record result %s: %w", res.Name, err)
				}
			}
			return nil
		})
	}
	runErr := g.Wait()

	for i, res := range results {
		if res == nil {
			cause := ctx.Err()
			if cause == nil {
				cause = context.Canceled
			}
			skipped, _ := models.NewCheckResult(run.ID, suite[i].Name, time.Now(), fmt.Errorf("not run: %w", cause))
			if runErr == nil {
				if err := s.recorder.RecordResult(&skipped); err != nil {
					runErr = fmt.Errorf("failed to record result %s: %w", skipped.Name, err)
				}
			}
			res = &skipped
		}
		if err := run.AddResult(*res); err != nil {
			return run, err
		}
	}

	if runErr != nil || ctx.Err() != nil {
		_ = run.Abort()
	} else {
		_ = run.Complete()
	}
	if err := s.recorder.FinishRun(run); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to finish run: %w", err)
	}

	counts := run.Counts()
	logger.Info("Run finished",
		zap.String("status", string(run.Status)),
		zap.Int("passed", counts[models.OutcomePassed]),
		zap.Int("failed", len(run.Results)-counts[models.OutcomePassed]),
		zap.Duration("duration", run.Duration()),
	)
	return run, runErr
}

func (s *RunServiceImpl) runCheck(ctx context.Context, logger *zap.Logger, factory SessionFactory, runID string, check checks.Check) models.CheckResult {
	logger = logger.With(zap.String("check", check.Name))
	started := time.Now()

	err := invoke(ctx, logger, factory, check)

	res, _ := models.NewCheckResult(runID, check.Name, started, err)
	if err != nil {
		logger.Warn("Check did not pass", zap.String("outcome", string(res.Outcome)), zap.Error(err))
	} else {
		logger.Info("Check passed", zap.Duration("duration", res.Duration()))
	}
	return res
}

// invoke opens a session, runs the check and closes the session on every
// exit path, including a panic inside the check.
func invoke(ctx context.Context, logger *zap.Logger, factory SessionFactory, check checks.Check) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("not run: %w", err)
	}

	session, err := factory.Open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open session: %w", err)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("check panicked: %v", r)
		}
		if closeErr := session.Close(); closeErr != nil {
			logger.Warn("Failed to close session.", zap.Error(closeErr))
		}
	}()

	return check.Run(ctx, session.Page())
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) CreateRun(*models.Run) error            { return nil }
func (NopRecorder) RecordResult(*models.CheckResult) error { return nil }
func (NopRecorder) FinishRun(*models.Run) error            { return nil }
