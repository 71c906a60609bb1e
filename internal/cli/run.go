package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/browser"
	"github.com/catkoreabeauty/shopcheck/internal/checks"
	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/models"
	"github.com/catkoreabeauty/shopcheck/internal/selectors"
	"github.com/catkoreabeauty/shopcheck/internal/services"
)

// MaxWorkers caps how many browser instances a run may launch
const MaxWorkers = 8

// ErrNoChecksSelected is returned when --only filters out every check
var ErrNoChecksSelected = errors.New("no checks selected")

// Launcher starts one browser instance and returns a factory for sessions
// on it, plus the closer that tears the instance down.
type Launcher func(cfg *config.BrowserConfig, logger *zap.Logger) (services.SessionFactory, io.Closer, error)

// RunOptions holds everything a check run needs
type RunOptions struct {
	Browser   *config.BrowserConfig
	Target    *config.TargetConfig
	Selectors selectors.Registry
	Workers   int
	Only      []string
	Recorder  services.RunRecorder
	Logger    *zap.Logger
	Launch    Launcher
}

// BrowserLauncher launches a real browser through Playwright. Every session
// opened on it navigates to opts.BaseURL and dismisses the cookie banner.
func BrowserLauncher(opts browser.SessionOptions) Launcher {
	return func(cfg *config.BrowserConfig, logger *zap.Logger) (services.SessionFactory, io.Closer, error) {
		manager, err := browser.Launch(cfg, logger)
		if err != nil {
			return nil, nil, err
		}

		factory := services.SessionFactoryFunc(func(ctx context.Context) (services.PageSession, error) {
			session, err := manager.OpenSession(ctx, opts)
			if err != nil {
				return nil, err
			}
			return session, nil
		})
		return factory, manager, nil
	}
}

// RunChecks builds the suite, launches one browser per worker and executes
// the run. Browsers are closed before returning, whatever the outcome.
func RunChecks(ctx context.Context, opts RunOptions) (*models.Run, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Browser == nil || opts.Target == nil {
		return nil, errors.New("browser and target configuration are required")
	}
	if opts.Launch == nil {
		return nil, errors.New("a browser launcher is required")
	}
	if err := opts.Selectors.Validate(); err != nil {
		return nil, err
	}

	suite := checks.Filter(checks.Suite(opts.Target, opts.Selectors), opts.Only)
	if len(suite) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoChecksSelected, opts.Only)
	}

	workers := clampWorkers(opts.Workers, len(suite))
	factories := make([]services.SessionFactory, 0, workers)
	for i := 0; i < workers; i++ {
		factory, closer, err := opts.Launch(opts.Browser, logger.With(zap.Int("worker", i)))
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", i, err)
		}
		defer func() {
			if err := closer.Close(); err != nil {
				logger.Warn("Failed to close browser.", zap.Int("worker", i), zap.Error(err))
			}
		}()
		factories = append(factories, factory)
	}

	svc := services.NewRunService(factories, opts.Recorder, logger)
	return svc.Execute(ctx, opts.Target.BaseURL, suite)
}

func clampWorkers(requested, checks int) int {
	n := requested
	if n < 1 {
		n = 1
	}
	if n > MaxWorkers {
		n = MaxWorkers
	}
	if n > checks {
		n = checks
	}
	return n
}
