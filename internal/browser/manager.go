// Package browser owns the Playwright driver, the shared browser process and
// the per-check page sessions opened on it.
package browser

import (
	"errors"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// Manager owns one browser process for the lifetime of a run
type Manager struct {
	mu      sync.Mutex
	cfg     config.BrowserConfig
	logger  *zap.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	closed  bool
}

// Launch starts the Playwright driver and the configured browser engine.
// Any failure is reported as models.ErrLaunch; there are no retries.
func Launch(cfg *config.BrowserConfig, logger *zap.Logger) (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("%w: start playwright: %w", models.ErrLaunch, err)
	}

	browserType, err := engine(pw, cfg.Engine)
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: %w", models.ErrLaunch, err)
	}

	b, err := browserType.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		SlowMo:   playwright.Float(cfg.SlowMoMillis()),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("%w: launch %s: %w", models.ErrLaunch, cfg.Engine, err)
	}

	logger.Info("Browser launched",
		zap.String("engine", cfg.Engine),
		zap.Bool("headless", cfg.Headless),
		zap.Duration("slow_mo", cfg.SlowMo),
		zap.String("version", b.Version()),
	)

	return &Manager{
		cfg:     *cfg,
		logger:  logger,
		pw:      pw,
		browser: b,
	}, nil
}

// Install downloads the Playwright driver and the given browser engine
func Install(engineName string) error {
	if err := playwright.Install(&playwright.RunOptions{Browsers: []string{engineName}}); err != nil {
		return fmt.Errorf("failed to install playwright %s: %w", engineName, err)
	}
	return nil
}

// Browser returns the running browser handle
func (m *Manager) Browser() playwright.Browser {
	return m.browser
}

// Close releases the browser and the driver. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if err := m.browser.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close browser: %w", err))
	}
	if err := m.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop playwright: %w", err))
	}

	m.logger.Info("Browser closed", zap.String("engine", m.cfg.Engine))
	return errors.Join(errs...)
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func engine(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case config.EngineChromium, "":
		return pw.Chromium, nil
	case config.EngineFirefox:
		return pw.Firefox, nil
	case config.EngineWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser engine %q", name)
	}
}
