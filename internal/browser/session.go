package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/checks"
	"github.com/catkoreabeauty/shopcheck/internal/selectors"
)

// ErrManagerClosed is returned when a session is requested after Close
var ErrManagerClosed = errors.New("browser manager is closed")

// SessionOptions configures a page session
type SessionOptions struct {
	BaseURL       string
	CookieTimeout time.Duration
	Selectors     selectors.Registry
	// DefaultTimeout bounds every page action. Zero keeps the Playwright default.
	DefaultTimeout time.Duration
}

// Session is one isolated browsing context with a single page, navigated to
// the target and with the cookie banner dismissed when it showed up.
type Session struct {
	ID string

	page      *Page
	logger    *zap.Logger
	closeFn   func() error
	closeOnce sync.Once
	closeErr  error
}

// OpenSession creates a fresh context and page, navigates to opts.BaseURL and
// dismisses the cookie banner best-effort. On navigation failure the context
// is closed before returning.
func (m *Manager) OpenSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.isClosed() {
		return nil, ErrManagerClosed
	}

	browserCtx, err := m.browser.NewContext()
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	if opts.DefaultTimeout > 0 {
		browserCtx.SetDefaultTimeout(float64(opts.DefaultTimeout / time.Millisecond))
	}

	id := uuid.New().String()
	s := &Session{
		ID:     id,
		logger: m.logger.With(zap.String("session_id", id)),
		closeFn: func() error {
			return browserCtx.Close()
		},
	}

	pwPage, err := browserCtx.NewPage()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.page = NewPage(pwPage)

	s.logger.Debug("Navigating to target", zap.String("url", opts.BaseURL))
	if _, err := pwPage.Goto(opts.BaseURL); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", opts.BaseURL, err)
	}

	s.DismissCookieBanner(opts.Selectors.CookieAccept, opts.CookieTimeout)
	return s, nil
}

// Page returns the ready page
func (s *Session) Page() checks.Page {
	return s.page
}

// Raw returns the underlying playwright page
func (s *Session) Raw() playwright.Page {
	return s.page.Raw()
}

// DismissCookieBanner waits up to timeout for the consent button and clicks
// it. A banner that never appears, or any error on the way, is not a failure;
// the return value only reports whether a click happened.
func (s *Session) DismissCookieBanner(selector string, timeout time.Duration) bool {
	return dismissCookieBanner(s.page, selector, timeout, s.logger)
}

type bannerPage interface {
	WaitVisible(selector string, timeout time.Duration) error
	Click(selector string) error
}

func dismissCookieBanner(page bannerPage, selector string, timeout time.Duration, logger *zap.Logger) bool {
	if err := page.WaitVisible(selector, timeout); err != nil {
		logger.Debug("Cookie banner not shown.", zap.Duration("timeout", timeout), zap.Error(err))
		return false
	}
	if err := page.Click(selector); err != nil {
		logger.Debug("Cookie banner click failed (non critical).", zap.Error(err))
		return false
	}
	logger.Debug("Cookie banner dismissed.")
	return true
}

// Close closes the browsing context. Only the first call does any work;
// later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.closeFn()
		if s.closeErr != nil {
			s.logger.Warn("Error while closing browser context.", zap.Error(s.closeErr))
			return
		}
		s.logger.Debug("Browser context closed.")
	})
	return s.closeErr
}
