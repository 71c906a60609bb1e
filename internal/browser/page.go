package browser

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// Page adapts a playwright.Page to the interactions the checks perform.
// Locator timeouts on interactions surface as models.ErrElementNotFound.
type Page struct {
	page playwright.Page
}

// NewPage wraps a playwright page
func NewPage(page playwright.Page) *Page {
	return &Page{page: page}
}

// Raw returns the underlying playwright page
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) Title() (string, error) {
	return p.page.Title()
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) Click(selector string) error {
	return locatorError(selector, p.page.Locator(selector).Click())
}

func (p *Page) Fill(selector, value string) error {
	return locatorError(selector, p.page.Locator(selector).Fill(value))
}

func (p *Page) Press(selector, key string) error {
	return locatorError(selector, p.page.Locator(selector).Press(key))
}

func (p *Page) WaitVisible(selector string, timeout time.Duration) error {
	opts := playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	}
	if timeout > 0 {
		opts.Timeout = playwright.Float(float64(timeout / time.Millisecond))
	}
	return locatorError(selector, p.page.Locator(selector).First().WaitFor(opts))
}

func (p *Page) FirstInnerText(selector string) (string, error) {
	text, err := p.page.Locator(selector).First().InnerText()
	return text, locatorError(selector, err)
}

// locatorError classifies a locator failure. Playwright reports a selector
// that never resolves as a timeout.
func locatorError(selector string, err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return fmt.Errorf("%w: %s: %w", models.ErrElementNotFound, selector, err)
	}
	return fmt.Errorf("%s: %w", selector, err)
}

func isTimeout(err error) bool {
	return errors.Is(err, playwright.ErrTimeout) || strings.Contains(err.Error(), "Timeout")
}
