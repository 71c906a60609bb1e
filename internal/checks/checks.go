// Package checks holds the storefront assertions. Each check drives a ready
// page through the Page interface and returns nil, a *models.AssertionError,
// or an error wrapping models.ErrElementNotFound.
package checks

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/models"
	"github.com/catkoreabeauty/shopcheck/internal/selectors"
)

// Page is the subset of browser page behavior the checks depend on
type Page interface {
	Title() (string, error)
	URL() string
	Click(selector string) error
	Fill(selector, value string) error
	Press(selector, key string) error
	// WaitVisible waits for the first match of selector to become visible.
	// A zero timeout means the page default.
	WaitVisible(selector string, timeout time.Duration) error
	FirstInnerText(selector string) (string, error)
}

// Func runs one check against a ready page
type Func func(ctx context.Context, page Page) error

// Check is a named, independent assertion against the storefront
type Check struct {
	Name string
	Run  Func
}

// Suite builds the full list of checks: title, shop navigation and one
// search check per configured term.
func Suite(target *config.TargetConfig, sel selectors.Registry) []Check {
	suite := []Check{
		HomepageTitle(target.Brand),
		ShopNavigation(sel),
	}
	for _, term := range target.SearchTerms {
		suite = append(suite, Search(sel, term, target.ResultsTimeout))
	}
	return suite
}

// Filter keeps the checks whose name contains any of the given substrings.
// An empty filter keeps everything.
func Filter(suite []Check, names []string) []Check {
	if len(names) == 0 {
		return suite
	}

	var kept []Check
	for _, c := range suite {
		for _, n := range names {
			if strings.Contains(c.Name, n) {
				kept = append(kept, c)
				break
			}
		}
	}
	return kept
}

// Names returns the check names in order
func Names(suite []Check) []string {
	names := make([]string, len(suite))
	for i, c := range suite {
		names[i] = c.Name
	}
	return names
}

func assertContains(subject, actual, expected string) error {
	if strings.Contains(actual, expected) {
		return nil
	}
	return &models.AssertionError{Subject: subject, Expected: expected, Actual: actual}
}

func step(ctx context.Context, what string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}
