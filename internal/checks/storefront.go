package checks

import (
	"context"
	"strings"
	"time"

	"github.com/catkoreabeauty/shopcheck/internal/selectors"
)

// HomepageTitle asserts the page title contains brand. The match is case-sensitive.
func HomepageTitle(brand string) Check {
	return Check{
		Name: "homepage_title",
		Run: func(ctx context.Context, page Page) error {
			var title string
			err := step(ctx, "read title", func() (err error) {
				title, err = page.Title()
				return err
			})
			if err != nil {
				return err
			}
			return assertContains("title", title, brand)
		},
	}
}

// ShopNavigation clicks the shop link and asserts the resulting URL mentions "shop"
func ShopNavigation(sel selectors.Registry) Check {
	return Check{
		Name: "shop_navigation",
		Run: func(ctx context.Context, page Page) error {
			err := step(ctx, "click shop link", func() error {
				return page.Click(sel.ShopLink)
			})
			if err != nil {
				return err
			}
			return assertContains("url", strings.ToLower(page.URL()), "shop")
		},
	}
}

// Search submits term through the header search and asserts both the URL and
// the first results heading echo it. Comparison is case-insensitive.
func Search(sel selectors.Registry, term string, resultsTimeout time.Duration) Check {
	want := strings.ToLower(term)

	return Check{
		Name: "search/" + term,
		Run: func(ctx context.Context, page Page) error {
			steps := []struct {
				what string
				fn   func() error
			}{
				{"click search icon", func() error { return page.Click(sel.SearchIcon) }},
				{"fill search input", func() error { return page.Fill(sel.SearchInput, term) }},
				{"submit search", func() error { return page.Press(sel.SearchInput, "Enter") }},
				{"wait for results heading", func() error { return page.WaitVisible(sel.ResultsHeading, resultsTimeout) }},
			}
			for _, s := range steps {
				if err := step(ctx, s.what, s.fn); err != nil {
					return err
				}
			}

			var heading string
			err := step(ctx, "read results heading", func() (err error) {
				heading, err = page.FirstInnerText(sel.ResultsHeading)
				return err
			})
			if err != nil {
				return err
			}

			if err := assertContains("url", strings.ToLower(page.URL()), want); err != nil {
				return err
			}
			return assertContains("results heading", strings.ToLower(heading), want)
		},
	}
}
