// Package selectors is the single source of truth for the locator expressions
// the checks use against the storefront markup.
//
// The expressions are a contract with the target site: a markup change breaks
// them silently until a check interacts with the element.
package selectors

import "fmt"

// Locator expressions for the Catkoreabeauty storefront
const (
	CookieAccept   = "button:has-text('Accept all')"
	ShopLink       = "#menu-item-27193 > a > span"
	SearchIcon     = "div.wd-header-search a"
	SearchInput    = "input.s.wd-search-inited"
	ResultsHeading = "h1"
)

// Registry maps semantic roles to locator expressions
type Registry struct {
	CookieAccept   string
	ShopLink       string
	SearchIcon     string
	SearchInput    string
	ResultsHeading string
}

// Default returns the registry for the live storefront
func Default() Registry {
	return Registry{
		CookieAccept:   CookieAccept,
		ShopLink:       ShopLink,
		SearchIcon:     SearchIcon,
		SearchInput:    SearchInput,
		ResultsHeading: ResultsHeading,
	}
}

// Validate rejects a registry with an empty role
func (r Registry) Validate() error {
	for _, role := range r.Roles() {
		if role.Selector == "" {
			return fmt.Errorf("selector for %s is empty", role.Name)
		}
	}
	return nil
}

// Role pairs a semantic role name with its selector
type Role struct {
	Name     string
	Selector string
}

// Roles lists every role in a stable order
func (r Registry) Roles() []Role {
	return []Role{
		{"cookie_accept", r.CookieAccept},
		{"shop_link", r.ShopLink},
		{"search_icon", r.SearchIcon},
		{"search_input", r.SearchInput},
		{"results_heading", r.ResultsHeading},
	}
}
