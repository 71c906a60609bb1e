package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the live storefront the checks run against
const DefaultBaseURL = "https://catkoreabeauty.de/"

// DefaultSearchTerms merges every term set the suite has historically used.
// "seram" is a deliberate misspelling; see DESIGN.md.
var DefaultSearchTerms = []string{"serum", "ampoule", "seram", "milk"}

// TargetConfig describes the site under test and the bounded waits used against it
type TargetConfig struct {
	BaseURL        string
	Brand          string
	SearchTerms    []string
	CookieTimeout  time.Duration
	ResultsTimeout time.Duration
}

// LoadTargetConfig loads target configuration from environment variables
func LoadTargetConfig(getenv func(string) string) (*TargetConfig, error) {
	config := &TargetConfig{
		BaseURL:     getenv("BASE_URL"),
		Brand:       "Catkoreabeauty",
		SearchTerms: ParseSearchTerms(getenv("SEARCH_TERMS")),
	}

	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if err := validateBaseURL(config.BaseURL); err != nil {
		return nil, err
	}
	if len(config.SearchTerms) == 0 {
		config.SearchTerms = append([]string(nil), DefaultSearchTerms...)
	}

	cookieTimeout, err := millisOrDefault(getenv, "COOKIE_TIMEOUT_MS", 3000)
	if err != nil {
		return nil, err
	}
	config.CookieTimeout = cookieTimeout

	resultsTimeout, err := millisOrDefault(getenv, "RESULTS_TIMEOUT_MS", 0)
	if err != nil {
		return nil, err
	}
	config.ResultsTimeout = resultsTimeout

	return config, nil
}

// ParseSearchTerms splits a comma separated list, dropping blanks and duplicates
func ParseSearchTerms(raw string) []string {
	var terms []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		term := strings.TrimSpace(part)
		if term == "" || seen[strings.ToLower(term)] {
			continue
		}
		seen[strings.ToLower(term)] = true
		terms = append(terms, term)
	}
	return terms
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("BASE_URL is invalid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BASE_URL must be an http or https URL: got %q", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("BASE_URL must include a host: got %q", raw)
	}
	return nil
}
