package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Supported browser engines
const (
	EngineChromium = "chromium"
	EngineFirefox  = "firefox"
	EngineWebKit   = "webkit"
)

// BrowserConfig holds configuration for the shared browser instance
type BrowserConfig struct {
	Engine   string
	Headless bool
	SlowMo   time.Duration
}

// LoadBrowserConfig loads browser configuration from environment variables.
// HEADLESS defaults to false and SLOW_MO to 2000 milliseconds.
func LoadBrowserConfig(getenv func(string) string) (*BrowserConfig, error) {
	config := &BrowserConfig{
		Engine: strings.ToLower(getenv("BROWSER")),
	}

	if config.Engine == "" {
		config.Engine = EngineChromium
	}
	switch config.Engine {
	case EngineChromium, EngineFirefox, EngineWebKit:
	default:
		return nil, fmt.Errorf("BROWSER must be one of chromium, firefox, webkit: got %q", config.Engine)
	}

	config.Headless = strings.EqualFold(getenv("HEADLESS"), "true")

	slowMo, err := millisOrDefault(getenv, "SLOW_MO", 2000)
	if err != nil {
		return nil, err
	}
	config.SlowMo = slowMo

	return config, nil
}

// SlowMoMillis returns the inter-action delay in milliseconds
func (c *BrowserConfig) SlowMoMillis() float64 {
	return float64(c.SlowMo / time.Millisecond)
}

func millisOrDefault(getenv func(string) string, key string, def int) (time.Duration, error) {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return time.Duration(def) * time.Millisecond, nil
	}

	ms, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer number of milliseconds: %w", key, err)
	}
	if ms < 0 {
		return 0, fmt.Errorf("%s cannot be negative", key)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
