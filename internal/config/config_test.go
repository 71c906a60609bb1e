package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// envMap returns a getenv function backed by a map
func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadBrowserConfig(t *testing.T) {
	tests := []struct {
		name         string
		env          map[string]string
		wantEngine   string
		wantHeadless bool
		wantSlowMo   time.Duration
		wantErr      string
	}{
		{
			name:         "defaults",
			env:          map[string]string{},
			wantEngine:   EngineChromium,
			wantHeadless: false,
			wantSlowMo:   2000 * time.Millisecond,
		},
		{
			name:         "headless true is case insensitive",
			env:          map[string]string{"HEADLESS": "TRUE", "SLOW_MO": "0"},
			wantEngine:   EngineChromium,
			wantHeadless: true,
			wantSlowMo:   0,
		},
		{
			name:         "anything but true is headed",
			env:          map[string]string{"HEADLESS": "1"},
			wantEngine:   EngineChromium,
			wantHeadless: false,
			wantSlowMo:   2000 * time.Millisecond,
		},
		{
			name:         "firefox engine",
			env:          map[string]string{"BROWSER": "Firefox", "SLOW_MO": "250"},
			wantEngine:   EngineFirefox,
			wantSlowMo:   250 * time.Millisecond,
		},
		{
			name:    "unknown engine",
			env:     map[string]string{"BROWSER": "netscape"},
			wantErr: "BROWSER must be one of",
		},
		{
			name:    "slow mo not a number",
			env:     map[string]string{"SLOW_MO": "fast"},
			wantErr: "SLOW_MO must be an integer",
		},
		{
			name:    "negative slow mo",
			env:     map[string]string{"SLOW_MO": "-5"},
			wantErr: "SLOW_MO cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadBrowserConfig(envMap(tt.env))

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if cfg.Engine != tt.wantEngine {
				t.Errorf("Engine = %s, want %s", cfg.Engine, tt.wantEngine)
			}
			if cfg.Headless != tt.wantHeadless {
				t.Errorf("Headless = %v, want %v", cfg.Headless, tt.wantHeadless)
			}
			if cfg.SlowMo != tt.wantSlowMo {
				t.Errorf("SlowMo = %v, want %v", cfg.SlowMo, tt.wantSlowMo)
			}
		})
	}
}

func TestBrowserConfig_SlowMoMillis(t *testing.T) {
	cfg := &BrowserConfig{SlowMo: 2 * time.Second}
	if got := cfg.SlowMoMillis(); got != 2000 {
		t.Errorf("SlowMoMillis() = %v, want 2000", got)
	}
}

func TestLoadTargetConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadTargetConfig(envMap(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BaseURL != DefaultBaseURL {
			t.Errorf("BaseURL = %s, want %s", cfg.BaseURL, DefaultBaseURL)
		}
		if cfg.Brand != "Catkoreabeauty" {
			t.Errorf("Brand = %s, want Catkoreabeauty", cfg.Brand)
		}
		if !reflect.DeepEqual(cfg.SearchTerms, DefaultSearchTerms) {
			t.Errorf("SearchTerms = %v, want %v", cfg.SearchTerms, DefaultSearchTerms)
		}
		if cfg.CookieTimeout != 3*time.Second {
			t.Errorf("CookieTimeout = %v, want 3s", cfg.CookieTimeout)
		}
		if cfg.ResultsTimeout != 0 {
			t.Errorf("ResultsTimeout = %v, want 0", cfg.ResultsTimeout)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		cfg, err := LoadTargetConfig(envMap(map[string]string{
			"BASE_URL":           "http://localhost:8080/",
			"SEARCH_TERMS":       "serum, milk",
			"COOKIE_TIMEOUT_MS":  "500",
			"RESULTS_TIMEOUT_MS": "4000",
		}))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.BaseURL != "http://localhost:8080/" {
			t.Errorf("BaseURL = %s", cfg.BaseURL)
		}
		if !reflect.DeepEqual(cfg.SearchTerms, []string{"serum", "milk"}) {
			t.Errorf("SearchTerms = %v", cfg.SearchTerms)
		}
		if cfg.CookieTimeout != 500*time.Millisecond {
			t.Errorf("CookieTimeout = %v", cfg.CookieTimeout)
		}
		if cfg.ResultsTimeout != 4*time.Second {
			t.Errorf("ResultsTimeout = %v", cfg.ResultsTimeout)
		}
	})

	t.Run("default terms are not shared", func(t *testing.T) {
		cfg, err := LoadTargetConfig(envMap(nil))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg.SearchTerms[0] = "mutated"
		if DefaultSearchTerms[0] != "serum" {
			t.Error("DefaultSearchTerms was mutated through the loaded config")
		}
	})

	invalid := []struct {
		name string
		env  map[string]string
	}{
		{"ftp base url", map[string]string{"BASE_URL": "ftp://catkoreabeauty.de/"}},
		{"base url without host", map[string]string{"BASE_URL": "https://"}},
		{"bad cookie timeout", map[string]string{"COOKIE_TIMEOUT_MS": "3s"}},
		{"bad results timeout", map[string]string{"RESULTS_TIMEOUT_MS": "-1"}},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTargetConfig(envMap(tt.env)); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestParseSearchTerms(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"", nil},
		{"serum", []string{"serum"}},
		{" serum , ampoule ,, seram ", []string{"serum", "ampoule", "seram"}},
		{"serum,Serum,milk", []string{"serum", "milk"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := ParseSearchTerms(tt.raw); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSearchTerms(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	if got := LoadServerConfig(envMap(nil)).Port; got != "8080" {
		t.Errorf("default port = %s, want 8080", got)
	}
	if got := LoadServerConfig(envMap(map[string]string{"PORT": "9090"})).Port; got != "9090" {
		t.Errorf("port = %s, want 9090", got)
	}
}

func TestLoadPostgresConfig(t *testing.T) {
	full := map[string]string{
		"POSTGRES_USER":     "shop",
		"POSTGRES_PASSWORD": "secret",
		"POSTGRES_DB":       "shopcheck",
		"POSTGRES_HOSTNAME": "db",
	}

	cfg, err := LoadPostgresConfig(envMap(full))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "host=db user=shop password=secret dbname=shopcheck sslmode=disable"
	if got := cfg.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}

	for key := range full {
		t.Run("missing "+key, func(t *testing.T) {
			env := make(map[string]string)
			for k, v := range full {
				env[k] = v
			}
			delete(env, key)

			_, err := LoadPostgresConfig(envMap(env))
			if err == nil || !strings.Contains(err.Error(), key) {
				t.Errorf("expected error naming %s, got %v", key, err)
			}
		})
	}
}
