//go:build e2e

package e2e

import (
	"fmt"
	"net"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/browser"
	internalcli "github.com/catkoreabeauty/shopcheck/internal/cli"
	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/handlers"
	"github.com/catkoreabeauty/shopcheck/internal/selectors"
)

var (
	manager       *browser.Manager
	browserConfig *config.BrowserConfig
	target        *config.TargetConfig
	registry      = selectors.Default()
)

// TestMain launches one browser for the whole suite. Without BASE_URL the
// bundled stub storefront is served on a random port and used as the target.
//
// Browsers must be installed first: go run ./cmd/shopcheck install
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	logger, err := internalcli.NewLogger(false, os.Getenv("VERBOSE") != "")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer logger.Sync()

	browserConfig, err = config.LoadBrowserConfig(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	target, err = config.LoadTargetConfig(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if os.Getenv("BASE_URL") == "" {
		stop, err := serveStub(logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer stop()
	}

	manager, err = browser.Launch(browserConfig, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer manager.Close()

	return m.Run()
}

func serveStub(logger *zap.Logger) (func(), error) {
	deps, err := internalcli.NewServerDependencies(config.ServerConfig{Port: "0"}, handlers.DefaultStorefront(), logger)
	if err != nil {
		return nil, err
	}
	listener, server, err := internalcli.StartServer(deps)
	if err != nil {
		return nil, err
	}
	target.BaseURL = fmt.Sprintf("http://127.0.0.1:%d/", listener.Addr().(*net.TCPAddr).Port)
	return func() {
		_ = server.Close()
		_ = listener.Close()
	}, nil
}

func sessionOptions() browser.SessionOptions {
	return browser.SessionOptions{
		BaseURL:       target.BaseURL,
		CookieTimeout: target.CookieTimeout,
		Selectors:     registry,
	}
}

// openPage gives the test a fresh context and page on the homepage with the
// cookie banner handled. The context is closed when the test ends, pass or fail.
func openPage(t *testing.T) *browser.Session {
	t.Helper()
	session, err := manager.OpenSession(t.Context(), sessionOptions())
	if err != nil {
		t.Fatalf("Failed to open page: %v", err)
	}
	t.Cleanup(func() {
		if err := session.Close(); err != nil {
			t.Errorf("Failed to close page: %v", err)
		}
	})
	return session
}
