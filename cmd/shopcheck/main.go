package main

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/catkoreabeauty/shopcheck/internal/browser"
	internalcli "github.com/catkoreabeauty/shopcheck/internal/cli"
	"github.com/catkoreabeauty/shopcheck/internal/config"
	"github.com/catkoreabeauty/shopcheck/internal/database"
	"github.com/catkoreabeauty/shopcheck/internal/handlers"
	"github.com/catkoreabeauty/shopcheck/internal/repository"
	"github.com/catkoreabeauty/shopcheck/internal/selectors"
)

var version = "0.1.0"

var loggingFlags = []cli.Flag{
	&cli.BoolFlag{Name: "log-json", Usage: "emit logs as JSON"},
	&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
}

func newLogger(c *cli.Context) (*zap.Logger, error) {
	logger, err := internalcli.NewLogger(c.Bool("log-json"), c.Bool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// openHistory connects to PostgreSQL and makes sure the schema exists
func openHistory() (*sql.DB, *repository.RunRepository, error) {
	pgConfig, err := config.LoadPostgresConfig(os.Getenv)
	if err != nil {
		return nil, nil, fmt.Errorf("missing required database configuration: %w", err)
	}
	db, err := database.Connect(pgConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
	}
	return db, repository.NewRunRepository(db), nil
}

// startLocalStorefront serves the stub storefront on a random port and
// returns its base URL together with a stop function
func startLocalStorefront(logger *zap.Logger) (string, func(), error) {
	deps, err := internalcli.NewServerDependencies(config.ServerConfig{Port: "0"}, handlers.DefaultStorefront(), logger)
	if err != nil {
		return "", nil, err
	}
	listener, server, err := internalcli.StartServer(deps)
	if err != nil {
		return "", nil, err
	}
	port := listener.Addr().(*net.TCPAddr).Port
	stop := func() {
		_ = server.Close()
		_ = listener.Close()
	}
	return fmt.Sprintf("http://127.0.0.1:%d/", port), stop, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront checks",
		Flags: append([]cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "storefront to check (overrides BASE_URL)"},
			&cli.StringFlag{Name: "terms", Usage: "comma separated search terms (overrides SEARCH_TERMS)"},
			&cli.StringSliceFlag{Name: "only", Usage: "run only checks whose name contains this value"},
			&cli.IntFlag{Name: "workers", Value: 1, Usage: "number of browser instances"},
			&cli.BoolFlag{Name: "headless", Usage: "run the browser headless (overrides HEADLESS)"},
			&cli.DurationFlag{Name: "slow-mo", Usage: "delay between browser actions (overrides SLOW_MO)"},
			&cli.BoolFlag{Name: "local", Usage: "check the bundled stub storefront instead of a remote site"},
			&cli.BoolFlag{Name: "record", Usage: "store the run in PostgreSQL"},
			&cli.BoolFlag{Name: "json", Usage: "print the report as JSON"},
		}, loggingFlags...),
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			browserConfig, err := config.LoadBrowserConfig(os.Getenv)
			if err != nil {
				return err
			}
			if c.IsSet("headless") {
				browserConfig.Headless = c.Bool("headless")
			}
			if c.IsSet("slow-mo") {
				browserConfig.SlowMo = c.Duration("slow-mo")
			}

			targetConfig, err := config.LoadTargetConfig(os.Getenv)
			if err != nil {
				return err
			}
			if c.IsSet("base-url") {
				targetConfig.BaseURL = c.String("base-url")
			}
			if c.IsSet("terms") {
				targetConfig.SearchTerms = config.ParseSearchTerms(c.String("terms"))
			}
			if c.Bool("local") {
				baseURL, stop, err := startLocalStorefront(logger)
				if err != nil {
					return fmt.Errorf("failed to start local storefront: %w", err)
				}
				defer stop()
				targetConfig.BaseURL = baseURL
			}

			opts := internalcli.RunOptions{
				Browser:   browserConfig,
				Target:    targetConfig,
				Selectors: selectors.Default(),
				Workers:   c.Int("workers"),
				Only:      c.StringSlice("only"),
				Logger:    logger,
			}
			opts.Launch = internalcli.BrowserLauncher(browser.SessionOptions{
				BaseURL:       targetConfig.BaseURL,
				CookieTimeout: targetConfig.CookieTimeout,
				Selectors:     opts.Selectors,
			})

			if c.Bool("record") {
				db, repo, err := openHistory()
				if err != nil {
					return err
				}
				defer db.Close()
				opts.Recorder = repo
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			run, err := internalcli.RunChecks(ctx, opts)
			if run != nil {
				if reportErr := internalcli.WriteReport(c.App.Writer, run, c.Bool("json")); reportErr != nil {
					logger.Error("Failed to write report", zap.Error(reportErr))
				}
			}
			if err != nil {
				return err
			}
			if !run.Passed() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

// ServeCommand returns the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the stub storefront",
		Flags: loggingFlags,
		Action: func(c *cli.Context) error {
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			deps, err := internalcli.NewServerDependencies(config.LoadServerConfig(os.Getenv), handlers.DefaultStorefront(), logger)
			if err != nil {
				return err
			}
			return internalcli.RunServe(deps)
		},
	}
}

// InstallCommand returns the install command
func InstallCommand() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the Playwright driver and the configured browser",
		Action: func(c *cli.Context) error {
			browserConfig, err := config.LoadBrowserConfig(os.Getenv)
			if err != nil {
				return err
			}
			return browser.Install(browserConfig.Engine)
		},
	}
}

// HistoryCommand returns the history command
func HistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded runs",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: 20, Usage: "number of runs to list"},
			&cli.StringFlag{Name: "id", Usage: "show the full report of one run"},
			&cli.BoolFlag{Name: "json", Usage: "print as JSON"},
		},
		Action: func(c *cli.Context) error {
			db, repo, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			return internalcli.WriteHistory(c.App.Writer, repo, c.String("id"), c.Int("limit"), c.Bool("json"))
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "shopcheck",
		Usage:   "Browser checks for the Catkoreabeauty storefront",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ServeCommand(),
			InstallCommand(),
			HistoryCommand(),
		},
	}

	if err := app.RunContext(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
