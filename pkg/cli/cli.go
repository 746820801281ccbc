// Package cli provides the command-line interface for storefront-e2e.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/storefront-e2e/pkg/config"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/report"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Config file (default: config.yaml in the working directory)",
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"E2E_VERBOSE"},
	},
	&cli.StringFlag{
		Name:  "log-file",
		Usage: "Also write JSON logs to this file",
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
	&cli.StringFlag{
		Name:    "base-url",
		Usage:   "Storefront base URL",
		EnvVars: []string{"BASE_URL"},
	},
	&cli.StringFlag{
		Name:    "output-dir",
		Usage:   "Directory for downloads and screenshots",
		EnvVars: []string{"OUTPUT_DIR"},
	},
	&cli.IntFlag{
		Name:    "timeout",
		Usage:   "Per-wait timeout in milliseconds",
		EnvVars: []string{"TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "admin-user",
		Usage:   "Login email for authenticated checks",
		EnvVars: []string{"ADMIN_USER", "TEST_USER"},
	},
	&cli.StringFlag{
		Name:    "admin-password",
		Usage:   "Login password for authenticated checks",
		EnvVars: []string{"ADMIN_PASSWORD", "TEST_PASSWORD"},
	},
}

// NewApp builds the application. Output goes to stdout and stderr.
func NewApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:    "storefront-e2e",
		Usage:   "End-to-end checks and reports for the storefront",
		Version: Version,
		Description: `storefront-e2e runs API and browser checks against the storefront,
writes a results document and renders it as a self-contained HTML report.

Examples:
  storefront-e2e api --report
  storefront-e2e ui --headless=false --retries 1
  storefront-e2e report --results test-results/results.json --embed`,
		Flags: GlobalFlags,
		Commands: []*cli.Command{
			reportCommand,
			allureCommand,
			apiCommand,
			uiCommand,
		},
		Writer:    stdout,
		ErrWriter: stderr,
		Before: func(c *cli.Context) error {
			logger.SetOutput(zerolog.ConsoleWriter{
				Out:        stderr,
				TimeFormat: time.RFC3339,
				NoColor:    c.Bool("no-ansi") || os.Getenv("NO_COLOR") != "",
			})
			logger.SetVerbose(c.Bool("verbose"))
			if path := c.String("log-file"); path != "" {
				return logger.Init(path)
			}
			return nil
		},
		After: func(c *cli.Context) error {
			logger.Close()
			return nil
		},
		// Exit codes are handled by Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// Run executes the CLI and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	err := NewApp(stdout, stderr).Run(args)
	if err == nil {
		return 0
	}

	var exitErr cli.ExitCoder
	if errors.As(err, &exitErr) {
		if msg := exitErr.Error(); msg != "" {
			fmt.Fprintln(stderr, msg)
		}
		return exitErr.ExitCode()
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

// Execute runs the CLI and exits.
func Execute() {
	os.Exit(Run(os.Args, os.Stdout, os.Stderr))
}

// loadConfig layers defaults, the config file, the environment and the flags
// that were set explicitly, then validates the result.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadFromDir(".")
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}

	if c.IsSet("base-url") {
		cfg.BaseURL = c.String("base-url")
	}
	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Int("timeout")
	}
	if c.IsSet("admin-user") {
		cfg.AdminUser = c.String("admin-user")
	}
	if c.IsSet("admin-password") {
		cfg.AdminPassword = c.String("admin-password")
	}
	if c.IsSet("retries") {
		cfg.Retries = c.Int("retries")
	}
	if c.IsSet("headless") {
		cfg.Headless = c.Bool("headless")
	}
	if c.IsSet("data") {
		cfg.DataFile = c.String("data")
	}
	if c.IsSet("uploads") {
		cfg.UploadsDir = c.String("uploads")
	}
	if c.IsSet("title") {
		cfg.ReportTitle = c.String("title")
	}
	if c.IsSet("output") {
		cfg.ReportPath = c.String("output")
	}
	if c.IsSet("results") {
		cfg.ResultsPath = c.String("results")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("config: baseUrl=%s outputDir=%s timeout=%dms retries=%d",
		cfg.BaseURL, cfg.OutputDir, cfg.Timeout, cfg.Retries)
	return cfg, nil
}

// colorEnabled reports whether stdout output should carry ANSI colors.
func colorEnabled(c *cli.Context) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := c.App.Writer.(*os.File)
	if !ok {
		return false
	}
	return report.UseColor(f, c.Bool("no-ansi"))
}
