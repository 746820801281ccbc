package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/storefront-e2e/pkg/api"
	"github.com/devicelab-dev/storefront-e2e/pkg/config"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/pages"
	"github.com/devicelab-dev/storefront-e2e/pkg/report"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
	"github.com/devicelab-dev/storefront-e2e/pkg/suite"
)

// Flags shared by the api and ui commands.
var runFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "results",
		Aliases: []string{"r"},
		Usage:   "Results JSON to write (default: " + config.DefaultResultsPath + ")",
		EnvVars: []string{"RESULTS_JSON"},
	},
	&cli.IntFlag{
		Name:  "retries",
		Usage: "Extra attempts for a failing check",
	},
	&cli.BoolFlag{
		Name:  "report",
		Usage: "Render the HTML report after the run",
	},
}

var apiCommand = &cli.Command{
	Name:  "api",
	Usage: "Run the REST API checks",
	Description: `Runs the API checks against the storefront and writes the results JSON.

Examples:
  storefront-e2e api
  storefront-e2e --base-url http://localhost:8080 api --retries 1 --report`,
	Flags:  runFlags,
	Action: runAPI,
}

var uiCommand = &cli.Command{
	Name:  "ui",
	Usage: "Run the browser checks in chromium",
	Description: `Runs the browser journey (login, catalog, cart, checkout, contact form)
and writes the results JSON. The output directory is cleared first.

Requires the playwright driver and chromium:
  go run github.com/playwright-community/playwright-go/cmd/playwright install --with-deps chromium

Examples:
  storefront-e2e ui
  storefront-e2e ui --headless=false --data datadriventest/testdata.csv`,
	Flags: append(append([]cli.Flag{}, runFlags...),
		&cli.BoolFlag{
			Name:  "headless",
			Usage: "Run chromium without a window",
			Value: true,
		},
		&cli.StringFlag{
			Name:  "data",
			Usage: "CSV file with contact form rows (default: " + config.DefaultDataFile + ")",
		},
		&cli.StringFlag{
			Name:  "uploads",
			Usage: "Directory contact form uploads are read from (default: " + config.DefaultUploadsDir + ")",
		},
	),
	Action: runUI,
}

func runAPI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	client := api.NewClient(cfg.BaseURL, cfg.WaitTimeout())
	checks := api.Checks(client, api.Credentials{Email: cfg.AdminUser, Password: cfg.AdminPassword})

	return runChecks(c, cfg, checks, nil)
}

func runUI(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	if err := suite.ClearDir(cfg.OutputDir); err != nil {
		return err
	}

	session, err := pages.Launch(cfg.Headless, cfg.WaitTimeout())
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			logger.Warn("close browser: %v", err)
		}
	}()

	return runChecks(c, cfg, pages.Journey(cfg, session), pages.ScreenshotOnFailure(session))
}

// runChecks executes checks, saves the results document and prints the
// summary. Any failed or timed-out check makes the command exit with 1.
func runChecks(c *cli.Context, cfg *config.Config, checks []suite.Check, onFailure func(context.Context, suite.Check, *suite.T)) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	color := colorEnabled(c)
	p := progress{w: c.App.Writer, color: color}

	runner := suite.Runner{
		Timeout:      cfg.CheckDeadline(),
		Retries:      cfg.Retries,
		Artifacts:    cfg.OutputDir,
		OnFailure:    onFailure,
		OnCheckStart: p.onCheckStart,
		OnCheckEnd:   p.onCheckEnd,
	}

	logger.Info("running %d checks against %s", len(checks), cfg.BaseURL)
	doc := runner.Run(ctx, checks)

	if err := results.Save(cfg.ResultsPath, doc); err != nil {
		return err
	}

	summary := report.Summarize(doc.Tests)
	fmt.Fprintln(c.App.Writer)
	report.PrintSummary(c.App.Writer, summary, color)
	report.PrintFailures(c.App.Writer, doc.Tests, color)
	fmt.Fprintf(c.App.Writer, "Results written: %s\n", cfg.ResultsPath)

	if c.Bool("report") {
		if _, err := report.Generate(cfg.ResultsPath, report.HTMLConfig{
			OutputPath: cfg.ReportPath,
			Title:      cfg.ReportTitle,
		}, c.App.Writer); err != nil {
			return err
		}
	}

	if summary.HasFailures() {
		return cli.Exit("", 1)
	}
	return nil
}
