package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/storefront-e2e/pkg/config"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/report"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

var reportCommand = &cli.Command{
	Name:  "report",
	Usage: "Render a results document as an HTML report",
	Description: `Reads the results JSON and writes a self-contained HTML report.

Examples:
  storefront-e2e report
  storefront-e2e report --results out/results.json --output out/report.html
  storefront-e2e report --watch --notify "generic://hooks.example.com/ci"`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Results JSON to read (default: " + config.DefaultResultsPath + ")",
			EnvVars: []string{"RESULTS_JSON"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "HTML file to write (default: " + config.DefaultReportPath + ")",
			EnvVars: []string{"REPORT_HTML"},
		},
		&cli.StringFlag{
			Name:  "title",
			Usage: "Report title",
		},
		&cli.BoolFlag{
			Name:  "embed",
			Usage: "Inline screenshots as data URIs",
		},
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "Also print the summary table",
		},
		&cli.BoolFlag{
			Name:  "watch",
			Usage: "Regenerate whenever the results JSON changes",
		},
		&cli.StringFlag{
			Name:  "notify",
			Usage: "shoutrrr URL to post the run summary to",
		},
	},
	Action: runReport,
}

func runReport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	htmlCfg := report.HTMLConfig{
		OutputPath: cfg.ReportPath,
		Title:      cfg.ReportTitle,
		Embed:      c.Bool("embed"),
	}

	generate := func() error {
		outcome, err := report.Generate(cfg.ResultsPath, htmlCfg, c.App.Writer)
		if err != nil {
			return resultsExit(cfg.ResultsPath, err)
		}
		if c.Bool("summary") {
			report.PrintSummary(c.App.Writer, outcome.Summary, colorEnabled(c))
		}
		if url := c.String("notify"); url != "" {
			if err := report.Notify(url, htmlCfg.Title, outcome.Summary); err != nil {
				logger.Warn("notify: %v", err)
			}
		}
		return nil
	}

	if !c.Bool("watch") {
		return generate()
	}

	if err := generate(); err != nil {
		logger.Warn("%v", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return report.Watch(ctx, cfg.ResultsPath, func() {
		if err := generate(); err != nil {
			logger.Warn("%v", err)
		}
	})
}

// resultsExit maps a missing or unreadable results document to exit code 2.
func resultsExit(path string, err error) error {
	if errors.Is(err, results.ErrUnavailable) {
		return cli.Exit(fmt.Sprintf("Results JSON not found: %s", path), 2)
	}
	return err
}
