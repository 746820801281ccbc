package cli

import (
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/storefront-e2e/pkg/config"
	"github.com/devicelab-dev/storefront-e2e/pkg/report"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

var allureCommand = &cli.Command{
	Name:  "allure",
	Usage: "Export a results document as Allure result files",
	Description: `Writes one <uuid>-result.json per record plus categories, environment
and executor files, ready for "allure generate".

Examples:
  storefront-e2e allure
  storefront-e2e allure --results out/results.json --dir out/allure-results`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "results",
			Aliases: []string{"r"},
			Usage:   "Results JSON to read (default: " + config.DefaultResultsPath + ")",
			EnvVars: []string{"RESULTS_JSON"},
		},
		&cli.StringFlag{
			Name:  "dir",
			Usage: "Output directory (default: allure-results next to the results JSON)",
		},
	},
	Action: runAllure,
}

func runAllure(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	doc, err := results.Load(cfg.ResultsPath)
	if err != nil {
		return resultsExit(cfg.ResultsPath, err)
	}

	dir := c.String("dir")
	if dir == "" {
		dir = filepath.Join(filepath.Dir(cfg.ResultsPath), "allure-results")
	}

	if err := report.ExportAllure(dir, doc, report.AllureOptions{BaseURL: cfg.BaseURL}); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Allure results written: %s\n", dir)
	return nil
}
