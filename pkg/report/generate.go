package report

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// Stage is a step of the report pipeline.
type Stage int

// Pipeline stages. The only failure edge is Start -> Failed.
const (
	StageStart Stage = iota
	StageLoaded
	StageAggregated
	StageRendered
	StageWritten
	StageDone
	StageFailed
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageLoaded:
		return "loaded"
	case StageAggregated:
		return "aggregated"
	case StageRendered:
		return "rendered"
	case StageWritten:
		return "written"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is what Generate reports back.
type Outcome struct {
	Stage   Stage
	Summary Summary
	Path    string
}

// Generate runs the report pipeline: load resultsPath, aggregate, render and
// write cfg.OutputPath. When the results document is unavailable nothing is
// written and the error wraps results.ErrUnavailable.
func Generate(resultsPath string, cfg HTMLConfig, out io.Writer) (Outcome, error) {
	outcome := Outcome{Stage: StageStart, Path: cfg.OutputPath}

	doc, err := results.Load(resultsPath)
	if err != nil {
		outcome.Stage = StageFailed
		return outcome, err
	}
	outcome.Stage = StageLoaded
	logger.Debug("loaded %d test records from %s", len(doc.Tests), resultsPath)

	summary := Summarize(doc.Tests)
	outcome.Summary = summary
	outcome.Stage = StageAggregated

	html, err := build(doc, summary, cfg)
	if err != nil {
		return outcome, err
	}
	outcome.Stage = StageRendered

	if err := (FileWriter{Out: out}).Write(cfg.OutputPath, html); err != nil {
		return outcome, err
	}
	outcome.Stage = StageWritten
	logger.Info("report written to %s (%d tests)", cfg.OutputPath, summary.Total)

	outcome.Stage = StageDone
	return outcome, nil
}

// Build aggregates and renders an already loaded document.
func Build(doc *results.RunResult, cfg HTMLConfig) (string, Summary, error) {
	summary := Summarize(doc.Tests)
	html, err := build(doc, summary, cfg)
	return html, summary, err
}

func build(doc *results.RunResult, summary Summary, cfg HTMLConfig) (string, error) {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}

	resolver, err := NewResolver(cfg.BaseDir, filepath.Dir(cfg.OutputPath), cfg.Embed)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}

	data := HTMLData{
		Title:   cfg.Title,
		Summary: summary,
		Rows:    BuildRows(doc.Tests, resolver),
	}
	if doc.Stats != nil {
		data.StartTime = doc.Stats.StartTime
	}

	html, err := Render(data)
	if err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return html, nil
}
