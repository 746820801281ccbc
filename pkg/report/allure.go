package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureAttachment represents a file attachment.
type AllureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureStatusDetails holds failure message and flaky marker.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Flaky   bool   `json:"flaky,omitempty"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// AllureExecutor holds executor info.
type AllureExecutor struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	ReportName string `json:"reportName"`
}

// AllureOptions configures ExportAllure.
type AllureOptions struct {
	BaseURL string // written to environment.properties
	BaseDir string // directory relative attachment paths resolve against (default: cwd)
}

// historyNamespace seeds the name-based UUIDs so ids stay stable across runs.
var historyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("storefront-e2e/allure"))

// ExportAllure writes Allure-compatible result files for doc into dir.
func ExportAllure(dir string, doc *results.RunResult, opts AllureOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create allure-results dir: %w", err)
	}

	start := runStart(doc)
	for i, t := range doc.Tests {
		result := buildAllureResult(t, i, start)
		result.Attachments = copyAllureAttachments(dir, opts.BaseDir, result.UUID, t.Attachments)

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal allure result for %s: %w", result.FullName, err)
		}

		resultPath := filepath.Join(dir, result.UUID+"-result.json")
		if err := os.WriteFile(resultPath, data, 0o644); err != nil {
			return fmt.Errorf("write allure result %s: %w", result.UUID, err)
		}

		if t.Duration != nil {
			start += int64(*t.Duration)
		}
	}

	if err := writeAllureCategories(dir); err != nil {
		return err
	}
	if err := writeAllureEnvironment(dir, doc, opts); err != nil {
		return err
	}
	if err := writeAllureExecutor(dir); err != nil {
		return err
	}

	logger.Info("allure results written to %s (%d tests)", dir, len(doc.Tests))
	return nil
}

// runStart returns the run start in Unix ms, or 0 when the document has none.
func runStart(doc *results.RunResult) int64 {
	if doc.Stats == nil || doc.Stats.StartTime == "" {
		return 0
	}
	ts, err := time.Parse(time.RFC3339Nano, doc.Stats.StartTime)
	if err != nil {
		logger.Debug("unparsable startTime %q: %v", doc.Stats.StartTime, err)
		return 0
	}
	return ts.UnixMilli()
}

// buildAllureResult builds an AllureResult from a test record. Records run
// back to back, so each starts where the previous one stopped.
func buildAllureResult(t results.TestRecord, index int, startMs int64) AllureResult {
	fullName := t.DisplayTitle()
	historyKey := t.Project + "|" + fullName

	stopMs := startMs
	if t.Duration != nil {
		stopMs = startMs + int64(*t.Duration)
	}

	name := fullName
	if n := len(t.Title); n > 0 {
		name = t.Title[n-1]
	}

	labels := []AllureLabel{
		{Name: "framework", Value: "playwright"},
		{Name: "severity", Value: "normal"},
	}
	if len(t.Title) > 1 {
		labels = append(labels, AllureLabel{Name: "suite", Value: strings.Join(t.Title[:len(t.Title)-1], results.TitleSeparator)})
	}
	if t.Location != nil && t.Location.File != "" {
		labels = append(labels, AllureLabel{Name: "parentSuite", Value: path.Base(toSlash(t.Location.File))})
	}
	if t.Project != "" {
		labels = append(labels, AllureLabel{Name: "host", Value: t.Project})
	}

	return AllureResult{
		UUID:      uuid.NewSHA1(historyNamespace, []byte(fmt.Sprintf("%d|%s", index, historyKey))).String(),
		HistoryID: uuid.NewSHA1(historyNamespace, []byte(historyKey)).String(),
		FullName:  fullName,
		Name:      name,
		Status:    mapAllureStatus(t.Status),
		Stage:     "finished",
		Start:     startMs,
		Stop:      stopMs,
		Labels:    labels,
		StatusDetails: AllureStatusDetails{
			Message: t.Error,
			Flaky:   t.Status == core.StatusFlaky,
		},
		Attachments: []AllureAttachment{},
	}
}

// copyAllureAttachments copies attachment files into dir under unique names
// and returns the entries that were copied. Only Path names a file; Body is
// inline content. Missing files are skipped.
func copyAllureAttachments(dir, baseDir, id string, attachments []results.Attachment) []AllureAttachment {
	out := []AllureAttachment{}
	for i, a := range attachments {
		src := toSlash(a.Path)
		if src == "" {
			continue
		}
		if !path.IsAbs(src) && !isWindowsAbs(src) && baseDir != "" {
			src = path.Join(toSlash(baseDir), src)
		}

		source := fmt.Sprintf("%s-%d-attachment%s", id, i, path.Ext(src))
		if err := copyFile(filepath.FromSlash(src), filepath.Join(dir, source)); err != nil {
			logger.Debug("skip allure attachment %s: %v", src, err)
			continue
		}

		contentType := a.ContentType
		if contentType == "" && core.KindOf(src) == core.KindImage {
			contentType = core.ContentTypePNG
		}
		out = append(out, AllureAttachment{
			Name:   firstNonEmpty(a.Name, path.Base(src)),
			Source: source,
			Type:   contentType,
		})
	}
	return out
}

// copyFile copies a single file from src to dst.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src) //#nosec G304 -- attachment listed in results
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst) //#nosec G304 -- inside the allure dir
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		logger.Warn("failed to copy %s to %s: %v", src, dst, err)
		return err
	}
	return nil
}

// mapAllureStatus maps a record status to an Allure status string. Allure
// has no flaky status; flaky passes are marked in statusDetails instead.
func mapAllureStatus(s core.Status) string {
	switch s {
	case core.StatusPassed, core.StatusFlaky:
		return "passed"
	case core.StatusFailed:
		return "failed"
	case core.StatusTimedOut:
		return "broken"
	case core.StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// writeAllureCategories writes categories.json for failure categorization.
func writeAllureCategories(allureDir string) error {
	categories := []AllureCategory{
		{Name: "Element Not Visible", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*not visible.*|.*not displayed.*"},
		{Name: "Timeout", MatchedStatuses: []string{"failed", "broken"}, MessageRegex: "(?i).*timeout.*|.*timed out.*|.*not observed.*"},
		{Name: "Unexpected Response", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*responseCode.*|.*message.*"},
		{Name: "Assertion Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*expect.*|.*assert.*"},
		{Name: "Connection Error", MatchedStatuses: []string{"failed", "broken"}, MessageRegex: "(?i).*connection.*|.*unreachable.*|.*network.*"},
	}

	data, err := json.MarshalIndent(categories, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal categories: %w", err)
	}

	if err := os.WriteFile(filepath.Join(allureDir, "categories.json"), data, 0o644); err != nil {
		return fmt.Errorf("write categories.json: %w", err)
	}
	return nil
}

// writeAllureEnvironment writes environment.properties with run metadata.
func writeAllureEnvironment(allureDir string, doc *results.RunResult, opts AllureOptions) error {
	var b strings.Builder
	b.WriteString("framework=playwright\n")
	if opts.BaseURL != "" {
		fmt.Fprintf(&b, "base.url=%s\n", opts.BaseURL)
	}
	if doc.Stats != nil && doc.Stats.StartTime != "" {
		fmt.Fprintf(&b, "run.startTime=%s\n", doc.Stats.StartTime)
	}
	fmt.Fprintf(&b, "run.tests=%d\n", len(doc.Tests))

	if err := os.WriteFile(filepath.Join(allureDir, "environment.properties"), []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write environment.properties: %w", err)
	}
	return nil
}

// writeAllureExecutor writes executor.json.
func writeAllureExecutor(allureDir string) error {
	executor := AllureExecutor{
		Name:       "storefront-e2e",
		Type:       "cli",
		ReportName: "Storefront E2E",
	}

	data, err := json.MarshalIndent(executor, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal executor: %w", err)
	}

	if err := os.WriteFile(filepath.Join(allureDir, "executor.json"), data, 0o644); err != nil {
		return fmt.Errorf("write executor.json: %w", err)
	}
	return nil
}
