// Package results models the structured record of a completed test run
// (results.json) shared by the check runner and the report generator.
//
// The document shape follows the flat layout used by custom Playwright
// reporters: a top-level "tests" array. Playwright's own JSON reporter
// nests tests under "suites"; Load flattens that shape into Tests.
package results

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

// TitleSeparator joins title segments for display.
const TitleSeparator = " › "

// RunResult is the root results document.
type RunResult struct {
	Tests  []TestRecord `json:"tests"`
	Stats  *Stats       `json:"stats,omitempty"`
	Suites []Suite      `json:"suites,omitempty"`
}

// Stats holds run-level timing.
type Stats struct {
	StartTime string `json:"startTime,omitempty"`
	Duration  Millis `json:"duration,omitempty"`
}

// TestRecord is one executed test case.
type TestRecord struct {
	Title       Segments     `json:"title"`
	Status      core.Status  `json:"status"`
	Duration    *Millis      `json:"duration,omitempty"`
	Location    *Location    `json:"location,omitempty"`
	Project     string       `json:"project,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Error       string       `json:"error,omitempty"`
	Retries     int          `json:"retries,omitempty"`
}

// DisplayTitle joins the title segments.
func (t TestRecord) DisplayTitle() string {
	return strings.Join(t.Title, TitleSeparator)
}

// Location points at the source of a test.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column,omitempty"`
}

// String renders file:line, or "" when no file is known.
func (l *Location) String() string {
	if l == nil || l.File == "" {
		return ""
	}
	return l.File + ":" + strconv.Itoa(l.Line)
}

// Attachment references a side artifact (screenshot, video, trace, invoice).
type Attachment struct {
	Name        string `json:"name,omitempty"`
	ContentType string `json:"contentType,omitempty"`
	Path        string `json:"path,omitempty"`
	Body        string `json:"body,omitempty"`
}

// Segments is an ordered title. A bare JSON string decodes as one segment;
// any other non-array value decodes as no segments.
type Segments []string

// UnmarshalJSON implements json.Unmarshaler.
func (s *Segments) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*s = Segments{one}
		return nil
	}
	*s = nil
	return nil
}

// Millis is a non-negative duration in milliseconds. Fractional values are
// rounded; negative or non-numeric values decode as 0.
type Millis int64

// UnmarshalJSON implements json.Unmarshaler.
func (m *Millis) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil || f < 0 {
		*m = 0
		return nil
	}
	*m = Millis(math.Round(f))
	return nil
}

// MillisPtr is a helper for building records in code.
func MillisPtr(ms int64) *Millis {
	m := Millis(ms)
	return &m
}
