package results

import (
	"github.com/devicelab-dev/storefront-e2e/pkg/core"
)

// Suite is a node of Playwright's JSON reporter tree.
type Suite struct {
	Title  string  `json:"title"`
	File   string  `json:"file,omitempty"`
	Specs  []Spec  `json:"specs,omitempty"`
	Suites []Suite `json:"suites,omitempty"`
}

// Spec is one test() declaration.
type Spec struct {
	Title  string     `json:"title"`
	File   string     `json:"file,omitempty"`
	Line   int        `json:"line,omitempty"`
	Column int        `json:"column,omitempty"`
	Tests  []SpecTest `json:"tests,omitempty"`
}

// SpecTest is a spec executed in one project.
type SpecTest struct {
	ProjectName string       `json:"projectName,omitempty"`
	Status      string       `json:"status,omitempty"` // expected, unexpected, flaky, skipped
	Results     []SpecResult `json:"results,omitempty"`
}

// SpecResult is one attempt of a SpecTest.
type SpecResult struct {
	Status      string       `json:"status,omitempty"` // passed, failed, timedOut, skipped, interrupted
	Duration    Millis       `json:"duration,omitempty"`
	Retry       int          `json:"retry,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
	Errors      []SpecError  `json:"errors,omitempty"`
	Error       *SpecError   `json:"error,omitempty"`
}

// SpecError carries a failure message.
type SpecError struct {
	Message string `json:"message,omitempty"`
}

// Flatten walks the suite tree depth-first and returns one TestRecord per
// spec/project pair, in document order.
func Flatten(suites []Suite) []TestRecord {
	var out []TestRecord
	for _, s := range suites {
		out = flattenSuite(out, s, nil, "")
	}
	return out
}

func flattenSuite(out []TestRecord, s Suite, parents []string, parentFile string) []TestRecord {
	path := parents
	if s.Title != "" {
		path = append(append([]string(nil), parents...), s.Title)
	}
	suiteFile := s.File
	if suiteFile == "" {
		suiteFile = parentFile
	}

	for _, spec := range s.Specs {
		title := append(append(Segments(nil), path...), spec.Title)
		file := spec.File
		if file == "" {
			file = suiteFile
		}

		for _, t := range spec.Tests {
			rec := TestRecord{
				Title:   title,
				Project: t.ProjectName,
			}
			if file != "" {
				rec.Location = &Location{File: file, Line: spec.Line, Column: spec.Column}
			}

			var last *SpecResult
			if n := len(t.Results); n > 0 {
				last = &t.Results[n-1]
				rec.Duration = MillisPtr(int64(last.Duration))
				rec.Attachments = last.Attachments
				rec.Error = last.message()
				rec.Retries = last.Retry
			}
			rec.Status = outcomeStatus(t.Status, last)
			out = append(out, rec)
		}
	}

	for _, child := range s.Suites {
		out = flattenSuite(out, child, path, suiteFile)
	}
	return out
}

// outcomeStatus maps a Playwright outcome onto the report's statuses.
func outcomeStatus(outcome string, last *SpecResult) core.Status {
	switch outcome {
	case "expected":
		return core.StatusPassed
	case "flaky":
		return core.StatusFlaky
	case "skipped":
		return core.StatusSkipped
	case "unexpected":
		if last != nil && last.Status == string(core.StatusTimedOut) {
			return core.StatusTimedOut
		}
		return core.StatusFailed
	}
	if last != nil {
		return core.Status(last.Status)
	}
	return core.Status(outcome)
}

func (r *SpecResult) message() string {
	if r.Error != nil && r.Error.Message != "" {
		return r.Error.Message
	}
	for _, e := range r.Errors {
		if e.Message != "" {
			return e.Message
		}
	}
	return ""
}
