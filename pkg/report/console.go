package report

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// UseColor reports whether console output to f should be colored.
func UseColor(f *os.File, noANSI bool) bool {
	if noANSI || f == nil {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// PrintSummary writes the per-status counts as a table.
func PrintSummary(w io.Writer, s Summary, color bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Test Summary")
	t.AppendHeader(table.Row{"Status", "Count", "Percent"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Count", Align: text.AlignRight},
		{Name: "Percent", Align: text.AlignRight},
	})

	for _, status := range core.KnownStatuses {
		t.AppendRow(table.Row{
			colorize(status, string(status), color),
			s.Count(status),
			s.Percent(status).String() + "%",
		})
	}
	if s.Other > 0 {
		t.AppendRow(table.Row{"other", s.Other, Percentage(s.Other, s.Total).String() + "%"})
	}

	overall := "PASS"
	if s.HasFailures() {
		overall = "FAIL"
	}
	t.AppendFooter(table.Row{"TOTAL", s.Total, overall})

	if color {
		if s.HasFailures() {
			t.SetStyle(table.StyleColoredBlackOnRedWhite)
		} else {
			t.SetStyle(table.StyleColoredBlackOnGreenWhite)
		}
	} else {
		t.SetStyle(table.StyleLight)
	}

	t.Render()
}

// PrintFailures lists failed and timed-out records with their error message.
func PrintFailures(w io.Writer, tests []results.TestRecord, color bool) {
	var failed []results.TestRecord
	for _, r := range tests {
		if r.Status.IsFailure() {
			failed = append(failed, r)
		}
	}
	if len(failed) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Test", "Status", "Location", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, r := range failed {
		t.AppendRow(table.Row{
			r.DisplayTitle(),
			colorize(r.Status, string(r.Status), color),
			r.Location.String(),
			r.Error,
		})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	fmt.Fprintln(w)
}

func colorize(status core.Status, s string, color bool) string {
	if !color {
		return s
	}
	switch status {
	case core.StatusPassed:
		return text.FgGreen.Sprint(s)
	case core.StatusFailed:
		return text.FgRed.Sprint(s)
	case core.StatusSkipped:
		return text.FgYellow.Sprint(s)
	case core.StatusFlaky:
		return text.FgHiYellow.Sprint(s)
	case core.StatusTimedOut:
		return text.FgMagenta.Sprint(s)
	default:
		return s
	}
}
