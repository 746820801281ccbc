package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// Slow check threshold in milliseconds
const slowThresholdMs = 10000

// progress prints live check progress.
type progress struct {
	w     io.Writer
	color bool
}

func (p progress) c(code string) string {
	if p.color {
		return code
	}
	return ""
}

func (p progress) onCheckStart(idx, total int, name string) {
	fmt.Fprintf(p.w, "\n  %s[%d/%d]%s %s%s%s\n",
		p.c(colorCyan), idx+1, total, p.c(colorReset),
		p.c(colorBold), name, p.c(colorReset))
}

func (p progress) onCheckEnd(rec results.TestRecord) {
	var ms int64
	if rec.Duration != nil {
		ms = int64(*rec.Duration)
	}
	dur := formatDuration(ms)

	switch rec.Status {
	case core.StatusPassed, core.StatusFlaky:
		symbol, symbolColor, durColor := "✓", p.c(colorGreen), ""
		if ms >= slowThresholdMs {
			durColor = p.c(colorYellow)
		}
		if rec.Status == core.StatusFlaky {
			symbol, symbolColor = "⚠", p.c(colorYellow)
		}
		fmt.Fprintf(p.w, "    %s%s%s %s %s(%s)%s\n",
			symbolColor, symbol, p.c(colorReset), rec.Status, durColor, dur, p.c(colorReset))
	case core.StatusSkipped:
		fmt.Fprintf(p.w, "    %s-%s skipped\n", p.c(colorGray), p.c(colorReset))
		if rec.Error != "" {
			fmt.Fprintf(p.w, "      %s╰─%s %s\n", p.c(colorGray), p.c(colorReset), rec.Error)
		}
	default:
		fmt.Fprintf(p.w, "    %s✗%s %s (%s)\n", p.c(colorRed), p.c(colorReset), rec.Status, dur)
		if rec.Error != "" {
			fmt.Fprintf(p.w, "      %s╰─%s %s\n", p.c(colorGray), p.c(colorReset), firstLine(rec.Error))
		}
	}
}

func formatDuration(ms int64) string {
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
