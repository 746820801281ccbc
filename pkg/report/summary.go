package report

import (
	"github.com/shopspring/decimal"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// Summary contains aggregated counts for a run.
type Summary struct {
	Total    int `json:"total"`
	Passed   int `json:"passed"`
	Failed   int `json:"failed"`
	Skipped  int `json:"skipped"`
	Flaky    int `json:"flaky"`
	TimedOut int `json:"timedOut"`
	Other    int `json:"other"` // records whose status is not one of the known values
}

// Summarize counts records per status. Every record counts toward Total;
// unrecognized statuses land in Other only.
func Summarize(tests []results.TestRecord) Summary {
	var s Summary
	for _, t := range tests {
		s.Total++
		switch t.Status {
		case core.StatusPassed:
			s.Passed++
		case core.StatusFailed:
			s.Failed++
		case core.StatusSkipped:
			s.Skipped++
		case core.StatusFlaky:
			s.Flaky++
		case core.StatusTimedOut:
			s.TimedOut++
		default:
			s.Other++
		}
	}
	return s
}

// Count returns the bucket for status.
func (s Summary) Count(status core.Status) int {
	switch status {
	case core.StatusPassed:
		return s.Passed
	case core.StatusFailed:
		return s.Failed
	case core.StatusSkipped:
		return s.Skipped
	case core.StatusFlaky:
		return s.Flaky
	case core.StatusTimedOut:
		return s.TimedOut
	default:
		return 0
	}
}

// Percent returns the share of status in the total.
func (s Summary) Percent(status core.Status) decimal.Decimal {
	return Percentage(s.Count(status), s.Total)
}

// HasFailures reports whether any record failed or timed out.
func (s Summary) HasFailures() bool {
	return s.Failed > 0 || s.TimedOut > 0
}

var tenThousand = decimal.NewFromInt(10000)

// Percentage returns count/total as a percentage rounded half-up to two
// decimals. The rounding happens on the scaled integer count*10000/total,
// so the result is exact and stable across runs. Zero total gives zero.
func Percentage(count, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	scaled := decimal.NewFromInt(int64(count)).Mul(tenThousand).
		DivRound(decimal.NewFromInt(int64(total)), 0)
	return scaled.Shift(-2)
}
