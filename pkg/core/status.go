package core

// Status is the outcome of one executed test case as written to the results
// document. Values outside the known set are kept verbatim.
type Status string

// Known status values.
const (
	StatusPassed   Status = "passed"
	StatusFailed   Status = "failed"
	StatusSkipped  Status = "skipped"
	StatusFlaky    Status = "flaky"
	StatusTimedOut Status = "timedOut"
)

// KnownStatuses lists the status buckets in display order.
var KnownStatuses = []Status{
	StatusPassed,
	StatusFailed,
	StatusSkipped,
	StatusFlaky,
	StatusTimedOut,
}

// String returns the raw status value.
func (s Status) String() string {
	return string(s)
}

// IsKnown reports whether s is one of the five recognized statuses.
func (s Status) IsKnown() bool {
	switch s {
	case StatusPassed, StatusFailed, StatusSkipped, StatusFlaky, StatusTimedOut:
		return true
	default:
		return false
	}
}

// IsSuccess returns true for outcomes that did not break the run (passed or flaky).
func (s Status) IsSuccess() bool {
	return s == StatusPassed || s == StatusFlaky
}

// IsFailure returns true for outcomes that should fail the run.
func (s Status) IsFailure() bool {
	return s == StatusFailed || s == StatusTimedOut
}

// CSSClass returns the class name used by the HTML report for s.
// Unknown statuses get "unknown" so arbitrary input never lands in markup.
func (s Status) CSSClass() string {
	if s.IsKnown() {
		return string(s)
	}
	return "unknown"
}
