package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// DefaultRetryInterval is the pause between attempts of a failing check.
const DefaultRetryInterval = time.Second

// Runner executes checks sequentially.
type Runner struct {
	Timeout   time.Duration // per attempt; 0 disables the deadline
	Retries   int           // extra attempts for a failing check
	Interval  time.Duration // pause between attempts (default: DefaultRetryInterval)
	Artifacts string        // directory for attachments written by checks

	// OnFailure runs after the last attempt of a failed or timed-out check,
	// with that attempt's T. It may attach more files.
	OnFailure func(ctx context.Context, c Check, t *T)

	// Live progress callbacks
	OnCheckStart func(idx, total int, name string)
	OnCheckEnd   func(rec results.TestRecord)
}

// Run executes checks in order and returns the results document. A
// cancelled ctx marks the remaining checks as skipped.
func (r Runner) Run(ctx context.Context, checks []Check) *results.RunResult {
	start := time.Now()
	doc := &results.RunResult{
		Stats: &results.Stats{StartTime: start.UTC().Format(time.RFC3339Nano)},
		Tests: make([]results.TestRecord, 0, len(checks)),
	}

	for i, c := range checks {
		if r.OnCheckStart != nil {
			r.OnCheckStart(i, len(checks), c.Name())
		}

		var rec results.TestRecord
		if ctx.Err() != nil {
			rec = record(c, core.StatusSkipped, 0, "run cancelled")
		} else {
			rec = r.runCheck(ctx, c)
		}
		doc.Tests = append(doc.Tests, rec)

		if r.OnCheckEnd != nil {
			r.OnCheckEnd(rec)
		}
	}

	doc.Stats.Duration = results.Millis(time.Since(start).Milliseconds())
	return doc
}

// runCheck runs one check with retries and maps its final error to a status.
func (r Runner) runCheck(ctx context.Context, c Check) results.TestRecord {
	interval := r.Interval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	retries := r.Retries
	if retries < 0 {
		retries = 0
	}

	var (
		attempts int
		last     *T
		failures int
	)
	start := time.Now()

	op := func() error {
		attempts++
		last = newT(c, attempts, r.Artifacts)

		err := r.attempt(ctx, c, last)
		if err == nil {
			return nil
		}
		failures++
		if !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.Warn("%s: attempt %d failed, retrying in %s: %v", c.Name(), attempts, wait, err)
	}

	// WithMaxRetries treats 0 as unlimited, so a run without retries stops
	// after the first attempt instead.
	var b backoff.BackOff = &backoff.StopBackOff{}
	if retries > 0 {
		b = backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(retries))
	}
	err := backoff.RetryNotify(op, b, notify)
	duration := time.Since(start).Milliseconds()

	status := outcome(err, failures)
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	if status.IsFailure() && r.OnFailure != nil && last != nil {
		r.OnFailure(ctx, c, last)
	}

	rec := record(c, status, duration, msg)
	rec.Retries = attempts - 1
	if last != nil {
		rec.Attachments = last.attachments
	}

	switch status {
	case core.StatusPassed, core.StatusFlaky, core.StatusSkipped:
		logger.Info("%s: %s (%dms)", c.Name(), status, duration)
	default:
		logger.Error("%s: %s (%dms): %s", c.Name(), status, duration, msg)
	}
	return rec
}

// attempt runs the check body once under its own deadline. A panic inside
// the body fails the attempt instead of the run.
func (r Runner) attempt(ctx context.Context, c Check, t *T) (err error) {
	actx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	defer func() {
		if p := recover(); p != nil {
			logger.Debug("panic in %s: %s", c.Name(), debug.Stack())
			err = fmt.Errorf("panic: %v", p)
		}
	}()

	err = c.Fn(actx, t)
	if err != nil && errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil &&
		!errors.Is(err, context.DeadlineExceeded) && core.CategoryOf(err) != core.ErrCategoryTimeout {
		err = core.ErrWaitTimeout.WithMessage("check exceeded %s", r.Timeout).WithCause(err)
	}
	return err
}

// retryable reports whether a failed attempt may be retried. Skips,
// timeouts and cancelled runs are final.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrSkip) && !isTimeout(err)
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || core.CategoryOf(err) == core.ErrCategoryTimeout
}

// outcome maps the final error and the number of failed attempts to a status.
func outcome(err error, failures int) core.Status {
	switch {
	case err == nil && failures > 0:
		return core.StatusFlaky
	case err == nil:
		return core.StatusPassed
	case errors.Is(err, ErrSkip):
		return core.StatusSkipped
	case isTimeout(err):
		return core.StatusTimedOut
	default:
		return core.StatusFailed
	}
}

func record(c Check, status core.Status, durationMs int64, msg string) results.TestRecord {
	return results.TestRecord{
		Title:    results.Segments(c.Title),
		Status:   status,
		Duration: results.MillisPtr(durationMs),
		Location: c.Location,
		Project:  c.Project,
		Error:    msg,
	}
}

// ClearDir removes everything inside dir, keeping dir itself. A missing dir
// is not an error.
func ClearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return fmt.Errorf("remove %s: %w", e.Name(), err)
		}
	}
	logger.Info("cleared output folder: %s", dir)
	return nil
}
