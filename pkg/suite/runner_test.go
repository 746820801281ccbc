package suite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

func quickRunner() Runner {
	return Runner{Timeout: time.Second, Interval: time.Millisecond}
}

func TestRunner_Outcomes(t *testing.T) {
	checks := []Check{
		New("api", []string{"API", "passes"}, func(ctx context.Context, t *T) error { return nil }),
		New("api", []string{"API", "fails"}, func(ctx context.Context, t *T) error {
			return core.ErrStatusMismatch.WithMessage("expected 200, got 405")
		}),
		New("api", []string{"API", "skips"}, func(ctx context.Context, t *T) error {
			return Skipf("no credentials")
		}),
		New("ui", []string{"UI", "times out"}, func(ctx context.Context, t *T) error {
			<-ctx.Done()
			return ctx.Err()
		}),
		New("ui", []string{"UI", "wait timeout"}, func(ctx context.Context, t *T) error {
			return core.ErrWaitTimeout.WithMessage("download not observed")
		}),
		New("ui", []string{"UI", "panics"}, func(ctx context.Context, t *T) error {
			panic("boom")
		}),
	}

	r := quickRunner()
	r.Timeout = 50 * time.Millisecond
	doc := r.Run(context.Background(), checks)

	require.Len(t, doc.Tests, len(checks))
	want := []core.Status{
		core.StatusPassed,
		core.StatusFailed,
		core.StatusSkipped,
		core.StatusTimedOut,
		core.StatusTimedOut,
		core.StatusFailed,
	}
	for i, rec := range doc.Tests {
		assert.Equal(t, want[i], rec.Status, rec.DisplayTitle())
		assert.Equal(t, checks[i].Project, rec.Project)
		require.NotNil(t, rec.Duration)
	}

	assert.Equal(t, "API › passes", doc.Tests[0].DisplayTitle())
	assert.Equal(t, "expected 200, got 405", doc.Tests[1].Error)
	assert.Contains(t, doc.Tests[2].Error, "no credentials")
	assert.Contains(t, doc.Tests[5].Error, "panic: boom")
	require.NotNil(t, doc.Stats)
	assert.NotEmpty(t, doc.Stats.StartTime)
}

func TestRunner_Location(t *testing.T) {
	c := New("api", []string{"located"}, func(ctx context.Context, t *T) error { return nil })
	require.NotNil(t, c.Location)
	assert.Equal(t, "runner_test.go", filepath.Base(c.Location.File))
	assert.Greater(t, c.Location.Line, 0)
}

func TestRunner_RetryThenPassIsFlaky(t *testing.T) {
	calls := 0
	c := New("api", []string{"eventually"}, func(ctx context.Context, t *T) error {
		calls++
		if t.Attempt() < 3 {
			return errors.New("not yet")
		}
		return nil
	})

	r := quickRunner()
	r.Retries = 2
	doc := r.Run(context.Background(), []Check{c})

	assert.Equal(t, 3, calls)
	assert.Equal(t, core.StatusFlaky, doc.Tests[0].Status)
	assert.Equal(t, 2, doc.Tests[0].Retries)
	assert.Empty(t, doc.Tests[0].Error)
}

func TestRunner_RetriesExhausted(t *testing.T) {
	calls := 0
	c := New("api", []string{"never"}, func(ctx context.Context, t *T) error {
		calls++
		return errors.New("still broken")
	})

	r := quickRunner()
	r.Retries = 2
	doc := r.Run(context.Background(), []Check{c})

	assert.Equal(t, 3, calls)
	assert.Equal(t, core.StatusFailed, doc.Tests[0].Status)
	assert.Equal(t, "still broken", doc.Tests[0].Error)
}

func TestRunner_NoRetriesRunsOnce(t *testing.T) {
	calls := 0
	c := New("api", []string{"broken"}, func(ctx context.Context, t *T) error {
		calls++
		return errors.New("broken")
	})

	r := Runner{Timeout: time.Second, Interval: time.Millisecond}
	done := make(chan *results.RunResult, 1)
	go func() { done <- r.Run(context.Background(), []Check{c}) }()

	select {
	case doc := <-done:
		require.Len(t, doc.Tests, 1)
		assert.Equal(t, 1, calls)
		assert.Equal(t, core.StatusFailed, doc.Tests[0].Status)
		assert.Equal(t, 0, doc.Tests[0].Retries)
		assert.Equal(t, "broken", doc.Tests[0].Error)
	case <-time.After(2 * time.Second):
		t.Fatal("run with Retries 0 did not finish")
	}
}

func TestRunner_TimeoutAndSkipNotRetried(t *testing.T) {
	for _, err := range []error{core.ErrWaitTimeout, Skipf("nope")} {
		calls := 0
		c := New("ui", []string{"final"}, func(ctx context.Context, t *T) error {
			calls++
			return err
		})

		r := quickRunner()
		r.Retries = 3
		r.Run(context.Background(), []Check{c})
		assert.Equal(t, 1, calls, "error %v should not be retried", err)
	}
}

func TestRunner_OnFailureAttaches(t *testing.T) {
	dir := t.TempDir()
	var hooked []string

	checks := []Check{
		New("ui", []string{"ok"}, func(ctx context.Context, t *T) error { return nil }),
		New("ui", []string{"bad"}, func(ctx context.Context, t *T) error {
			t.Attach("log", filepath.Join(dir, "bad.log"))
			return errors.New("bad")
		}),
	}

	r := quickRunner()
	r.Artifacts = dir
	r.OnFailure = func(ctx context.Context, c Check, ct *T) {
		hooked = append(hooked, c.Name())
		require.NoError(t, ct.AttachBytes(core.AttachmentScreenshot, ".png", core.ContentTypePNG, []byte("png")))
	}
	doc := r.Run(context.Background(), checks)

	assert.Equal(t, []string{"bad"}, hooked)
	assert.Empty(t, doc.Tests[0].Attachments)

	atts := doc.Tests[1].Attachments
	require.Len(t, atts, 2)
	assert.Equal(t, "log", atts[0].Name)
	assert.Equal(t, core.AttachmentScreenshot, atts[1].Name)
	assert.Equal(t, core.ContentTypePNG, atts[1].ContentType)
	_, err := os.Stat(filepath.FromSlash(atts[1].Path))
	assert.NoError(t, err)
}

func TestRunner_CancelledSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var started []int

	checks := []Check{
		New("api", []string{"first"}, func(ctx context.Context, t *T) error {
			cancel()
			return nil
		}),
		New("api", []string{"second"}, func(ctx context.Context, t *T) error { return nil }),
	}

	r := quickRunner()
	r.OnCheckStart = func(idx, total int, name string) { started = append(started, idx) }
	doc := r.Run(ctx, checks)

	assert.Equal(t, []int{0, 1}, started)
	assert.Equal(t, core.StatusPassed, doc.Tests[0].Status)
	assert.Equal(t, core.StatusSkipped, doc.Tests[1].Status)
	assert.Equal(t, "run cancelled", doc.Tests[1].Error)
}

func TestRunner_OnCheckEnd(t *testing.T) {
	var ended []results.TestRecord
	r := quickRunner()
	r.OnCheckEnd = func(rec results.TestRecord) { ended = append(ended, rec) }

	r.Run(context.Background(), []Check{
		New("api", []string{"one"}, func(ctx context.Context, t *T) error { return nil }),
	})
	require.Len(t, ended, 1)
	assert.Equal(t, core.StatusPassed, ended[0].Status)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		failures int
		want     core.Status
	}{
		{"pass", nil, 0, core.StatusPassed},
		{"flaky", nil, 1, core.StatusFlaky},
		{"skip", Skipf("x"), 1, core.StatusSkipped},
		{"deadline", context.DeadlineExceeded, 1, core.StatusTimedOut},
		{"wrapped wait timeout", core.ErrWaitTimeout.WithCause(errors.New("x")), 1, core.StatusTimedOut},
		{"assertion", core.ErrEmptyList, 1, core.StatusFailed},
		{"connection", core.ErrUnreachable, 1, core.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(tt.err, tt.failures))
		})
	}
}

func TestClearDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoice.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "shot.png"), []byte("x"), 0o644))

	require.NoError(t, ClearDir(dir))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.NoError(t, ClearDir(filepath.Join(dir, "missing")))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "api-products-list", Slug("API › Products List"))
	assert.Equal(t, "check", Slug("›››"))
	assert.Len(t, Slug(strings.Repeat("a", 200)), 60)
}
