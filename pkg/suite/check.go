// Package suite runs named checks sequentially and records their outcomes
// as a results document.
package suite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/devicelab-dev/storefront-e2e/pkg/core"
	"github.com/devicelab-dev/storefront-e2e/pkg/logger"
	"github.com/devicelab-dev/storefront-e2e/pkg/results"
)

// ErrSkip marks a check as skipped when returned (possibly wrapped) from its
// function.
var ErrSkip = errors.New("check skipped")

// Skipf returns an error that marks the check as skipped with a reason.
func Skipf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrSkip, fmt.Sprintf(format, args...))
}

// Func is the body of a check.
type Func func(ctx context.Context, t *T) error

// Check is one named, runnable test case.
type Check struct {
	Project  string
	Title    []string
	Location *results.Location
	Fn       Func
}

// New builds a Check and records the caller's file and line as its location.
func New(project string, title []string, fn Func) Check {
	c := Check{Project: project, Title: title, Fn: fn}
	if _, file, line, ok := runtime.Caller(1); ok {
		c.Location = &results.Location{File: relativeFile(file), Line: line}
	}
	return c
}

// Name returns the display title of the check.
func (c Check) Name() string {
	return strings.Join(c.Title, results.TitleSeparator)
}

func relativeFile(file string) string {
	if wd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(wd, file); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.Base(file)
}

// T is handed to a check attempt. It collects attachments for the record.
type T struct {
	check       Check
	attempt     int
	dir         string
	attachments []results.Attachment
}

func newT(c Check, attempt int, dir string) *T {
	return &T{check: c, attempt: attempt, dir: dir}
}

// Attempt returns the 1-based attempt number.
func (t *T) Attempt() int { return t.attempt }

// Name returns the display title of the running check.
func (t *T) Name() string { return t.check.Name() }

// Attach records an existing file as an attachment of the check.
func (t *T) Attach(name, path string) {
	a := results.Attachment{Name: name, Path: filepath.ToSlash(path)}
	if core.KindOf(path) == core.KindImage {
		a.ContentType = core.ContentTypePNG
	}
	t.attachments = append(t.attachments, a)
}

// AttachBytes writes data into the artifact directory and attaches it.
func (t *T) AttachBytes(name, ext, contentType string, data []byte) error {
	if t.dir == "" {
		return errors.New("no artifact directory configured")
	}
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	file := filepath.Join(t.dir, fmt.Sprintf("%s-%s-%d%s", Slug(t.check.Name()), Slug(name), t.attempt, ext))
	if err := os.WriteFile(file, data, 0o644); err != nil {
		return fmt.Errorf("write attachment: %w", err)
	}
	t.attachments = append(t.attachments, results.Attachment{
		Name:        name,
		Path:        filepath.ToSlash(file),
		ContentType: contentType,
	})
	return nil
}

// ArtifactPath returns a path in the artifact directory for a file named
// after the check, name and attempt.
func (t *T) ArtifactPath(name, ext string) string {
	return filepath.Join(t.dir, fmt.Sprintf("%s-%s-%d%s", Slug(t.check.Name()), Slug(name), t.attempt, ext))
}

// Logf logs a debug line tagged with the check name.
func (t *T) Logf(format string, args ...interface{}) {
	logger.Debug("[%s] %s", t.check.Name(), fmt.Sprintf(format, args...))
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug turns a title into a file-name-safe token.
func Slug(s string) string {
	s = slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	s = strings.Trim(s, "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		return "check"
	}
	return s
}
