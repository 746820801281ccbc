package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// FileWriter persists a rendered report and announces where it went.
type FileWriter struct {
	Out io.Writer // receives the confirmation line; nil discards it
}

// Write creates the parent directories of path and overwrites the file.
func (w FileWriter) Write(path, html string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	if w.Out != nil {
		fmt.Fprintf(w.Out, "Custom report generated: %s\n", path)
	}
	return nil
}
