package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the document as indented JSON. The file is written to a
// temporary sibling and renamed so readers never see a partial document.
func Save(path string, doc *RunResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write results: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename results: %w", err)
	}
	return nil
}
