package results

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable is returned by Load when the results document does not
// exist or cannot be parsed. It is distinct from a document with no tests.
var ErrUnavailable = errors.New("results document not available")

// Load reads and parses the results document at path.
func Load(path string) (*RunResult, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- configured results path
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, path, err)
	}

	return Parse(data)
}

// Parse decodes a results document. When the flat tests list is absent,
// Playwright's nested suites are flattened into it.
func Parse(data []byte) (*RunResult, error) {
	var doc RunResult
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if doc.Tests == nil && len(doc.Suites) > 0 {
		doc.Tests = Flatten(doc.Suites)
	}
	return &doc, nil
}
