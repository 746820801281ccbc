// Package csvdata reads data-driven test inputs from CSV files.
package csvdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is one data row keyed by the header's column names.
type Record map[string]string

// Get returns the trimmed value of column, or "" when the column is absent.
func (r Record) Get(column string) string {
	return r[column]
}

// Read parses the CSV file at path. The first row names the columns. Empty
// lines are skipped and every cell is trimmed.
func Read(path string) ([]Record, error) {
	f, err := os.Open(path) //#nosec G304 -- data file from config
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads CSV records from r. See Read.
func Parse(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var records []Record
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(row) {
			continue
		}

		line, _ := cr.FieldPos(0)
		if len(row) != len(header) {
			return nil, fmt.Errorf("csv line %d: got %d fields, header has %d", line, len(row), len(header))
		}

		rec := make(Record, len(header))
		for i, col := range header {
			rec[col] = strings.TrimSpace(row[i])
		}
		records = append(records, rec)
	}
	return records, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
