// pkg/dataset/csv.go
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// utf8BOM is prepended to output files so spreadsheet tools detect UTF-8.
const utf8BOM = "\xef\xbb\xbf"

// Load reads a CSV file into a Table. The first record is the header row.
// Cells are stored as present values, including empty strings; null cells
// only arise later from unmatched join rows. A missing file surfaces as an
// error wrapping os.ErrNotExist so callers can classify it.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}

	headers := records[0]
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	t := New(headers...)
	for _, record := range records[1:] {
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			}
		}
		t.AppendRow(row)
	}
	return t, nil
}

// Store writes a table to a CSV file. When withBOM is true the file starts
// with a UTF-8 byte-order mark. Null cells are written as empty fields.
func Store(path string, t *Table, withBOM bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	defer f.Close()

	if withBOM {
		if _, err := f.WriteString(utf8BOM); err != nil {
			return fmt.Errorf("write BOM to %s: %w", path, err)
		}
	}

	w := csv.NewWriter(f)
	if err := w.Write(t.Headers); err != nil {
		return fmt.Errorf("write header to %s: %w", path, err)
	}

	record := make([]string, len(t.Headers))
	for _, row := range t.Rows {
		for i, h := range t.Headers {
			record[i] = row[h]
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush dataset %s: %w", path, err)
	}
	return nil
}
