package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// ReadCSV reads a UTF-8 CSV file with a header row into a Table. Row cell
// counts are padded/truncated to the header width, matching the teacher's
// lenient parsing posture (FieldsPerRecord=-1, LazyQuotes) rather than
// failing a whole run over one malformed row.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	t, err := readCSVReader(f)
	if err != nil {
		return nil, err
	}
	t.SourceName = path
	t.Meta.SourcePath = path
	return t, nil
}

func readCSVReader(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{Headers: []string{}, Rows: []Row{}}, nil
	}

	headers := sanitizeHeaders(records[0])
	t := &Table{
		Headers: headers,
		Rows:    make([]Row, 0, len(records)-1),
		Meta:    Meta{TotalSourceRows: len(records) - 1},
	}

	for _, rec := range records[1:] {
		cells := alignWidth(rec, len(headers))
		t.Rows = append(t.Rows, NewRow(cells))
	}
	return t, nil
}

// sanitizeHeaders trims whitespace and folds headers to Unicode NFC form,
// so two visually-identical headers that arrived in different Unicode
// normalization forms (e.g. a precomposed vs. combining-mark accented
// letter) still compare equal in the Schema Resolver's exact and fuzzy
// matching (spec.md §4.1).
func sanitizeHeaders(raw []string) []string {
	out := make([]string, len(raw))
	for i, h := range raw {
		out[i] = norm.NFC.String(strings.TrimSpace(h))
	}
	return out
}

func alignWidth(cells []string, width int) []string {
	if len(cells) == width {
		return cells
	}
	if len(cells) > width {
		return cells[:width]
	}
	padded := make([]string, width)
	copy(padded, cells)
	return padded
}

// WriteCSV serializes a table's headers plus any extra columns to a CSV
// file. extraCols are appended after the original headers in the given
// order; cellFn supplies the value for a given row and extra column name.
func WriteCSV(path string, t *Table, extraCols []string, cellFn func(Row, string) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv %q: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := make([]string, 0, len(t.Headers)+len(extraCols))
	header = append(header, t.Headers...)
	header = append(header, extraCols...)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, row := range t.Rows {
		record := make([]string, 0, len(header))
		record = append(record, row.Cells...)
		for _, col := range extraCols {
			record = append(record, cellFn(row, col))
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return w.Error()
}
