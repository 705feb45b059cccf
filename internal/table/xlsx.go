package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads a single sheet of an XLSX workbook into a Table. sheetName
// selects the sheet explicitly; an empty sheetName falls back to the
// workbook's first sheet, matching the teacher's XLSXParser.ParseSheetFromReader
// behavior. This is an ingestion-layer convenience only — once loaded, an
// XLSX-sourced Table flows through the exact same Schema Resolver and
// classifiers as a CSV-sourced one.
func ReadXLSX(path, sheetName string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx %q: %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets found in %q", path)
		}
		sheetName = sheets[0]
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return &Table{Headers: []string{}, Rows: []Row{}, SourceName: path}, nil
	}

	headers := sanitizeHeaders(rows[0])
	t := &Table{
		SourceName: path,
		Headers:    headers,
		Rows:       make([]Row, 0, len(rows)-1),
		Meta:       Meta{SourcePath: path, TotalSourceRows: len(rows) - 1},
	}
	for _, rec := range rows[1:] {
		t.Rows = append(t.Rows, NewRow(alignWidth(rec, len(headers))))
	}
	return t, nil
}
