// Package table holds the schema-agnostic row/column model shared by every
// stage of the diagnostic pipeline, along with the readers and writer that
// move it in and out of CSV (and, optionally, XLSX) form.
package table

import "strings"

// Table is an ordered set of rows aligned to a fixed header list. It is the
// pipeline's lingua franca: the Schema Resolver reads Headers, the Row
// Normalizer and classifiers read and annotate Rows, and the Emitter writes
// both back out.
type Table struct {
	SourceName string
	Headers    []string
	Rows       []Row
	Meta       Meta
}

// Row is a single data row with cells aligned to Table.Headers, plus a set
// of fields the pipeline derives and attaches as it runs. Derived fields are
// additive — Cells is never mutated after the table is built, matching
// spec.md's "Rows are immutable after Row Normalizer annotates them" (the
// Cells slice specifically; Derived is where annotation lives).
type Row struct {
	Cells   []string
	Derived map[string]string
	Lists   map[string][]string
}

// Meta carries parse-time bookkeeping: warnings raised while reading the
// source file, not classification results.
type Meta struct {
	SourcePath      string
	TotalSourceRows int
	Warnings        []string
}

// NewRow builds a Row with the given cells and empty derived maps.
func NewRow(cells []string) Row {
	return Row{
		Cells:   cells,
		Derived: make(map[string]string),
		Lists:   make(map[string][]string),
	}
}

// Cell returns the cell at colIdx, or "" if out of range.
func (r Row) Cell(colIdx int) string {
	if colIdx < 0 || colIdx >= len(r.Cells) {
		return ""
	}
	return r.Cells[colIdx]
}

// Set records a derived scalar field on the row.
func (r *Row) Set(field, value string) {
	if r.Derived == nil {
		r.Derived = make(map[string]string)
	}
	r.Derived[field] = value
}

// Get reads a derived scalar field, defaulting to "".
func (r Row) Get(field string) string {
	return r.Derived[field]
}

// AppendList appends a value to a list-valued derived field (e.g. a signals
// column) without mutating any slice shared with another row.
func (r *Row) AppendList(field, value string) {
	if r.Lists == nil {
		r.Lists = make(map[string][]string)
	}
	r.Lists[field] = append(r.Lists[field], value)
}

// JoinedList returns the ", "-joined rendering of a list-valued field, per
// spec.md §3's "serialized as comma-joined strings at emit time".
func (r Row) JoinedList(field string) string {
	vals := r.Lists[field]
	if len(vals) == 0 {
		return ""
	}
	return strings.Join(vals, ", ")
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int { return len(t.Rows) }

// ColumnCount returns the number of header columns.
func (t *Table) ColumnCount() int { return len(t.Headers) }

// ColumnIndex finds the column index of an exact header match, or -1.
func (t *Table) ColumnIndex(header string) int {
	for i, h := range t.Headers {
		if h == header {
			return i
		}
	}
	return -1
}

// AddWarning records a table-level parsing warning.
func (t *Table) AddWarning(w string) {
	t.Meta.Warnings = append(t.Meta.Warnings, w)
}
