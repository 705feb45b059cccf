package main

import (
	"fmt"
	"strings"

	"github.com/yourorg/md-spec-tool/internal/table"
)

// loadInput reads path as XLSX when its extension says so, else as CSV —
// the Schema Resolver and everything downstream are format-agnostic once a
// table.Table exists (SPEC_FULL.md §B's XLSX ingestion note).
func loadInput(path, sheet string) (*table.Table, error) {
	if sheet == "" && cfg != nil {
		sheet = cfg.InputSheet
	}
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return table.ReadXLSX(path, sheet)
	}
	return table.ReadCSV(path)
}

func requireOutput(path string) error {
	if path == "" {
		return fmt.Errorf("--output is required")
	}
	return nil
}
