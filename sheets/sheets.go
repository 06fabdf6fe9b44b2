// Package sheets writes tables into spreadsheet workbooks.
package sheets

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/fundrecon"
	"github.com/xuri/excelize/v2"
)

// ErrDuplicateSheet is returned when two sheets end up with the same name.
var ErrDuplicateSheet = errors.New("duplicate sheet name")

// Sheet is a named table.
type Sheet struct {
	Name  string
	Table *fundrecon.Table
}

// Write saves a workbook at path with one sheet per entry, in order. Each
// sheet has a header line then one line per row. Names longer than
// fundrecon.MaxSheetName are truncated, null cells are left empty.
func Write(path string, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheet to write to %s", path)
	}
	f := excelize.NewFile()
	defer f.Close()

	defaultSheet := f.GetSheetName(0)
	seen := make(map[string]bool)
	for i, s := range sheets {
		name := fundrecon.SheetName(s.Name)
		if seen[strings.ToLower(name)] {
			return fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
		}
		seen[strings.ToLower(name)] = true
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return fmt.Errorf("naming sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", name, err)
		}
		if err := writeTable(f, name, s.Table); err != nil {
			return fmt.Errorf("writing sheet %q: %w", name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeTable(f *excelize.File, sheet string, t *fundrecon.Table) error {
	header := make([]any, 0, len(t.Columns()))
	for _, c := range t.Columns() {
		header = append(header, c)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	for i := 0; i < t.Len(); i++ {
		rec := t.Record(i)
		cells := make([]any, len(rec))
		for j, v := range rec {
			cells[j] = cell(v)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return err
		}
	}
	return nil
}

// cell converts a value to what excelize writes, nil for an empty cell.
func cell(v fundrecon.Value) any {
	x := v.Any()
	if f, ok := x.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return nil
	}
	return x
}
