// =============================================================================
// XML to CSV Converter - XLSX Writer Module
// =============================================================================
//
// This module renders a converted Table as a single-sheet XLSX workbook.
// It is the spreadsheet counterpart of the csvwriter module and receives
// exactly the same Table.
//
// SHEET LAYOUT:
//   Row 1      : Header (bold, frozen)
//   Row 2..N+1 : One row per item; column A holds the sequence number as a
//                number, every other cell is text.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/xml-to-csv-conversion/internal/types"
)

// DefaultSheetName is the name of the first sheet of a new workbook.
const DefaultSheetName = "Sheet1"

// Options contains options for XLSX output.
type Options struct {
	// SheetName is the worksheet name.
	// Default: "Sheet1"
	SheetName string

	// SkipHeader omits the header row.
	SkipHeader bool
}

// =============================================================================
// WRITE FUNCTIONS
// =============================================================================

// WriteFile writes table to a new workbook at path, replacing any existing file.
func WriteFile(path string, table *types.Table, opts Options) error {
	f, err := build(table, opts)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// build assembles the workbook in memory.
func build(table *types.Table, opts Options) (*excelize.File, error) {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = DefaultSheetName
	}

	f := excelize.NewFile()
	ok := false
	defer func() {
		if !ok {
			f.Close()
		}
	}()

	if sheet != DefaultSheetName {
		if err := f.SetSheetName(DefaultSheetName, sheet); err != nil {
			return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to open stream writer: %w", err)
	}

	rowNum := 1

	if !opts.SkipHeader {
		headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return nil, fmt.Errorf("failed to create header style: %w", err)
		}

		// Panes must be set before the first row is streamed.
		if err := sw.SetPanes(&excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("failed to freeze header row: %w", err)
		}

		cells := make([]interface{}, len(table.Header))
		for i, h := range table.Header {
			cells[i] = excelize.Cell{StyleID: headerStyle, Value: h}
		}
		if err := setRow(sw, rowNum, cells); err != nil {
			return nil, err
		}
		rowNum++
	}

	for _, row := range table.Rows {
		if err := setRow(sw, rowNum, rowCells(row)); err != nil {
			return nil, err
		}
		rowNum++
	}

	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("failed to flush sheet: %w", err)
	}

	ok = true
	return f, nil
}

func setRow(sw *excelize.StreamWriter, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNum, err)
	}
	if err := sw.SetRow(cell, cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}

// rowCells stores the sequence column as a number so spreadsheets sort it
// numerically. Everything else stays text.
func rowCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	if len(row) > 0 {
		if n, err := strconv.Atoi(row[0]); err == nil {
			cells[0] = n
		}
	}
	return cells
}
