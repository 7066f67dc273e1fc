// =============================================================================
// CSV Consolidator - XLSX Companion Writer
// =============================================================================
//
// When xlsx_companion is enabled, the consolidated table is also written as
// an Excel workbook next to the CSV output, e.g.:
//
//   data/processed/consolidated_01-05-2024_thru_02-01-2024.csv
//   data/processed/consolidated_01-05-2024_thru_02-01-2024.xlsx
//
// WORKBOOK LAYOUT:
//   - One sheet, "Consolidated".
//   - Row 1 holds the column names in bold.
//   - Cell text is written as-is (no number or date coercion); null cells
//     are left empty.
//   - Column widths follow the longest value, capped at maxColumnWidth.
//
// Rows are written through excelize's StreamWriter to keep memory flat for
// large merges.
//
// =============================================================================

package xlsxwriter

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/csv-consolidator/internal/types"
	"github.com/ginjaninja78/csv-consolidator/pkg/utils"
)

// SheetName is the name of the only sheet in the workbook.
const SheetName = "Consolidated"

const (
	minColumnWidth = 8
	maxColumnWidth = 50
)

// Write writes table to path as an XLSX workbook.
//
// PARAMETERS:
//   - path: The destination file. An existing file is replaced.
//   - table: The table to write.
//
// RETURNS:
//   - An error if the workbook cannot be built or written.
func Write(path string, table *types.Table) error {
	f, err := build(table)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	err = utils.WriteFileAtomic(path, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// build lays the table out on a single streamed sheet.
func build(table *types.Table) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create stream writer: %w", err)
	}

	// Widths must be set before the first SetRow.
	for i, width := range columnWidths(table) {
		if err := sw.SetColWidth(i+1, i+1, width); err != nil {
			f.Close()
			return nil, err
		}
	}

	header := make([]interface{}, len(table.Columns))
	for i, column := range table.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: column}
	}
	if err := sw.SetRow("A1", header); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header row: %w", err)
	}

	for r, row := range table.Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			if cell.Valid {
				values[i] = cell.Value
			}
		}

		cellName, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := sw.SetRow(cellName, values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to flush stream writer: %w", err)
	}

	return f, nil
}

// columnWidths sizes each column to its longest value.
func columnWidths(table *types.Table) []float64 {
	widths := make([]float64, len(table.Columns))

	for i, column := range table.Columns {
		longest := utf8.RuneCountInString(column)
		for _, row := range table.Rows {
			if n := utf8.RuneCountInString(row[i].Value); n > longest {
				longest = n
			}
		}

		width := float64(longest + 2)
		if width < minColumnWidth {
			width = minColumnWidth
		}
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		widths[i] = width
	}

	return widths
}
