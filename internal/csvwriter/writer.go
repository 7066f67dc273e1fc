// =============================================================================
// CSV Consolidator - CSV Writer
// =============================================================================
//
// This module serializes the consolidated table:
//   - one header row with the reconciled column order
//   - one record per row, null cells as empty fields
//
// The file is written atomically (see utils.WriteFileAtomic), so a failed
// write never leaves a partial output file.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/ginjaninja78/csv-consolidator/internal/types"
	"github.com/ginjaninja78/csv-consolidator/pkg/utils"
)

// Write writes table to path as CSV.
//
// PARAMETERS:
//   - path: The destination file. An existing file is replaced.
//   - table: The table to write.
//
// RETURNS:
//   - An error if the file cannot be written.
func Write(path string, table *types.Table) error {
	err := utils.WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, table)
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Encode writes table as CSV to w.
func Encode(w io.Writer, table *types.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, record := range table.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
