// =============================================================================
// CSV Consolidator - Row Merger
// =============================================================================
//
// This module re-reads every discovered file and stacks their rows into one
// table that uses the authoritative column list.
//
// MERGE STEPS (per file, in discovery order):
//   1. Parse the file. On failure, log it, record it and move on.
//   2. Keep an untouched copy for date-range naming.
//   3. Add a null column for every authoritative column the file lacks.
//
// Then all rows are concatenated and the columns reordered to exactly the
// authoritative list. Columns outside the list are dropped.
//
// A run where no file could be parsed fails with ErrNoValidFiles.
//
// =============================================================================

package merger

import (
	"errors"
	"log/slog"
	"path/filepath"

	"github.com/ginjaninja78/csv-consolidator/internal/types"
)

// ErrNoValidFiles is returned when every file failed to parse.
var ErrNoValidFiles = errors.New("no valid CSV files could be read")

// ParseFunc parses one file into a table.
type ParseFunc func(path string) (*types.Table, error)

// Failure records a file that was left out of the merge.
type Failure struct {
	Path string
	Err  error
}

// Outcome is the result of a merge.
type Outcome struct {
	// Table is the consolidated table.
	Table *types.Table

	// Parsed holds each successfully parsed table before padding, in
	// discovery order.
	Parsed []*types.Table

	// Failures lists the files that were skipped.
	Failures []Failure
}

// Merge parses, pads and concatenates files.
//
// PARAMETERS:
//   - paths: The files to merge, in discovery order.
//   - columns: The authoritative column list.
//   - parse: Parses one file.
//   - logger: Receives one line per merged or skipped file.
//
// RETURNS:
//   - The merge outcome.
//   - ErrNoValidFiles if no file could be parsed. The outcome is still
//     returned so the caller can report the failures.
func Merge(paths []string, columns []string, parse ParseFunc, logger *slog.Logger) (*Outcome, error) {
	outcome := &Outcome{}
	combined := &types.Table{Columns: append([]string(nil), columns...)}

	for _, path := range paths {
		table, err := parse(path)
		if err != nil {
			logger.Error("Error reading file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			outcome.Failures = append(outcome.Failures, Failure{Path: path, Err: err})
			continue
		}

		outcome.Parsed = append(outcome.Parsed, table.Clone())

		for _, column := range table.ColumnSet().Missing(columns) {
			table.AddNullColumn(column)
		}

		combined.Rows = append(combined.Rows, table.Reorder(columns).Rows...)

		logger.Info("Successfully read", slog.String("file", filepath.Base(path)),
			slog.Int("rows", len(table.Rows)))
	}

	if len(outcome.Parsed) == 0 {
		logger.Error("No valid CSV files could be read", slog.Int("failed", len(outcome.Failures)))
		return outcome, ErrNoValidFiles
	}

	outcome.Table = combined
	return outcome, nil
}
