// =============================================================================
// CSV Consolidator - Consolidation Pipeline
// =============================================================================
//
// This module orchestrates one consolidation run, from file discovery to the
// written output.
//
// PIPELINE:
//   1. Ensure the input and output directories exist
//   2. Discover candidate files in the input directory
//   3. Collect every file's header (fatal on failure unless
//      skip_invalid_files is set)
//   4. Reconcile the schemas (may ask the Decider)
//   5. Merge the rows (per-file failures are skipped)
//   6. Name the output (explicit name, or derived from the data's dates)
//   7. Write the CSV, and the XLSX companion when enabled
//
// FAILURES:
//   - No candidate files: ErrEmptyInput, nothing written.
//   - No file could be merged: merger.ErrNoValidFiles, nothing written.
//   - Anything else is logged and returned wrapped.
//
// =============================================================================

package consolidator

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/csv-consolidator/internal/config"
	"github.com/ginjaninja78/csv-consolidator/internal/csvparser"
	"github.com/ginjaninja78/csv-consolidator/internal/csvwriter"
	"github.com/ginjaninja78/csv-consolidator/internal/merger"
	"github.com/ginjaninja78/csv-consolidator/internal/naming"
	"github.com/ginjaninja78/csv-consolidator/internal/schema"
	"github.com/ginjaninja78/csv-consolidator/internal/types"
	"github.com/ginjaninja78/csv-consolidator/internal/xlsxwriter"
	"github.com/ginjaninja78/csv-consolidator/pkg/utils"
)

// ErrEmptyInput is returned when the input directory has no candidate files.
var ErrEmptyInput = errors.New("no CSV files found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// RunID identifies the run in log lines.
	RunID string

	// OutputPath is the consolidated CSV file.
	OutputPath string

	// CompanionPath is the XLSX companion, empty unless enabled.
	CompanionPath string

	// Columns is the reconciled column list.
	Columns []string

	// FilesFound is the number of candidate files discovered.
	FilesFound int

	// FilesMerged is the number of files whose rows were merged.
	FilesMerged int

	// Failures lists files that were skipped.
	Failures []merger.Failure

	// Rows is the number of rows written.
	Rows int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// =============================================================================
// CONSOLIDATOR STRUCTURE
// =============================================================================

// Consolidator runs the pipeline with one configuration.
type Consolidator struct {
	cfg     *config.Config
	files   *utils.FileManager
	decider schema.Decider
	namer   *naming.Namer
	logger  *slog.Logger
}

// New creates a Consolidator. cfg directories should already be resolved.
//
// PARAMETERS:
//   - cfg: The application configuration.
//   - decider: Chooses whether extra columns are kept.
//   - logger: Receives progress and error lines.
func New(cfg *config.Config, decider schema.Decider, logger *slog.Logger) *Consolidator {
	return &Consolidator{
		cfg:     cfg,
		files:   utils.NewFileManager(cfg.InputDir, cfg.OutputDir),
		decider: decider,
		namer:   naming.New(cfg.DateColumnKeywords),
		logger:  logger,
	}
}

// SetClock replaces the clock used for the fallback output name.
func (c *Consolidator) SetClock(now func() time.Time) {
	c.namer.Now = now
}

// parse reads one file with the configured marker.
func (c *Consolidator) parse(path string) (*types.Table, error) {
	return csvparser.Parse(path, csvparser.Settings{Marker: c.cfg.HeaderMarker})
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes one consolidation.
//
// PARAMETERS:
//   - outputName: The desired output file name. Empty derives the name from
//     the dates in the data; ".csv" is appended when missing.
//
// RETURNS:
//   - The run result.
//   - ErrEmptyInput, merger.ErrNoValidFiles, or a wrapped failure.
func (c *Consolidator) Run(outputName string) (*Result, error) {
	start := time.Now()
	result := &Result{RunID: uuid.NewString()}
	logger := c.logger.With(slog.String("run_id", result.RunID))

	// =========================================================================
	// STEP 1-2: DIRECTORIES AND DISCOVERY
	// =========================================================================

	if err := c.files.EnsureDirectories(); err != nil {
		logger.Error("An error occurred", slog.String("error", err.Error()))
		return nil, err
	}

	paths, err := c.files.DiscoverInputFiles(c.cfg.FilePattern)
	if err != nil {
		logger.Error("An error occurred", slog.String("error", err.Error()))
		return nil, err
	}
	result.FilesFound = len(paths)

	if len(paths) == 0 {
		logger.Warn("No CSV files found", slog.String("dir", c.cfg.InputDir))
		return result, ErrEmptyInput
	}
	logger.Info(fmt.Sprintf("Found %d CSV files to process", len(paths)))

	// =========================================================================
	// STEP 3: HEADER COLLECTION
	// =========================================================================

	headers, err := c.collectHeaders(logger, paths)
	if err != nil {
		return result, err
	}
	if len(headers) == 0 {
		logger.Error("No valid CSV files could be read")
		return result, merger.ErrNoValidFiles
	}

	// =========================================================================
	// STEP 4: SCHEMA RECONCILIATION
	// =========================================================================

	reconciled := schema.Reconcile(headers, c.decider)
	for _, extra := range reconciled.Extras {
		logger.Warn("Additional headers",
			slog.String("file", filepath.Base(extra.Path)),
			slog.Any("columns", extra.Columns))
	}
	if reconciled.Prompted && !reconciled.IncludedExtras {
		logger.Info("Proceeding with only common headers")
	}
	result.Columns = reconciled.Columns

	// =========================================================================
	// STEP 5: MERGE
	// =========================================================================

	outcome, err := merger.Merge(paths, reconciled.Columns, c.parse, logger)
	result.Failures = outcome.Failures
	if err != nil {
		return result, err
	}
	result.FilesMerged = len(outcome.Parsed)
	result.Rows = len(outcome.Table.Rows)

	// =========================================================================
	// STEP 6-7: NAME AND WRITE
	// =========================================================================

	if outputName == "" {
		outputName = c.namer.FileName(outcome.Parsed)
	}
	result.OutputPath = c.files.OutputPath(outputName)

	if err := csvwriter.Write(result.OutputPath, outcome.Table); err != nil {
		logger.Error("An error occurred", slog.String("error", err.Error()))
		return result, err
	}

	if c.cfg.XLSXCompanion {
		companion := utils.CompanionPath(result.OutputPath, ".xlsx")
		if err := xlsxwriter.Write(companion, outcome.Table); err != nil {
			logger.Error("An error occurred", slog.String("error", err.Error()))
			return result, err
		}
		result.CompanionPath = companion
	}

	result.Duration = time.Since(start)

	logger.Info(fmt.Sprintf("Successfully consolidated %d CSV files", result.FilesMerged),
		slog.String("output", result.OutputPath))
	logger.Info(fmt.Sprintf("Total rows: %d", result.Rows))
	logger.Info(fmt.Sprintf("Total columns: %d", len(result.Columns)))

	return result, nil
}

// collectHeaders parses every file once to learn its columns.
func (c *Consolidator) collectHeaders(logger *slog.Logger, paths []string) ([]schema.FileColumns, error) {
	headers := make([]schema.FileColumns, 0, len(paths))

	for _, path := range paths {
		table, err := c.parse(path)
		if err != nil {
			logger.Error("Error reading headers",
				slog.String("file", path),
				slog.String("error", err.Error()))
			if c.cfg.SkipInvalidFiles {
				continue
			}
			return nil, fmt.Errorf("failed to read headers: %w", err)
		}
		headers = append(headers, schema.FileColumns{Path: path, Columns: table.Columns})
	}

	return headers, nil
}
