// =============================================================================
// CSV Consolidator - File Manager Utility
// =============================================================================
//
// This module provides the file system side of a consolidation run:
//   - Directory management (input and output directories)
//   - File discovery (non-recursive, deterministic order)
//   - Output naming (".csv" extension handling)
//   - Atomic output writes
//
// ATOMIC WRITES:
//   Output is first written to a hidden temporary file in the destination
//   directory and renamed into place only after it is complete. A failed
//   run therefore never leaves a partial output file behind.
//
// =============================================================================

package utils

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the consolidator.
type FileManager struct {
	// InputDir is the directory scanned for input files.
	InputDir string

	// OutputDir is the directory that receives the consolidated file.
	OutputDir string
}

// NewFileManager creates a new FileManager with the specified directories.
func NewFileManager(inputDir, outputDir string) *FileManager {
	return &FileManager{
		InputDir:  inputDir,
		OutputDir: outputDir,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDirectories creates the input and output directories if they
// don't exist.
func (fm *FileManager) EnsureDirectories() error {
	for _, dir := range []string{fm.InputDir, fm.OutputDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// =============================================================================
// FILE DISCOVERY
// =============================================================================

// DiscoverInputFiles lists the files in the input directory matching the
// pattern.
//
// PARAMETERS:
//   - pattern: A glob pattern to match files (e.g., "*.csv").
//              If empty, defaults to "*.csv".
//
// RETURNS:
//   - The matching file paths, sorted. Directories are skipped. An empty
//     slice is not an error.
//   - An error if the pattern is invalid.
func (fm *FileManager) DiscoverInputFiles(pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*.csv"
	}

	files, err := filepath.Glob(filepath.Join(fm.InputDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory: %w", err)
	}

	var result []string
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			result = append(result, file)
		}
	}

	sort.Strings(result)
	return result, nil
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// NormalizeOutputName appends ".csv" unless name already ends with it.
func NormalizeOutputName(name string) string {
	if !strings.HasSuffix(strings.ToLower(name), ".csv") {
		name += ".csv"
	}
	return name
}

// OutputPath returns the full output path for name.
func (fm *FileManager) OutputPath(name string) string {
	return filepath.Join(fm.OutputDir, NormalizeOutputName(name))
}

// CompanionPath swaps the extension of an output path for ext.
func CompanionPath(outputPath, ext string) string {
	return strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + ext
}

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes a file through a temporary sibling and renames it
// into place once write succeeds.
//
// PARAMETERS:
//   - path: The destination path.
//   - write: Produces the file content.
//
// RETURNS:
//   - An error if writing, syncing or renaming fails. The temporary file is
//     removed on failure and path is left untouched.
func WriteFileAtomic(path string, write func(w io.Writer) error) (err error) {
	tmpPath := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	file, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			file.Close()
			os.Remove(tmpPath)
		}
	}()

	buffered := bufio.NewWriter(file)
	if err = write(buffered); err != nil {
		return err
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err = file.Sync(); err != nil {
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err = file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}
