// =============================================================================
// CSV Consolidator - Header Locator / CSV Parser
// =============================================================================
//
// This module parses export files whose real CSV header is preceded by a
// variable number of metadata lines. The export tool gives no line count,
// so the header is located by a fixed literal marker instead:
//
//   Report: Transactions            <- preamble, skipped
//   Generated: 2024-02-02 08:00     <- preamble, skipped
//   ID,Timestamp,Transaction Type,Amount   <- header (contains the marker)
//   1,2024-01-05 10:00:00,Deposit,10.00    <- data
//
// PARSING RULES:
//   - The first line containing the marker substring is the header.
//   - A file with no such line fails with *HeaderNotFoundError.
//   - Empty fields are null cells; all other text is kept as-is.
//   - Short rows are padded with nulls. Rows with more fields than the
//     header fail the whole file with *MalformedRowError.
//   - Blank header names become "Unnamed: <index>"; repeated names get a
//     ".<n>" suffix so every column name is unique.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/csv-consolidator/internal/types"
)

// utf8BOM is stripped from the start of a file before parsing.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how a file is parsed.
type Settings struct {
	// Marker is the substring that identifies the header line.
	Marker string
}

// =============================================================================
// HEADER LOCATOR
// =============================================================================

// HeaderLocation is where the header line starts.
type HeaderLocation struct {
	// Line is the 0-based line index of the header.
	Line int

	// Offset is the byte offset of the header line's first byte.
	Offset int
}

// LocateHeader finds the first line of r that contains marker.
//
// RETURNS:
//   - The header location.
//   - ErrHeaderNotFound if no line contains the marker, or the read error.
func LocateHeader(r io.Reader, marker string) (HeaderLocation, error) {
	reader := bufio.NewReader(r)
	offset := 0

	for index := 0; ; index++ {
		line, err := reader.ReadString('\n')
		if strings.Contains(line, marker) {
			return HeaderLocation{Line: index, Offset: offset}, nil
		}
		if errors.Is(err, io.EOF) {
			return HeaderLocation{Line: -1, Offset: -1}, ErrHeaderNotFound
		}
		if err != nil {
			return HeaderLocation{Line: -1, Offset: -1}, err
		}
		offset += len(line)
	}
}

// =============================================================================
// PARSER
// =============================================================================

// Parse reads a file and returns its table, starting at the header line.
//
// PARAMETERS:
//   - filePath: The path to the export file.
//   - settings: The parsing settings.
//
// RETURNS:
//   - The parsed table.
//   - *ReadError, *HeaderNotFoundError or *MalformedRowError on failure.
func Parse(filePath string, settings Settings) (*types.Table, error) {
	content, err := readFile(filePath)
	if err != nil {
		return nil, err
	}

	location, err := LocateHeader(bytes.NewReader(content), settings.Marker)
	if errors.Is(err, ErrHeaderNotFound) {
		return nil, &HeaderNotFoundError{Path: filePath, Marker: settings.Marker}
	}
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: fmt.Errorf("failed to locate header: %w", err)}
	}

	csvReader := csv.NewReader(bytes.NewReader(content[location.Offset:]))
	configureReader(csvReader)

	header, err := csvReader.Read()
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: fmt.Errorf("failed to read header row: %w", err)}
	}

	table := &types.Table{
		SourceFile: filePath,
		Columns:    cleanHeaders(header),
	}

	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ReadError{Path: filePath, Err: fmt.Errorf("failed to read CSV: %w", err)}
		}

		if len(record) > len(table.Columns) {
			line, _ := csvReader.FieldPos(0)
			return nil, &MalformedRowError{
				Path:    filePath,
				Line:    location.Line + line,
				Fields:  len(record),
				Columns: len(table.Columns),
			}
		}

		table.Rows = append(table.Rows, toRow(record, len(table.Columns)))
	}

	return table, nil
}

// readFile loads the whole file and checks its encoding. The handle is
// closed before returning.
func readFile(filePath string) ([]byte, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: fmt.Errorf("failed to open file: %w", err)}
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, &ReadError{Path: filePath, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	content = bytes.TrimPrefix(content, utf8BOM)
	if !utf8.Valid(content) {
		return nil, &ReadError{Path: filePath, Err: ErrInvalidEncoding}
	}

	return content, nil
}

// configureReader sets up the CSV reader. Row width is checked by Parse so
// short rows can be padded instead of rejected.
func configureReader(reader *csv.Reader) {
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// cleanHeaders trims header names, names blank ones after their position
// and makes duplicates unique.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	used := make(map[string]bool, len(headers))
	suffix := make(map[string]int)

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Unnamed: %d", i)
		}

		name := header
		for used[name] {
			suffix[header]++
			name = fmt.Sprintf("%s.%d", header, suffix[header])
		}
		used[name] = true

		cleaned[i] = name
	}

	return cleaned
}

// toRow converts a record to cells, padding short records with nulls.
func toRow(record []string, width int) types.Row {
	row := make(types.Row, width)
	for i := range row {
		if i < len(record) && record[i] != "" {
			row[i] = types.Text(record[i])
		} else {
			row[i] = types.Null
		}
	}
	return row
}
