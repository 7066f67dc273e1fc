// =============================================================================
// CSV Consolidator - Shared Types
// =============================================================================
//
// This package contains the tabular data model shared by every stage of the
// consolidation pipeline. Types defined here are used by:
//   - csvparser    (produces one Table per input file)
//   - schema       (reads each Table's ColumnSet)
//   - merger       (pads, concatenates and reorders Tables)
//   - naming       (scans date-like columns)
//   - csvwriter / xlsxwriter (serialize the consolidated Table)
//
// NULL REPRESENTATION:
//   Cells carry an explicit Valid flag. An empty input field and a column
//   that was added during padding are both null. Non-null text is never
//   re-typed, so it is written back exactly as it was read.
//
// =============================================================================

package types

// =============================================================================
// CELL
// =============================================================================

// Cell is a single value in a Table.
type Cell struct {
	// Value is the raw text of the cell. It is meaningless when Valid is false.
	Value string

	// Valid is false for null cells.
	Valid bool
}

// Null is the null cell.
var Null = Cell{}

// Text returns a non-null cell holding s.
func Text(s string) Cell {
	return Cell{Value: s, Valid: true}
}

// String renders the cell for output. Null cells render as "".
func (c Cell) String() string {
	if !c.Valid {
		return ""
	}
	return c.Value
}

// Row is an ordered sequence of cells aligned with its Table's Columns.
type Row []Cell

// =============================================================================
// COLUMN SET
// =============================================================================

// ColumnSet is the set of column names belonging to one Table.
type ColumnSet map[string]struct{}

// NewColumnSet builds a ColumnSet from names.
func NewColumnSet(names []string) ColumnSet {
	set := make(ColumnSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s ColumnSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Missing returns the names from candidates that are not in the set,
// preserving the order of candidates.
func (s ColumnSet) Missing(candidates []string) []string {
	var missing []string
	for _, name := range candidates {
		if !s.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// =============================================================================
// TABLE
// =============================================================================

// Table is an ordered list of named columns plus rows of cells.
//
// Every Row in Rows has exactly len(Columns) cells. Methods that change the
// shape of the table keep that invariant.
type Table struct {
	// SourceFile is the path of the file the table was parsed from.
	// Empty for consolidated tables.
	SourceFile string

	// Columns holds the column names in order.
	Columns []string

	// Rows holds the data rows in their original order.
	Rows []Row
}

// ColumnIndex returns the position of name in Columns, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table has a column called name.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnSet returns the set of the table's column names.
func (t *Table) ColumnSet() ColumnSet {
	return NewColumnSet(t.Columns)
}

// Column returns every cell of the named column, or nil if the table has
// no such column.
func (t *Table) Column(name string) []Cell {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return nil
	}
	cells := make([]Cell, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells
}

// AddNullColumn appends a column filled with null cells. It is a no-op if
// the column already exists.
func (t *Table) AddNullColumn(name string) {
	if t.HasColumn(name) {
		return
	}
	t.Columns = append(t.Columns, name)
	for i := range t.Rows {
		t.Rows[i] = append(t.Rows[i], Null)
	}
}

// Reorder returns a new table whose columns are exactly columns, in that
// order. Columns the table lacks are null; columns not listed are dropped.
func (t *Table) Reorder(columns []string) *Table {
	positions := make([]int, len(columns))
	for i, name := range columns {
		positions[i] = t.ColumnIndex(name)
	}

	out := &Table{
		SourceFile: t.SourceFile,
		Columns:    append([]string(nil), columns...),
		Rows:       make([]Row, len(t.Rows)),
	}
	for r, row := range t.Rows {
		reordered := make(Row, len(columns))
		for i, pos := range positions {
			if pos >= 0 {
				reordered[i] = row[pos]
			} else {
				reordered[i] = Null
			}
		}
		out.Rows[r] = reordered
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{
		SourceFile: t.SourceFile,
		Columns:    append([]string(nil), t.Columns...),
		Rows:       make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = append(Row(nil), row...)
	}
	return out
}

// Records renders the rows as string slices, nulls as "".
func (t *Table) Records() [][]string {
	records := make([][]string, len(t.Rows))
	for i, row := range t.Rows {
		record := make([]string, len(row))
		for j, cell := range row {
			record[j] = cell.String()
		}
		records[i] = record
	}
	return records
}
