// =============================================================================
// CSV Consolidator - Date-Range Namer
// =============================================================================
//
// This module derives the output file name from the dates inside the input
// files:
//
//   consolidated_01-05-2024_thru_02-01-2024.csv
//
// DATE DETECTION (per table):
//   1. Walk the columns in table order.
//   2. A column is date-like when any ColumnPredicate matches its name.
//   3. Every non-null value of a date-like column must parse with one of
//      the Layouts. If any value fails, the column is ignored and the walk
//      continues with the next date-like column.
//   4. The first column that parses with at least one value gives the
//      table's representative date: its minimum.
//
// NAMING:
//   The earliest and latest representative dates bound the range. Equal
//   bounds still use the "_thru_" form. With no dates at all the name falls
//   back to the current date.
//
// =============================================================================

package naming

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/csv-consolidator/internal/types"
)

// fileDateFormat is MM-DD-YYYY.
const fileDateFormat = "01-02-2006"

// ColumnPredicate reports whether a column name looks like it holds dates.
type ColumnPredicate func(column string) bool

// ContainsFold matches column names containing keyword, ignoring case.
func ContainsFold(keyword string) ColumnPredicate {
	keyword = strings.ToLower(keyword)
	return func(column string) bool {
		return strings.Contains(strings.ToLower(column), keyword)
	}
}

// PredicatesFor builds one ContainsFold predicate per keyword.
func PredicatesFor(keywords []string) []ColumnPredicate {
	predicates := make([]ColumnPredicate, 0, len(keywords))
	for _, keyword := range keywords {
		predicates = append(predicates, ContainsFold(keyword))
	}
	return predicates
}

// DefaultKeywords are the date-indicating column name fragments.
var DefaultKeywords = []string{"date", "timestamp", "created_at", "datetime", "time"}

// DefaultLayouts are tried in order for every value.
var DefaultLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 3:04:05 PM",
	"2006-01-02 3:04 PM",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04:05 MST",
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006 15:04",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-2006",
}

// =============================================================================
// NAMER
// =============================================================================

// Namer derives output file names.
type Namer struct {
	// Now supplies the fallback date.
	Now func() time.Time

	// Predicates decide which columns are date-like.
	Predicates []ColumnPredicate

	// Layouts are the accepted date formats.
	Layouts []string
}

// New returns a Namer using the given keywords and the default layouts.
func New(keywords []string) *Namer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	return &Namer{
		Now:        time.Now,
		Predicates: PredicatesFor(keywords),
		Layouts:    DefaultLayouts,
	}
}

// FileName returns the output file name for tables.
func (n *Namer) FileName(tables []*types.Table) string {
	earliest, latest, ok := n.Range(tables)
	if !ok {
		return fmt.Sprintf("consolidated_%s.csv", n.Now().Format(fileDateFormat))
	}
	return fmt.Sprintf("consolidated_%s_thru_%s.csv",
		earliest.Format(fileDateFormat), latest.Format(fileDateFormat))
}

// Range returns the earliest and latest representative dates of tables.
func (n *Namer) Range(tables []*types.Table) (time.Time, time.Time, bool) {
	var earliest, latest time.Time
	found := false

	for _, table := range tables {
		date, ok := n.RepresentativeDate(table)
		if !ok {
			continue
		}
		if !found || date.Before(earliest) {
			earliest = date
		}
		if !found || date.After(latest) {
			latest = date
		}
		found = true
	}

	return earliest, latest, found
}

// RepresentativeDate returns the earliest date in the table's first
// parseable date-like column.
func (n *Namer) RepresentativeDate(table *types.Table) (time.Time, bool) {
	for _, column := range table.Columns {
		if !n.isDateColumn(column) {
			continue
		}
		if date, ok := n.minDate(table.Column(column)); ok {
			return date, true
		}
	}
	return time.Time{}, false
}

func (n *Namer) isDateColumn(column string) bool {
	for _, predicate := range n.Predicates {
		if predicate(column) {
			return true
		}
	}
	return false
}

// minDate parses every non-null cell. Any failure rejects the column.
func (n *Namer) minDate(cells []types.Cell) (time.Time, bool) {
	var earliest time.Time
	found := false

	for _, cell := range cells {
		if !cell.Valid || strings.TrimSpace(cell.Value) == "" {
			continue
		}
		date, err := n.parse(cell.Value)
		if err != nil {
			return time.Time{}, false
		}
		if !found || date.Before(earliest) {
			earliest = date
			found = true
		}
	}

	return earliest, found
}

func (n *Namer) parse(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range n.Layouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
