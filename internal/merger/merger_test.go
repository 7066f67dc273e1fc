package merger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/csv-consolidator/internal/csvparser"
	"github.com/ginjaninja78/csv-consolidator/internal/logging"
	"github.com/ginjaninja78/csv-consolidator/internal/types"
)

// fakeParser serves tables from memory.
func fakeParser(tables map[string]*types.Table) ParseFunc {
	return func(path string) (*types.Table, error) {
		table, ok := tables[path]
		if !ok {
			return nil, &csvparser.HeaderNotFoundError{Path: path, Marker: "ID"}
		}
		return table.Clone(), nil
	}
}

func TestMerge_PadsAndConcatenatesInOrder(t *testing.T) {
	tables := map[string]*types.Table{
		"a.csv": {
			SourceFile: "a.csv",
			Columns:    []string{"ID", "Timestamp"},
			Rows: []types.Row{
				{types.Text("1"), types.Text("2024-01-05")},
				{types.Text("2"), types.Text("2024-01-06")},
			},
		},
		"b.csv": {
			SourceFile: "b.csv",
			Columns:    []string{"Timestamp", "Fee", "ID"},
			Rows: []types.Row{
				{types.Text("2024-02-01"), types.Text("0.50"), types.Text("3")},
			},
		},
	}
	columns := []string{"ID", "Timestamp", "Fee"}

	outcome, err := Merge([]string{"a.csv", "b.csv"}, columns, fakeParser(tables), logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, columns, outcome.Table.Columns)
	assert.Equal(t, []types.Row{
		{types.Text("1"), types.Text("2024-01-05"), types.Null},
		{types.Text("2"), types.Text("2024-01-06"), types.Null},
		{types.Text("3"), types.Text("2024-02-01"), types.Text("0.50")},
	}, outcome.Table.Rows)
	assert.Empty(t, outcome.Failures)
}

func TestMerge_EveryRowHasEveryColumn(t *testing.T) {
	tables := map[string]*types.Table{
		"a.csv": {Columns: []string{"ID"}, Rows: []types.Row{{types.Text("1")}}},
		"b.csv": {Columns: []string{"Note"}, Rows: []types.Row{{types.Text("x")}, {types.Null}}},
		"c.csv": {Columns: []string{"Fee", "ID", "Note"}, Rows: []types.Row{{types.Null, types.Text("9"), types.Text("y")}}},
	}
	columns := []string{"ID", "Note", "Fee"}

	outcome, err := Merge([]string{"a.csv", "b.csv", "c.csv"}, columns, fakeParser(tables), logging.Discard())
	require.NoError(t, err)

	require.Len(t, outcome.Table.Rows, 4)
	for _, row := range outcome.Table.Rows {
		assert.Len(t, row, len(columns))
	}
}

func TestMerge_DropsColumnsOutsideTheList(t *testing.T) {
	tables := map[string]*types.Table{
		"a.csv": {Columns: []string{"ID", "Fee"}, Rows: []types.Row{{types.Text("1"), types.Text("0.1")}}},
	}

	outcome, err := Merge([]string{"a.csv"}, []string{"ID"}, fakeParser(tables), logging.Discard())
	require.NoError(t, err)

	assert.Equal(t, []string{"ID"}, outcome.Table.Columns)
	assert.Equal(t, []types.Row{{types.Text("1")}}, outcome.Table.Rows)
}

func TestMerge_ParsedTablesAreUnpadded(t *testing.T) {
	tables := map[string]*types.Table{
		"a.csv": {Columns: []string{"ID"}, Rows: []types.Row{{types.Text("1")}}},
	}

	outcome, err := Merge([]string{"a.csv"}, []string{"ID", "Fee"}, fakeParser(tables), logging.Discard())
	require.NoError(t, err)

	require.Len(t, outcome.Parsed, 1)
	assert.Equal(t, []string{"ID"}, outcome.Parsed[0].Columns)
}

func TestMerge_SkipsFailedFiles(t *testing.T) {
	tables := map[string]*types.Table{
		"good.csv": {Columns: []string{"ID"}, Rows: []types.Row{{types.Text("1")}}},
	}

	outcome, err := Merge([]string{"bad.csv", "good.csv"}, []string{"ID"}, fakeParser(tables), logging.Discard())
	require.NoError(t, err)

	require.Len(t, outcome.Failures, 1)
	assert.Equal(t, "bad.csv", outcome.Failures[0].Path)
	assert.ErrorIs(t, outcome.Failures[0].Err, csvparser.ErrHeaderNotFound)
	assert.Len(t, outcome.Table.Rows, 1)
}

func TestMerge_AllFilesFail(t *testing.T) {
	outcome, err := Merge([]string{"x.csv", "y.csv"}, []string{"ID"}, fakeParser(nil), logging.Discard())

	require.True(t, errors.Is(err, ErrNoValidFiles))
	require.NotNil(t, outcome)
	assert.Nil(t, outcome.Table)
	assert.Len(t, outcome.Failures, 2)
}

func TestMerge_WithRealParser(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.csv")
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(good, []byte("Exported\nID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n"), 0644))
	require.NoError(t, os.WriteFile(bad, []byte("no header here\n1,2,3\n"), 0644))

	parse := func(path string) (*types.Table, error) {
		return csvparser.Parse(path, csvparser.Settings{Marker: "ID,Timestamp,Transaction Type"})
	}

	outcome, err := Merge([]string{bad, good}, []string{"ID", "Timestamp", "Transaction Type"}, parse, logging.Discard())
	require.NoError(t, err)

	assert.Len(t, outcome.Failures, 1)
	assert.Equal(t, [][]string{{"1", "2024-01-05", "Deposit"}}, outcome.Table.Records())
}
