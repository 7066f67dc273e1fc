package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStreams struct {
	in  *strings.Reader
	out *bytes.Buffer
	err *bytes.Buffer
}

func newStreams(input string) testStreams {
	return testStreams{in: strings.NewReader(input), out: &bytes.Buffer{}, err: &bytes.Buffer{}}
}

func (s testStreams) io() IO {
	return IO{In: s.in, Out: s.out, Err: s.err}
}

func writeInput(t *testing.T, base, name, content string) {
	t.Helper()
	dir := filepath.Join(base, "data", "unprocessed")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestExecute_TooManyArguments(t *testing.T) {
	base := t.TempDir()
	s := newStreams("")

	code := execute(s.io(), base, []string{"one.csv", "two.csv"})

	assert.Equal(t, 1, code)
	assert.Contains(t, s.out.String(), "Usage: csv-consolidator [output_filename]")
	assert.Contains(t, s.out.String(), "Example: csv-consolidator combined_output.csv")
	assert.NoDirExists(t, filepath.Join(base, "data"))
}

func TestExecute_EmptyInputIsNotAnError(t *testing.T) {
	base := t.TempDir()
	s := newStreams("")

	code := execute(s.io(), base, []string{})

	assert.Equal(t, 0, code)
	assert.Contains(t, s.out.String(), "No CSV files found")
	assert.DirExists(t, filepath.Join(base, "data", "unprocessed"))
	entries, err := os.ReadDir(filepath.Join(base, "data", "processed"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecute_ExplicitName(t *testing.T) {
	base := t.TempDir()
	writeInput(t, base, "a.csv", "Exported\nID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n")
	s := newStreams("")

	code := execute(s.io(), base, []string{"combined_output"})

	assert.Equal(t, 0, code)
	data, err := os.ReadFile(filepath.Join(base, "data", "processed", "combined_output.csv"))
	require.NoError(t, err)
	assert.Equal(t, "ID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n", string(data))
}

func TestExecute_PromptsOnExtraColumns(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		header string
	}{
		{name: "yes keeps extras", answer: "Y\n", header: "ID,Timestamp,Transaction Type,Fee"},
		{name: "no drops extras", answer: "n\n", header: "ID,Timestamp,Transaction Type"},
		{name: "no answer drops extras", answer: "", header: "ID,Timestamp,Transaction Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			writeInput(t, base, "a.csv", "ID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n")
			writeInput(t, base, "b.csv", "ID,Timestamp,Transaction Type,Fee\n2,2024-01-06,Deposit,1\n")
			s := newStreams(tt.answer)

			code := execute(s.io(), base, []string{"out.csv"})

			require.Equal(t, 0, code, s.err.String())
			assert.Contains(t, s.out.String(), "b.csv: Additional headers: Fee")
			data, err := os.ReadFile(filepath.Join(base, "data", "processed", "out.csv"))
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), tt.header+"\n"))
		})
	}
}

func TestExecute_RunFailureExitsNonZero(t *testing.T) {
	base := t.TempDir()
	writeInput(t, base, "a.csv", "no marker\n")
	s := newStreams("")

	code := execute(s.io(), base, []string{})

	assert.Equal(t, 1, code)
	assert.Contains(t, s.err.String(), "Error:")
	entries, err := os.ReadDir(filepath.Join(base, "data", "processed"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExecute_InvalidConfig(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, "consolidator.yaml"), []byte("log_level: loud\n"), 0644))
	s := newStreams("")

	code := execute(s.io(), base, []string{})

	assert.Equal(t, 1, code)
	assert.Contains(t, s.err.String(), "failed to load config")
}

func TestExecute_DashPrefixedName(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "leading dash", args: []string{"-report"}, want: "-report.csv"},
		{name: "separator before help-like name", args: []string{"--", "--help"}, want: "--help.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := t.TempDir()
			writeInput(t, base, "a.csv", "ID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n")
			s := newStreams("")

			code := execute(s.io(), base, tt.args)

			require.Equal(t, 0, code, s.err.String())
			assert.FileExists(t, filepath.Join(base, "data", "processed", tt.want))
		})
	}
}

func TestExecute_BlankNameIsUsageError(t *testing.T) {
	base := t.TempDir()
	writeInput(t, base, "a.csv", "ID,Timestamp,Transaction Type\n1,2024-01-05,Deposit\n")
	s := newStreams("")

	code := execute(s.io(), base, []string{" "})

	assert.Equal(t, 1, code)
	assert.Contains(t, s.out.String(), "Usage: csv-consolidator [output_filename]")
	assert.NoDirExists(t, filepath.Join(base, "data", "processed"))
}

func TestExecute_Help(t *testing.T) {
	for _, arg := range []string{"-h", "--help"} {
		t.Run(arg, func(t *testing.T) {
			base := t.TempDir()
			s := newStreams("")

			code := execute(s.io(), base, []string{arg})

			assert.Equal(t, 0, code)
			assert.Contains(t, s.out.String(), "Consolidates every CSV file")
			assert.NoDirExists(t, filepath.Join(base, "data"))
		})
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantName string
		wantHelp bool
		wantErr  error
	}{
		{name: "none", args: nil},
		{name: "plain", args: []string{"out"}, wantName: "out"},
		{name: "dash name", args: []string{"-x.csv"}, wantName: "-x.csv"},
		{name: "help", args: []string{"--help"}, wantHelp: true},
		{name: "separator only", args: []string{"--"}},
		{name: "separator then name", args: []string{"--", "-h"}, wantName: "-h"},
		{name: "empty", args: []string{""}, wantErr: errUsage},
		{name: "two", args: []string{"a", "b"}, wantErr: errUsage},
		{name: "help with name", args: []string{"--help", "a"}, wantErr: errUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, help, err := parseArgs(tt.args)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantHelp, help)
		})
	}
}
