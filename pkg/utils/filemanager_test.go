package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	fm := NewFileManager(filepath.Join(base, "data", "unprocessed"), filepath.Join(base, "data", "processed"))

	require.NoError(t, fm.EnsureDirectories())
	require.NoError(t, fm.EnsureDirectories())

	assert.DirExists(t, fm.InputDir)
	assert.DirExists(t, fm.OutputDir)
}

func TestDiscoverInputFiles(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		dirs  []string
		want  []string
	}{
		{
			name:  "sorted csv files only",
			files: []string{"b.csv", "a.csv", "notes.txt", "c.CSV.bak"},
			want:  []string{"a.csv", "b.csv"},
		},
		{
			name:  "directories and nested files are ignored",
			files: []string{"top.csv", "nested/inner.csv"},
			dirs:  []string{"nested", "folder.csv"},
			want:  []string{"top.csv"},
		},
		{
			name: "empty directory",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, d := range tt.dirs {
				require.NoError(t, os.MkdirAll(filepath.Join(dir, d), 0755))
			}
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644))
			}

			got, err := NewFileManager(dir, t.TempDir()).DiscoverInputFiles("")
			require.NoError(t, err)

			var want []string
			for _, f := range tt.want {
				want = append(want, filepath.Join(dir, f))
			}
			assert.Equal(t, want, got)
		})
	}
}

func TestDiscoverInputFiles_BadPattern(t *testing.T) {
	_, err := NewFileManager(t.TempDir(), t.TempDir()).DiscoverInputFiles("[")
	assert.Error(t, err)
}

func TestNormalizeOutputName(t *testing.T) {
	tests := map[string]string{
		"combined":         "combined.csv",
		"combined.csv":     "combined.csv",
		"COMBINED.CSV":     "COMBINED.CSV",
		"report.2024":      "report.2024.csv",
		"consolidated.txt": "consolidated.txt.csv",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeOutputName(in), in)
	}
}

func TestOutputPathAndCompanion(t *testing.T) {
	fm := NewFileManager("in", "out")

	path := fm.OutputPath("combined")

	assert.Equal(t, filepath.Join("out", "combined.csv"), path)
	assert.Equal(t, filepath.Join("out", "combined.xlsx"), CompanionPath(path, ".xlsx"))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := fmt.Fprint(w, "a,b\n")
		return err
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomic_FailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	boom := errors.New("boom")

	err := WriteFileAtomic(path, func(w io.Writer) error {
		fmt.Fprint(w, "partial")
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, path)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
