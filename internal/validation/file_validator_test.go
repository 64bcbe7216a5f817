package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spotifyeda/internal/errors"
	"spotifyeda/internal/shared/testutil"
)

func TestFileValidator_ValidateSourceFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T, dir string) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "valid csv",
			setupFunc: func(t *testing.T, dir string) string {
				return testutil.WriteFile(t, dir, "tracks.csv", testutil.ScenarioCSV)
			},
		},
		{
			name: "valid workbook extension",
			setupFunc: func(t *testing.T, dir string) string {
				return testutil.WriteFile(t, dir, "tracks.XLSX", "PK")
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T, dir string) string {
				return filepath.Join(dir, "missing.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory",
			setupFunc: func(t *testing.T, dir string) string {
				path := filepath.Join(dir, "folder.csv")
				require.NoError(t, os.Mkdir(path, 0755))
				return path
			},
			wantErr:       true,
			errorContains: "not a regular file",
		},
		{
			name: "unsupported extension",
			setupFunc: func(t *testing.T, dir string) string {
				return testutil.WriteFile(t, dir, "tracks.json", "{}")
			},
			wantErr:       true,
			errorContains: "unsupported extension",
		},
		{
			name: "lock file",
			setupFunc: func(t *testing.T, dir string) string {
				return testutil.WriteFile(t, dir, "~$tracks.xlsx", "x")
			},
			wantErr:       true,
			errorContains: "lock file",
		},
		{
			name: "empty file",
			setupFunc: func(t *testing.T, dir string) string {
				return testutil.WriteFile(t, dir, "empty.csv", "")
			},
			wantErr:       true,
			errorContains: "is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			path := tt.setupFunc(t, t.TempDir())

			err := NewFileValidator(logger).ValidateSourceFile(path)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateInputDirectory(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.csv", testutil.ScenarioCSV)
	testutil.WriteFile(t, dir, "b.xlsx", "x")
	testutil.WriteFile(t, dir, "notes.txt", "x")

	v := NewFileValidator(nil)

	count, err := v.ValidateInputDirectory(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = v.ValidateInputDirectory(t.TempDir())
	require.NoError(t, err, "no files is not an error")
	assert.Zero(t, count)

	_, err = v.ValidateInputDirectory(filepath.Join(dir, "a.csv"))
	assert.True(t, apperrors.IsInvalidInput(err))

	_, err = v.ValidateInputDirectory(filepath.Join(dir, "missing"))
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	v := NewFileValidator(logger)

	out := filepath.Join(t.TempDir(), "data", "clean")
	require.NoError(t, v.ValidateOutputDirectory(out))
	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries, "write probe is removed")
	testutil.AssertNoErrors(t, logs)

	blocker := testutil.WriteFile(t, t.TempDir(), "blocker", "x")
	err = v.ValidateOutputDirectory(filepath.Join(blocker, "sub"))
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
}
