package modeling

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "spotifyeda/internal/errors"
)

func TestSaveLoadModel(t *testing.T) {
	X, y := clusters(10, [2]float64{-2, 0}, [2]float64{2, 0})
	model := MakeBaselineModel(DefaultModelOptions())
	model.Features = []string{"energy", "tempo"}
	require.NoError(t, model.Fit(X, y))

	path := filepath.Join(t.TempDir(), "models", "best_model.json")
	require.NoError(t, SaveModel(model, path))

	loaded, err := LoadModel(path)
	require.NoError(t, err)
	assert.Equal(t, model.Features, loaded.Features)
	assert.Equal(t, model.Classifier.Classes, loaded.Classifier.Classes)

	want, err := model.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadModel_Errors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.json")
	require.NoError(t, os.WriteFile(garbage, []byte("{not json"), 0644))
	unfitted := filepath.Join(dir, "unfitted.json")
	require.NoError(t, SaveModel(MakeBaselineModel(ModelOptions{}), unfitted))

	for _, path := range []string{filepath.Join(dir, "missing.json"), garbage, unfitted} {
		_, err := LoadModel(path)
		require.Error(t, err, path)
		assert.True(t, apperrors.IsIOError(err), path)
	}
}

func TestSaveModel_UnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := SaveModel(MakeBaselineModel(ModelOptions{}), filepath.Join(blocker, "model.json"))
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
}
