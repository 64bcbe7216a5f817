package modeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dp "spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

func tracks() *dp.Dataset {
	return dp.MustDataset(
		[]string{"track_name", "energy", "tempo", "popular"},
		[][]dp.Value{
			{dp.StringValue("A"), dp.FloatValue(0.5), dp.IntValue(120), dp.IntValue(1)},
			{dp.StringValue("B"), dp.FloatValue(0.2), dp.FloatValue(98.5), dp.IntValue(0)},
			{dp.StringValue("C"), dp.FloatValue(0.9), dp.IntValue(140), dp.IntValue(1)},
		},
	)
}

func TestNumericColumns(t *testing.T) {
	assert.Equal(t, []string{"energy", "tempo"}, NumericColumns(tracks(), "popular"))
	assert.Equal(t, []string{"energy", "tempo", "popular"}, NumericColumns(tracks()))
}

func TestFeaturesFromDataset(t *testing.T) {
	X, y, err := FeaturesFromDataset(tracks(), nil, "popular")
	require.NoError(t, err)

	rows, cols := X.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)
	assert.Equal(t, 98.5, X.At(1, 1))
	assert.Equal(t, []string{"1", "0", "1"}, y)

	X, _, err = FeaturesFromDataset(tracks(), []string{"tempo"}, "track_name")
	require.NoError(t, err)
	assert.Equal(t, 140.0, X.At(2, 0))
}

func TestFeaturesFromDataset_InvalidInput(t *testing.T) {
	withGap := dp.MustDataset(
		[]string{"energy", "label"},
		[][]dp.Value{
			{dp.FloatValue(0.1), dp.StringValue("x")},
			{dp.MissingValue(), dp.StringValue("y")},
		},
	)
	noLabel := dp.MustDataset(
		[]string{"energy", "label"},
		[][]dp.Value{{dp.FloatValue(0.1), dp.MissingValue()}},
	)

	tests := []struct {
		name     string
		ds       *dp.Dataset
		features []string
		label    string
	}{
		{"unknown label", tracks(), nil, "genre"},
		{"unknown feature", tracks(), []string{"loudness"}, "popular"},
		{"text feature", tracks(), []string{"track_name"}, "popular"},
		{"missing feature value", withGap, []string{"energy"}, "label"},
		{"missing label", noLabel, []string{"energy"}, "label"},
		{"no numeric features", dp.MustDataset([]string{"label"}, nil), nil, "label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := FeaturesFromDataset(tt.ds, tt.features, tt.label)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
		})
	}
}
