package visualization

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dp "spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

var pngMagic = []byte("\x89PNG")

func sample() *dp.Dataset {
	return dp.MustDataset(
		[]string{"track_name", "energy", "loudness", "tempo", "mode"},
		[][]dp.Value{
			{dp.StringValue("A"), dp.FloatValue(0.1), dp.FloatValue(-12), dp.IntValue(90), dp.IntValue(1)},
			{dp.StringValue("B"), dp.FloatValue(0.4), dp.FloatValue(-9), dp.IntValue(120), dp.IntValue(1)},
			{dp.StringValue("C"), dp.FloatValue(0.6), dp.FloatValue(-7), dp.MissingValue(), dp.IntValue(1)},
			{dp.StringValue("D"), dp.FloatValue(0.9), dp.FloatValue(-4), dp.IntValue(100), dp.IntValue(1)},
		},
	)
}

func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic), "%s is not a PNG", path)
}

func TestCorrelationMatrix(t *testing.T) {
	corr, names, err := CorrelationMatrix(sample(), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"energy", "loudness", "tempo", "mode"}, names)
	assert.Equal(t, 1.0, corr.At(0, 0))
	assert.InDelta(t, 0.99, corr.At(0, 1), 0.02)
	assert.Equal(t, corr.At(0, 1), corr.At(1, 0))
	assert.True(t, math.IsNaN(corr.At(3, 3)), "constant column has no correlation")
	assert.True(t, math.IsNaN(corr.At(0, 3)))
}

func TestCorrelationMatrix_PairwiseComplete(t *testing.T) {
	corr, _, err := CorrelationMatrix(sample(), []string{"energy", "tempo"})
	require.NoError(t, err)

	// Row C is dropped for this pair only: energy (0.1, 0.4, 0.9) vs tempo (90, 120, 100).
	energy := []float64{0.1, 0.4, 0.9}
	tempo := []float64{90, 120, 100}
	assert.InDelta(t, pearson(energy, tempo), corr.At(0, 1), 1e-12)
}

func pearson(x, y []float64) float64 {
	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= float64(len(x))
	my /= float64(len(y))
	var sxy, sxx, syy float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
		syy += (y[i] - my) * (y[i] - my)
	}
	return sxy / math.Sqrt(sxx*syy)
}

func TestCorrelationMatrix_InvalidSelection(t *testing.T) {
	tests := []struct {
		name string
		cols []string
	}{
		{"unknown column", []string{"energy", "valence"}},
		{"text only", []string{"track_name"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CorrelationMatrix(sample(), tt.cols)
			require.Error(t, err)
			assert.True(t, apperrors.IsInvalidInput(err))
		})
	}
}

func TestPlotExporter_SaveColumnHist(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "figures")
	e := NewPlotExporter(dir, Options{})

	path, err := e.SaveColumnHist(sample(), "tempo", "", 0)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hist_tempo.png"), path)
	assertPNG(t, path)
}

func TestPlotExporter_SaveHistSkipsNonNumeric(t *testing.T) {
	e := NewPlotExporter(t.TempDir(), Options{Bins: 5})

	values := []dp.Value{dp.IntValue(1), dp.StringValue("x"), dp.MissingValue(), dp.FloatValue(math.Inf(1)), dp.FloatValue(2.5)}
	path, err := e.SaveHist(values, "mixed", "mixed.png", 0)
	require.NoError(t, err)
	assertPNG(t, path)

	_, err = e.SaveHist([]dp.Value{dp.StringValue("x")}, "text", "text.png", 10)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestPlotExporter_SaveColumnHistUnknownColumn(t *testing.T) {
	e := NewPlotExporter(t.TempDir(), Options{})

	_, err := e.SaveColumnHist(sample(), "valence", "", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))
}

func TestPlotExporter_SaveCorrHeatmap(t *testing.T) {
	e := NewPlotExporter(t.TempDir(), Options{Width: 5, Height: 5})

	path, err := e.SaveCorrHeatmap(sample(), nil, "")
	require.NoError(t, err)
	assert.Equal(t, HeatmapFilename, filepath.Base(path))
	assertPNG(t, path)
}

func TestPlotExporter_SaveFailsOnBlockedDir(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	e := NewPlotExporter(filepath.Join(blocker, "figures"), Options{})

	_, err := e.SaveColumnHist(sample(), "energy", "", 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsIOError(err))
}

func TestPlotExporter_RenderAll(t *testing.T) {
	e := NewPlotExporter(t.TempDir(), Options{Workers: 2})

	figs := append(HistogramsFor([]string{"energy", "loudness", "tempo"}, 10),
		Figure{Kind: FigureHeatmap})
	paths, err := e.RenderAll(context.Background(), sample(), figs)
	require.NoError(t, err)
	require.Len(t, paths, 4)
	assert.Equal(t, "hist_energy.png", filepath.Base(paths[0]))
	assert.Equal(t, HeatmapFilename, filepath.Base(paths[3]))
	for _, p := range paths {
		assertPNG(t, p)
	}
}

func TestPlotExporter_RenderAllStopsOnError(t *testing.T) {
	e := NewPlotExporter(t.TempDir(), Options{})

	_, err := e.RenderAll(context.Background(), sample(), []Figure{
		{Kind: FigureHistogram, Columns: []string{"energy"}},
		{Kind: "scatter"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsInvalidInput(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.RenderAll(ctx, sample(), HistogramsFor([]string{"energy"}, 0))
	assert.ErrorIs(t, err, context.Canceled)
}
