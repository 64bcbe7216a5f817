package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotifyeda/internal/config"
	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/exporter"
	"spotifyeda/internal/infrastructure"
	"spotifyeda/internal/modeling"
	"spotifyeda/internal/operations"
	"spotifyeda/internal/visualization"
)

const perGenre = 15

// rawExport builds an unnormalized export with perGenre tracks per genre,
// one duplicated track and two tracks under a second long.
func rawExport() string {
	centers := []struct {
		genre         string
		energy, tempo float64
	}{
		{"pop", 0, 0},
		{"rock", 4, 4},
		{"jazz", -4, 4},
	}
	rng := rand.New(rand.NewSource(7))

	var b strings.Builder
	b.WriteString("Track Name, Duration Ms,Energy,Tempo,Genre\n")
	var first string
	for _, c := range centers {
		for i := 0; i < perGenre; i++ {
			line := fmt.Sprintf("%s-%d,%d,%.4f,%.4f,%s\n", c.genre, i, 180000+i*1000,
				c.energy+rng.NormFloat64()*0.3, c.tempo+rng.NormFloat64()*0.3, c.genre)
			if first == "" {
				first = line
			}
			b.WriteString(line)
		}
	}
	b.WriteString(first)
	b.WriteString("intro,900,0.1,0.1,pop\n")
	b.WriteString("outro,12,0.2,0.2,rock\n")
	return b.String()
}

func TestCleanTrainAndPlot(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	rawPath := filepath.Join(paths.RawDir, "spotify.csv")
	require.NoError(t, os.MkdirAll(paths.RawDir, 0755))
	require.NoError(t, os.WriteFile(rawPath, []byte(rawExport()), 0644))

	// clean
	pipeline := operations.NewPipeline(operations.Options{
		Metrics: infrastructure.NoopPipelineMetrics(),
		Logger:  logger,
	})
	result, err := pipeline.Run(context.Background(), operations.Request{
		Source: operations.FileSource(rawPath, ""),
		Sink:   operations.CSVSink(exporter.NewCSVWriter(paths), "", exporter.WriteOptions{}),
	})
	require.NoError(t, err)
	assert.Equal(t, paths.CleanCSVPath(""), result.OutputPath)
	require.NotNil(t, result.Stats)
	assert.Equal(t, 3*perGenre+3, result.Stats.InputRows)
	assert.Equal(t, 1, result.Stats.DuplicatesRemoved)
	assert.Equal(t, 2, result.Stats.ShortTracksRemoved)
	assert.Equal(t, 3*perGenre, result.Stats.OutputRows)

	clean, err := dataprocessing.Load(result.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"track_name", "duration_ms", "energy", "tempo", "genre"}, clean.Columns())
	assert.Equal(t, 3*perGenre, clean.Len())

	// train
	features := []string{"energy", "tempo"}
	X, y, err := modeling.FeaturesFromDataset(clean, features, "genre")
	require.NoError(t, err)

	opts := modeling.DefaultTrainOptions()
	opts.Model = modeling.MakeBaselineModel(modeling.DefaultModelOptions())
	opts.Model.Features = features
	fitted, metrics, report, cm, err := modeling.TrainAndEvaluate(X, y, opts)
	require.NoError(t, err)
	assert.Equal(t, 1.0, metrics.Accuracy)
	assert.Contains(t, report, "weighted avg")
	assert.Subset(t, []string{"jazz", "pop", "rock"}, cm.Labels)

	modelPath := paths.ModelPath("")
	require.NoError(t, modeling.SaveModel(fitted, modelPath))

	loaded, err := modeling.LoadModel(modelPath)
	require.NoError(t, err)
	assert.Equal(t, features, loaded.Features)

	want, err := fitted.Predict(X)
	require.NoError(t, err)
	got, err := loaded.Predict(X)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// plot
	plots := visualization.NewPlotExporter(paths.FiguresDir, visualization.Options{Logger: logger})
	figs := append(visualization.HistogramsFor(features, 10),
		visualization.Figure{Kind: visualization.FigureHeatmap, Columns: features})
	written, err := plots.RenderAll(context.Background(), clean, figs)
	require.NoError(t, err)

	assert.Equal(t, []string{
		paths.FigurePath(visualization.HistFilename("energy")),
		paths.FigurePath(visualization.HistFilename("tempo")),
		paths.FigurePath(visualization.HeatmapFilename),
	}, written)
	for _, p := range written {
		info, err := os.Stat(p)
		require.NoError(t, err, p)
		assert.Positive(t, info.Size())
	}
}

func TestCleanWorkbookRoundTrip(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	out := filepath.Join(dir, "clean.xlsx")

	pipeline := operations.NewPipeline(operations.Options{Logger: logger})
	_, err := pipeline.Run(context.Background(), operations.Request{
		Source: operations.ReaderSource(strings.NewReader(rawExport())),
		Sink:   operations.WorkbookSink(exporter.NewWorkbookWriter(), out, exporter.DefaultSheet),
	})
	require.NoError(t, err)

	ds, err := dataprocessing.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 3*perGenre, ds.Len())
	assert.True(t, ds.HasColumn("duration_ms"))
}
