package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotifyeda/internal/app"
	"spotifyeda/internal/config"
	apperrors "spotifyeda/internal/errors"
	"spotifyeda/internal/shared/testutil"
	"spotifyeda/internal/visualization"
)

func testRuntime(t *testing.T) *app.Runtime {
	t.Helper()

	paths, err := config.NewPaths(t.TempDir())
	require.NoError(t, err)
	return &app.Runtime{
		Config: config.Default(),
		Paths:  paths,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func assertPNG(t *testing.T, path string) {
	t.Helper()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-hist", "energy,popularity", "-heatmap", "energy, popularity", "-bins", "12"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, []string{"energy", "popularity"}, opts.hist)
	assert.Equal(t, []string{"energy", "popularity"}, opts.heatmap)
	assert.Equal(t, 12, opts.bins)

	_, err = parseFlags([]string{"-bins", "-3"}, io.Discard)
	assert.Error(t, err)
}

func TestRun_Requested(t *testing.T) {
	rt := testRuntime(t)
	testutil.WriteFile(t, rt.Paths.DataDir, "clean_spotify.csv", testutil.SpotifyCSV)

	var out strings.Builder
	opts := options{
		in:      filepath.Join(rt.Paths.DataDir, "clean_spotify.csv"),
		hist:    []string{"Popularity"},
		heatmap: []string{"Popularity", "Energy", "Duration Ms"},
		bins:    5,
	}
	require.NoError(t, run(context.Background(), rt, opts, &out))

	want := []string{
		rt.Paths.FigurePath("hist_Popularity.png"),
		rt.Paths.FigurePath(visualization.HeatmapFilename),
	}
	assert.Equal(t, strings.Join(want, "\n")+"\n", out.String())
	for _, p := range want {
		assertPNG(t, p)
	}
}

func TestRun_DefaultsToNumericColumns(t *testing.T) {
	rt := testRuntime(t)
	testutil.WriteFile(t, rt.Paths.DataDir, "clean_spotify.csv", testutil.SpotifyCSV)

	var out strings.Builder
	require.NoError(t, run(context.Background(), rt, options{}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	// Duration Ms, Popularity, Energy plus the heat map
	require.Len(t, lines, 4)
	assert.Equal(t, rt.Paths.FigurePath(visualization.HeatmapFilename), lines[3])
	for _, p := range lines {
		assertPNG(t, p)
	}
}

func TestRun_Errors(t *testing.T) {
	rt := testRuntime(t)
	in := testutil.WriteFile(t, rt.Paths.DataDir, "tracks.csv", testutil.SpotifyCSV)
	text := testutil.WriteFile(t, rt.Paths.DataDir, "text.csv", "a,b\nx,y\n")

	t.Run("text column histogram", func(t *testing.T) {
		err := run(context.Background(), rt, options{in: in, hist: []string{"Genre"}}, io.Discard)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("unknown heatmap column", func(t *testing.T) {
		err := run(context.Background(), rt, options{in: in, heatmap: []string{"Energy", "Nope"}}, io.Discard)
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidInput(err))
	})

	t.Run("no numeric columns", func(t *testing.T) {
		err := run(context.Background(), rt, options{in: text}, io.Discard)
		assert.Error(t, err)
	})

	t.Run("missing input", func(t *testing.T) {
		err := run(context.Background(), rt, options{in: filepath.Join(rt.Paths.DataDir, "missing.csv")}, io.Discard)
		assert.Error(t, err)
	})
}
