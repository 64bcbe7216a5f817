// Command figures renders histograms and a correlation heat map from a
// cleaned dataset into reports/figures.
//
//	figures -hist popularity,energy -heatmap popularity,energy,tempo
//	figures                              # every numeric column
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"spotifyeda/internal/app"
	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/modeling"
	"spotifyeda/internal/visualization"
)

type options struct {
	in      string
	out     string
	hist    []string
	heatmap []string
	bins    int
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts          options
		hist, heatmap string
	)
	fs := flag.NewFlagSet("figures", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "cleaned dataset (default: data/clean_spotify.csv, else the newest data/clean_*.csv)")
	fs.StringVar(&opts.out, "out", "", "output directory (default: reports/figures)")
	fs.StringVar(&hist, "hist", "", "comma separated columns to draw histograms for")
	fs.StringVar(&heatmap, "heatmap", "", "comma separated columns for the correlation heat map")
	fs.IntVar(&opts.bins, "bins", 0, "histogram bins (default from config)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.bins < 0 {
		return opts, errors.New("-bins must be positive")
	}
	opts.hist = splitList(hist)
	opts.heatmap = splitList(heatmap)
	return opts, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rt, err := app.LoadRuntime("figures")
	if err != nil {
		slog.Error("Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rt, opts, os.Stdout); err != nil {
		rt.Logger.Error("Rendering failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, rt *app.Runtime, opts options, stdout io.Writer) error {
	in := opts.in
	if in == "" {
		in = rt.CleanInput()
	}
	dir := opts.out
	if dir == "" {
		dir = rt.Paths.FiguresDir
	}
	bins := opts.bins
	if bins == 0 {
		bins = rt.Config.Figures.Bins
	}

	ds, err := dataprocessing.Load(in)
	if err != nil {
		return fmt.Errorf("load %s: %w", in, err)
	}

	figs := figuresFor(ds, opts, bins)
	if len(figs) == 0 {
		return errors.New("nothing to render: the dataset has no numeric columns")
	}

	exp := visualization.NewPlotExporter(dir, visualization.Options{
		Bins:    bins,
		Width:   rt.Config.Figures.Width,
		Height:  rt.Config.Figures.Height,
		Workers: rt.Config.Cleaning.Workers,
		Logger:  rt.Logger,
	})

	paths, err := exp.RenderAll(ctx, ds, figs)
	if err != nil {
		return err
	}

	rt.Logger.InfoContext(ctx, "Figures rendered",
		slog.String("input", in),
		slog.String("directory", dir),
		slog.Int("count", len(paths)))
	for _, p := range paths {
		fmt.Fprintln(stdout, p)
	}
	return nil
}

// figuresFor picks the requested figures. With neither -hist nor -heatmap
// every numeric column gets a histogram and they share one heat map.
func figuresFor(ds *dataprocessing.Dataset, opts options, bins int) []visualization.Figure {
	hist, heatmap := opts.hist, opts.heatmap
	if len(hist) == 0 && len(heatmap) == 0 {
		hist = modeling.NumericColumns(ds)
		if len(hist) == 0 {
			return nil
		}
		if len(hist) > 1 {
			heatmap = hist
		}
	}

	figs := visualization.HistogramsFor(hist, bins)
	if len(heatmap) > 0 {
		figs = append(figs, visualization.Figure{
			Kind:     visualization.FigureHeatmap,
			Columns:  heatmap,
			Filename: visualization.HeatmapFilename,
		})
	}
	return figs
}
