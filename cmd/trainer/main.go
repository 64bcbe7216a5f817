// Command trainer fits the baseline scaler + logistic regression model on a
// cleaned dataset, prints its held-out scores and saves it.
//
//	trainer -label genre
//	trainer -in data/clean_spotify.csv -label genre -features danceability,energy,tempo
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"spotifyeda/internal/app"
	"spotifyeda/internal/dataprocessing"
	"spotifyeda/internal/modeling"
)

type options struct {
	in       string
	label    string
	features []string
	model    string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts     options
		features string
	)
	fs := flag.NewFlagSet("trainer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "cleaned dataset (default: data/clean_spotify.csv, else the newest data/clean_*.csv)")
	fs.StringVar(&opts.label, "label", "", "label column (required)")
	fs.StringVar(&features, "features", "", "comma separated feature columns (default: every numeric column)")
	fs.StringVar(&opts.model, "model", "", "where to save the fitted model (default: models/best_model.json)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.label == "" {
		return opts, errors.New("-label is required")
	}
	opts.features = splitList(features)
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

	rt, err := app.LoadRuntime("trainer")
	if err != nil {
		slog.Error("Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := run(context.Background(), rt, opts, os.Stdout); err != nil {
		rt.Logger.Error("Training failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, rt *app.Runtime, opts options, stdout io.Writer) error {
	in := opts.in
	if in == "" {
		in = rt.CleanInput()
	}
	modelPath := opts.model
	if modelPath == "" {
		modelPath = rt.Paths.ModelPath(rt.Config.Modeling.ModelFilename)
	}

	ds, err := dataprocessing.Load(in)
	if err != nil {
		return fmt.Errorf("load %s: %w", in, err)
	}

	features := opts.features
	if len(features) == 0 {
		features = modeling.NumericColumns(ds, opts.label)
	}
	X, y, err := modeling.FeaturesFromDataset(ds, features, opts.label)
	if err != nil {
		return err
	}

	mc := rt.Config.Modeling
	model := modeling.MakeBaselineModel(modeling.ModelOptions{C: mc.C, MaxIter: mc.MaxIter})
	model.Features = features

	rt.Logger.InfoContext(ctx, "Training baseline model",
		slog.String("input", in),
		slog.String("label", opts.label),
		slog.Int("samples", ds.Len()),
		slog.Int("features", len(features)),
		slog.Float64("test_size", mc.TestSize))

	fitted, metrics, report, cm, err := modeling.TrainAndEvaluate(X, y, modeling.TrainOptions{
		Model:       model,
		TestSize:    mc.TestSize,
		RandomState: mc.RandomState,
	})
	if err != nil {
		return err
	}

	if err := modeling.SaveModel(fitted, modelPath); err != nil {
		return err
	}

	rt.Logger.InfoContext(ctx, "Model trained",
		slog.Float64("accuracy", metrics.Accuracy),
		slog.Float64("f1_macro", metrics.F1Macro),
		slog.Int("iterations", fitted.Classifier.NIter),
		slog.String("model", modelPath))

	return printResults(stdout, metrics, report, cm, modelPath)
}

func printResults(w io.Writer, metrics modeling.Metrics, report string, cm modeling.ConfusionMatrix, modelPath string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(metrics); err != nil {
		return fmt.Errorf("encode metrics: %w", err)
	}
	fmt.Fprintf(w, "\n%s\nConfusion matrix:\n%s\nModel saved to %s\n", report, cm.String(), modelPath)
	return nil
}
