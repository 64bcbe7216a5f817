// Command cleaner normalizes and cleans Spotify track exports.
//
//	cleaner -in data/raw/tracks.csv                 # writes data/clean_spotify.csv
//	cleaner -in tracks.xlsx -sheet Top50 -out top50.csv
//	cleaner -dir data/raw                           # writes data/clean_<name>.csv per file
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
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"spotifyeda/internal/app"
	apperrors "spotifyeda/internal/errors"
	"spotifyeda/internal/exporter"
	"spotifyeda/internal/files"
	"spotifyeda/internal/operations"
	"spotifyeda/internal/validation"
)

// BatchPrefix is prepended to input stems in batch mode
const BatchPrefix = "clean_"

type options struct {
	in          string
	dir         string
	out         string
	sheet       string
	noNormalize bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("cleaner", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "", "input .csv or .xlsx file")
	fs.StringVar(&opts.dir, "dir", "", "directory of input files to clean in batch")
	fs.StringVar(&opts.out, "out", "", "output filename under the data directory (.csv or .xlsx)")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from workbook inputs (default: first sheet)")
	fs.BoolVar(&opts.noNormalize, "no-normalize", false, "keep column names as they are")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if (opts.in == "") == (opts.dir == "") {
		return opts, errors.New("exactly one of -in or -dir is required")
	}
	if opts.dir != "" && opts.out != "" {
		return opts, errors.New("-out cannot be combined with -dir")
	}
	return opts, nil
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

	rt, err := app.LoadRuntime("cleaner")
	if err != nil {
		slog.Error("Failed to initialize", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, rt, opts, os.Stdout); err != nil {
		rt.Logger.Error("Cleaning failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// cleaner runs the operations pipeline over one or more source files
type cleaner struct {
	rt        *app.Runtime
	pipeline  *operations.Pipeline
	validator *validation.FileValidator
	csv       *exporter.CSVWriter
	workbook  *exporter.WorkbookWriter
}

func newCleaner(rt *app.Runtime) *cleaner {
	return &cleaner{
		rt:        rt,
		pipeline:  operations.NewPipeline(operations.Options{Logger: rt.Logger}),
		validator: validation.NewFileValidator(rt.Logger),
		csv:       exporter.NewCSVWriter(rt.Paths),
		workbook:  exporter.NewWorkbookWriter(),
	}
}

func run(ctx context.Context, rt *app.Runtime, opts options, stdout io.Writer) error {
	c := newCleaner(rt)
	if err := c.validator.ValidateOutputDirectory(rt.Paths.DataDir); err != nil {
		return err
	}

	if opts.dir != "" {
		results, err := c.cleanDir(ctx, opts.dir, opts.sheet, !opts.noNormalize)
		if err != nil {
			return err
		}
		for _, res := range results {
			report(stdout, res)
		}
		return nil
	}

	res, err := c.cleanFile(ctx, opts.in, opts.out, opts.sheet, !opts.noNormalize)
	if err != nil {
		return err
	}
	report(stdout, res)
	return nil
}

// cleanFile cleans one source into out. An empty out selects the configured
// clean filename.
func (c *cleaner) cleanFile(ctx context.Context, in, out, sheet string, normalize bool) (*operations.Result, error) {
	if err := c.validator.ValidateSourceFile(in); err != nil {
		return nil, err
	}
	if out == "" {
		out = c.rt.Config.Cleaning.CleanFilename
	}

	res, err := c.pipeline.Run(ctx, operations.Request{
		Source:        operations.FileSource(in, sheet),
		Sink:          c.sink(out),
		SkipNormalize: !normalize,
	})
	if err != nil {
		return res, fmt.Errorf("clean %s: %w", in, err)
	}
	return res, nil
}

func (c *cleaner) sink(out string) operations.Sink {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".xlsx", ".xlsm":
		path := out
		if !filepath.IsAbs(path) {
			path = c.rt.Paths.CleanCSVPath(out)
		}
		return operations.WorkbookSink(c.workbook, path, exporter.DefaultSheet)
	default:
		return operations.CSVSink(c.csv, out, exporter.WriteOptions{BOMPrefix: c.rt.Config.Cleaning.BOMPrefix})
	}
}

// cleanDir cleans every data file in dir concurrently, writing
// clean_<stem>.csv per input. Results come back in discovery order.
// Inputs sharing a stem keep their extension in the output name.
func (c *cleaner) cleanDir(ctx context.Context, dir, sheet string, normalize bool) ([]*operations.Result, error) {
	n, err := c.validator.ValidateInputDirectory(dir)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}

	found, err := files.NewDiscovery("").FindDataFiles(dir)
	if err != nil {
		return nil, err
	}

	outputs, err := batchOutputs(found)
	if err != nil {
		return nil, err
	}

	results := make([]*operations.Result, len(found))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.rt.Config.Cleaning.Workers, 1))
	for i, f := range found {
		g.Go(func() error {
			res, err := c.cleanFile(ctx, f.Path, outputs[i], sheet, normalize)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.rt.Logger.InfoContext(ctx, "Batch cleaning completed",
		slog.String("directory", dir),
		slog.Int("files", len(found)))
	return results, nil
}

// batchOutputs names the output of every input: clean_<stem>.csv, or
// clean_<stem>_<ext>.csv when several inputs share a stem. Names that still
// collide are rejected before anything is written.
func batchOutputs(found []files.FileInfo) ([]string, error) {
	stems := make(map[string]int, len(found))
	for _, f := range found {
		stems[strings.ToLower(f.Stem())]++
	}

	outputs := make([]string, len(found))
	owner := make(map[string]string, len(found))
	for i, f := range found {
		name := BatchPrefix + f.Stem()
		if stems[strings.ToLower(f.Stem())] > 1 {
			name += "_" + strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
		}
		name += ".csv"

		key := strings.ToLower(name)
		if prev, dup := owner[key]; dup {
			return nil, apperrors.NewInvalidInputError(
				fmt.Sprintf("%s and %s would both be written to %s", prev, f.Name, name), nil)
		}
		owner[key] = f.Name
		outputs[i] = name
	}
	return outputs, nil
}

func report(w io.Writer, res *operations.Result) {
	rowsIn, rowsOut := 0, 0
	if res.Stats != nil {
		rowsIn, rowsOut = res.Stats.InputRows, res.Stats.OutputRows
	} else if res.Dataset != nil {
		rowsIn, rowsOut = res.Dataset.Len(), res.Dataset.Len()
	}
	fmt.Fprintf(w, "%s: %d -> %d rows\n", res.OutputPath, rowsIn, rowsOut)
}
