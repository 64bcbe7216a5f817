package visualization

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

const (
	DefaultDir     = "reports/figures"
	DefaultBins    = 30
	DefaultWidth   = 6.0
	DefaultHeight  = 4.0
	DefaultWorkers = 4

	HeatmapTitle    = "Correlation matrix"
	HeatmapFilename = "corr_heatmap.png"
)

// Options configures a PlotExporter. Zero values select the defaults.
type Options struct {
	Bins    int
	Width   float64 // inches
	Height  float64 // inches
	Workers int
	Logger  *slog.Logger
}

// PlotExporter writes figures into a single directory
type PlotExporter struct {
	dir    string
	opts   Options
	logger *slog.Logger
}

// NewPlotExporter returns an exporter writing to dir. The directory is
// created on the first save.
func NewPlotExporter(dir string, opts Options) *PlotExporter {
	if dir == "" {
		dir = DefaultDir
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotExporter{dir: dir, opts: opts, logger: logger.With(slog.String("component", "plot_exporter"))}
}

// Dir returns the output directory
func (e *PlotExporter) Dir() string { return e.dir }

// SaveHist draws a histogram of the numeric cells of values, labelling the x
// axis with name. Missing, text and non-finite cells are skipped. bins <= 0
// uses the exporter default.
func (e *PlotExporter) SaveHist(values []dataprocessing.Value, name, filename string, bins int) (string, error) {
	if bins <= 0 {
		bins = e.opts.Bins
	}

	data, ok := finiteValues(values)
	var points plotter.Values
	for i, v := range data {
		if ok[i] {
			points = append(points, v)
		}
	}
	if len(points) == 0 {
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("column %q has no numeric values", name), nil)
	}

	hist, err := plotter.NewHist(points, bins)
	if err != nil {
		return "", fmt.Errorf("failed to build histogram for %q: %w", name, err)
	}

	p := plot.New()
	p.Title.Text = name
	p.X.Label.Text = name
	p.Y.Label.Text = "count"
	p.Add(hist)

	return e.save(p, filename)
}

// SaveColumnHist draws a histogram of one dataset column
func (e *PlotExporter) SaveColumnHist(ds *dataprocessing.Dataset, column, filename string, bins int) (string, error) {
	values, ok := ds.Column(column)
	if !ok {
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("column %q not found", column), nil)
	}
	if filename == "" {
		filename = HistFilename(column)
	}
	return e.SaveHist(values, column, filename, bins)
}

// SaveCorrHeatmap draws the correlation matrix of cols as an annotated heat
// map on a blue-red scale fixed to [-1, 1].
func (e *PlotExporter) SaveCorrHeatmap(ds *dataprocessing.Dataset, cols []string, filename string) (string, error) {
	corr, names, err := CorrelationMatrix(ds, cols)
	if err != nil {
		return "", err
	}
	if filename == "" {
		filename = HeatmapFilename
	}

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(-1)
	cmap.SetMax(1)

	grid := corrGrid{m: corr}
	hm := plotter.NewHeatMap(grid, cmap.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}

	n := len(names)
	cells := plotter.XYLabels{XYs: make(plotter.XYs, 0, n*n), Labels: make([]string, 0, n*n)}
	for c := 0; c < n; c++ {
		for r := 0; r < n; r++ {
			cells.XYs = append(cells.XYs, plotter.XY{X: grid.X(c), Y: grid.Y(r)})
			cells.Labels = append(cells.Labels, fmt.Sprintf("%.2f", grid.Z(c, r)))
		}
	}
	labels, err := plotter.NewLabels(cells)
	if err != nil {
		return "", fmt.Errorf("failed to build heat map labels: %w", err)
	}

	xTicks := make([]plot.Tick, n)
	yTicks := make([]plot.Tick, n)
	for i, name := range names {
		xTicks[i] = plot.Tick{Value: grid.X(i), Label: name}
		yTicks[i] = plot.Tick{Value: grid.Y(i), Label: names[n-1-i]}
	}

	p := plot.New()
	p.Title.Text = HeatmapTitle
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)
	p.Y.Tick.Marker = plot.ConstantTicks(yTicks)
	p.Add(hm, labels)

	return e.save(p, filename)
}

func (e *PlotExporter) save(p *plot.Plot, filename string) (string, error) {
	path := filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.dir, filename)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", apperrors.NewIOError("failed to create figure directory", err).WithContext("path", path)
	}

	w, h := vg.Length(e.opts.Width)*vg.Inch, vg.Length(e.opts.Height)*vg.Inch
	if err := p.Save(w, h, path); err != nil {
		return "", apperrors.NewIOError("failed to write figure", err).WithContext("path", path)
	}

	e.logger.Debug("Figure saved", slog.String("path", path))
	return path, nil
}

// HistFilename is the default file name of a column histogram
func HistFilename(column string) string {
	return "hist_" + column + ".png"
}

// corrGrid lays the matrix out with the first column on the left and the
// first row at the top.
type corrGrid struct {
	m *mat.SymDense
}

func (g corrGrid) Dims() (c, r int) {
	n := g.m.SymmetricDim()
	return n, n
}

func (g corrGrid) Z(c, r int) float64 {
	n := g.m.SymmetricDim()
	return g.m.At(n-1-r, c)
}

func (g corrGrid) X(c int) float64 { return float64(c) }

func (g corrGrid) Y(r int) float64 { return float64(r) }

// FigureKind selects what a Figure renders
type FigureKind string

const (
	FigureHistogram FigureKind = "histogram"
	FigureHeatmap   FigureKind = "heatmap"
)

// Figure describes one figure for RenderAll. Histograms use the first entry
// of Columns; heat maps use all of them, or every numeric column when empty.
type Figure struct {
	Kind     FigureKind
	Columns  []string
	Filename string
	Bins     int
}

// HistogramsFor returns one histogram Figure per column
func HistogramsFor(columns []string, bins int) []Figure {
	out := make([]Figure, len(columns))
	for i, c := range columns {
		out[i] = Figure{Kind: FigureHistogram, Columns: []string{c}, Bins: bins}
	}
	return out
}

// RenderAll renders figs from ds concurrently and returns the written paths
// in the order of figs. The first failure cancels the remaining work.
func (e *PlotExporter) RenderAll(ctx context.Context, ds *dataprocessing.Dataset, figs []Figure) ([]string, error) {
	paths := make([]string, len(figs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)
	for i, fig := range figs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := e.render(ds, fig)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (e *PlotExporter) render(ds *dataprocessing.Dataset, fig Figure) (string, error) {
	switch fig.Kind {
	case FigureHistogram:
		if len(fig.Columns) != 1 {
			return "", apperrors.NewInvalidInputError("a histogram needs exactly one column", nil)
		}
		return e.SaveColumnHist(ds, fig.Columns[0], fig.Filename, fig.Bins)
	case FigureHeatmap:
		return e.SaveCorrHeatmap(ds, fig.Columns, fig.Filename)
	default:
		return "", apperrors.NewInvalidInputError(fmt.Sprintf("unknown figure kind %q", fig.Kind), nil)
	}
}
