package visualization

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

// CorrelationMatrix computes Pearson correlations between the numeric columns
// among cols, using for each pair only the rows where both cells are finite
// numbers. An empty cols selects every numeric column. Pairs with fewer than
// two such rows or zero variance are NaN.
func CorrelationMatrix(ds *dataprocessing.Dataset, cols []string) (*mat.SymDense, []string, error) {
	names, err := numericSelection(ds, cols)
	if err != nil {
		return nil, nil, err
	}

	series := make([][]float64, len(names))
	valid := make([][]bool, len(names))
	for j, name := range names {
		column, _ := ds.Column(name)
		series[j], valid[j] = finiteValues(column)
	}

	corr := mat.NewSymDense(len(names), nil)
	for i := range names {
		for j := i; j < len(names); j++ {
			corr.SetSym(i, j, pairwiseCorrelation(series[i], valid[i], series[j], valid[j]))
		}
		if !math.IsNaN(corr.At(i, i)) {
			corr.SetSym(i, i, 1)
		}
	}
	return corr, names, nil
}

// numericSelection validates cols and keeps the int and float columns
func numericSelection(ds *dataprocessing.Dataset, cols []string) ([]string, error) {
	kinds := make(map[string]dataprocessing.Kind, ds.NumColumns())
	var all []string
	for _, p := range ds.Profile() {
		kinds[p.Name] = p.Kind()
		all = append(all, p.Name)
	}
	if len(cols) == 0 {
		cols = all
	}

	var names []string
	for _, name := range cols {
		kind, ok := kinds[name]
		if !ok {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("column %q not found", name), nil)
		}
		if kind == dataprocessing.KindInt || kind == dataprocessing.KindFloat {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil, apperrors.NewInvalidInputError("no numeric columns selected", nil)
	}
	return names, nil
}

func finiteValues(column []dataprocessing.Value) ([]float64, []bool) {
	values := make([]float64, len(column))
	valid := make([]bool, len(column))
	for i, v := range column {
		f, ok := v.Float()
		if ok && !math.IsInf(f, 0) && !math.IsNaN(f) {
			values[i], valid[i] = f, true
		}
	}
	return values, valid
}

func pairwiseCorrelation(x []float64, xOK []bool, y []float64, yOK []bool) float64 {
	var xs, ys []float64
	for i := range x {
		if xOK[i] && yOK[i] {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 || stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	return stat.Correlation(xs, ys, nil)
}
