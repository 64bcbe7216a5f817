package modeling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// StandardScaler centers each feature and scales it to unit variance.
// Constant features keep a scale of 1.
type StandardScaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Fit learns per-column means and population standard deviations
func (s *StandardScaler) Fit(X mat.Matrix) {
	n, p := X.Dims()
	s.Mean = make([]float64, p)
	s.Scale = make([]float64, p)

	col := make([]float64, n)
	for j := 0; j < p; j++ {
		mat.Col(col, j, X)
		mean, variance := stat.PopMeanVariance(col, nil)
		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
		if s.Scale[j] == 0 {
			s.Scale[j] = 1
		}
	}
}

// Transform returns a scaled copy of X
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	n, p := X.Dims()
	if p != len(s.Mean) {
		return nil, fmt.Errorf("scaler fitted on %d features, got %d", len(s.Mean), p)
	}

	out := mat.NewDense(n, p, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, X)
	return out, nil
}
