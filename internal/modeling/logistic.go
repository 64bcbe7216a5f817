package modeling

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	apperrors "spotifyeda/internal/errors"
)

// LogisticRegression is a multinomial classifier with an L2 penalty on the
// weights. The intercept is not penalized.
type LogisticRegression struct {
	C       float64 `json:"c"`
	MaxIter int     `json:"max_iter"`
	Tol     float64 `json:"tol"`

	Classes   []string    `json:"classes"`
	Coef      [][]float64 `json:"coef"`
	Intercept []float64   `json:"intercept"`
	NIter     int         `json:"n_iter"`
}

// NewLogisticRegression returns an unfitted classifier
func NewLogisticRegression(c float64, maxIter int, tol float64) *LogisticRegression {
	return &LogisticRegression{C: c, MaxIter: maxIter, Tol: tol}
}

// Fitted reports whether Fit has completed
func (m *LogisticRegression) Fitted() bool {
	return len(m.Classes) > 0 && len(m.Coef) == len(m.Classes)
}

// Fit minimizes the mean cross-entropy plus ||W||²/(2C·n) with L-BFGS.
func (m *LogisticRegression) Fit(X mat.Matrix, y []string) error {
	n, p := X.Dims()
	if n != len(y) {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("features have %d rows but labels have %d", n, len(y)), nil)
	}
	if m.C <= 0 {
		return apperrors.NewInvalidInputError(fmt.Sprintf("C must be positive, got %v", m.C), nil)
	}

	classes := sortLabels(y)
	if len(classes) < 2 {
		return apperrors.NewInvalidInputError(
			fmt.Sprintf("need at least 2 classes to fit, got %d", len(classes)), nil)
	}
	k := len(classes)

	classIdx := make(map[string]int, k)
	for i, c := range classes {
		classIdx[c] = i
	}
	target := make([]int, n)
	for i, label := range y {
		target[i] = classIdx[label]
	}

	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = mat.Row(nil, i, X)
	}

	obj := &softmaxObjective{rows: rows, target: target, k: k, p: p, alpha: 1 / m.C}
	problem := optimize.Problem{Func: obj.value, Grad: obj.grad}
	settings := &optimize.Settings{
		MajorIterations:   m.MaxIter,
		GradientThreshold: m.Tol,
	}

	res, err := optimize.Minimize(problem, make([]float64, k*p+k), settings, &optimize.LBFGS{})
	if res == nil {
		return fmt.Errorf("logistic regression optimization failed: %w", err)
	}
	// A line search that stalls next to the optimum still leaves a usable
	// location; only a non-finite one is a failure.
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("logistic regression diverged: %v", err)
		}
	}

	m.Classes = classes
	m.Coef = make([][]float64, k)
	for c := 0; c < k; c++ {
		m.Coef[c] = append([]float64(nil), res.X[c*p:(c+1)*p]...)
	}
	m.Intercept = append([]float64(nil), res.X[k*p:]...)
	m.NIter = res.Stats.MajorIterations
	return nil
}

// PredictProba returns one row of class probabilities per sample, in the
// order of Classes.
func (m *LogisticRegression) PredictProba(X mat.Matrix) (*mat.Dense, error) {
	if !m.Fitted() {
		return nil, fmt.Errorf("logistic regression is not fitted")
	}
	n, p := X.Dims()
	if p != len(m.Coef[0]) {
		return nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("model expects %d features, got %d", len(m.Coef[0]), p), nil)
	}

	k := len(m.Classes)
	out := mat.NewDense(n, k, nil)
	row := make([]float64, p)
	z := make([]float64, k)
	for i := 0; i < n; i++ {
		mat.Row(row, i, X)
		for c := 0; c < k; c++ {
			z[c] = floats.Dot(m.Coef[c], row) + m.Intercept[c]
		}
		softmax(z)
		out.SetRow(i, z)
	}
	return out, nil
}

// Predict returns the most probable class for every sample
func (m *LogisticRegression) Predict(X mat.Matrix) ([]string, error) {
	proba, err := m.PredictProba(X)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = m.Classes[floats.MaxIdx(proba.RawRowView(i))]
	}
	return out, nil
}

// softmaxObjective holds the training data for the optimizer callbacks.
// Parameters are laid out as W (k×p, row-major) followed by b (k).
type softmaxObjective struct {
	rows   [][]float64
	target []int
	k, p   int
	alpha  float64
}

func (o *softmaxObjective) value(x []float64) float64 {
	z := make([]float64, o.k)
	var loss float64
	for i, row := range o.rows {
		o.logits(z, x, row)
		loss += logSumExp(z) - z[o.target[i]]
	}
	w := x[:o.k*o.p]
	loss += 0.5 * o.alpha * floats.Dot(w, w)
	return loss / float64(len(o.rows))
}

func (o *softmaxObjective) grad(grad, x []float64) {
	for i := range grad {
		grad[i] = 0
	}
	z := make([]float64, o.k)
	for i, row := range o.rows {
		o.logits(z, x, row)
		softmax(z)
		z[o.target[i]]--
		for c := 0; c < o.k; c++ {
			floats.AddScaled(grad[c*o.p:(c+1)*o.p], z[c], row)
			grad[o.k*o.p+c] += z[c]
		}
	}
	nw := o.k * o.p
	floats.AddScaled(grad[:nw], o.alpha, x[:nw])
	floats.Scale(1/float64(len(o.rows)), grad)
}

func (o *softmaxObjective) logits(dst, x, row []float64) {
	for c := 0; c < o.k; c++ {
		dst[c] = floats.Dot(x[c*o.p:(c+1)*o.p], row) + x[o.k*o.p+c]
	}
}

func logSumExp(z []float64) float64 {
	maxZ := floats.Max(z)
	var sum float64
	for _, v := range z {
		sum += math.Exp(v - maxZ)
	}
	return maxZ + math.Log(sum)
}

// softmax replaces z with its probabilities in place
func softmax(z []float64) {
	lse := logSumExp(z)
	for i, v := range z {
		z[i] = math.Exp(v - lse)
	}
}
