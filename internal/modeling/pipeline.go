package modeling

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultC       = 1.0
	DefaultMaxIter = 1000
	DefaultTol     = 1e-4
)

// ModelOptions configures the baseline model
type ModelOptions struct {
	C       float64
	MaxIter int
	Tol     float64
}

// DefaultModelOptions returns C=1, 1000 iterations and a 1e-4 tolerance
func DefaultModelOptions() ModelOptions {
	return ModelOptions{C: DefaultC, MaxIter: DefaultMaxIter, Tol: DefaultTol}
}

// Pipeline scales features and classifies them
type Pipeline struct {
	Features   []string            `json:"features,omitempty"`
	Scaler     *StandardScaler     `json:"scaler"`
	Classifier *LogisticRegression `json:"classifier"`
}

// MakeBaselineModel returns an unfitted scaler + logistic regression
// pipeline. Zero-valued options fall back to the defaults.
func MakeBaselineModel(opts ModelOptions) *Pipeline {
	def := DefaultModelOptions()
	if opts.C <= 0 {
		opts.C = def.C
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = def.MaxIter
	}
	if opts.Tol <= 0 {
		opts.Tol = def.Tol
	}
	return &Pipeline{
		Scaler:     &StandardScaler{},
		Classifier: NewLogisticRegression(opts.C, opts.MaxIter, opts.Tol),
	}
}

// Fit fits the scaler and then the classifier on the scaled features
func (p *Pipeline) Fit(X mat.Matrix, y []string) error {
	p.Scaler.Fit(X)
	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return err
	}
	return p.Classifier.Fit(scaled, y)
}

// Predict returns the predicted label of every row of X
func (p *Pipeline) Predict(X mat.Matrix) ([]string, error) {
	if p.Scaler == nil || p.Classifier == nil || !p.Classifier.Fitted() {
		return nil, fmt.Errorf("model is not fitted")
	}
	scaled, err := p.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(scaled)
}
