package modeling

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	apperrors "spotifyeda/internal/errors"
)

const (
	DefaultTestSize    = 0.2
	DefaultRandomState = 42
)

// TrainOptions controls TrainAndEvaluate. A nil Model means
// MakeBaselineModel(DefaultModelOptions()) and a zero TestSize means
// DefaultTestSize. RandomState is used as given, zero included.
type TrainOptions struct {
	Model       *Pipeline
	TestSize    float64
	RandomState int64
}

// DefaultTrainOptions returns a 20% test split seeded with 42
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{TestSize: DefaultTestSize, RandomState: DefaultRandomState}
}

// TrainAndEvaluate splits X and y, fits the model on the training part and
// scores it on the held-out part.
func TrainAndEvaluate(X *mat.Dense, y []string, opts TrainOptions) (*Pipeline, Metrics, string, ConfusionMatrix, error) {
	if X == nil || X.IsEmpty() {
		return nil, Metrics{}, "", ConfusionMatrix{}, apperrors.NewInvalidInputError("no feature matrix", nil)
	}
	n, _ := X.Dims()
	if n < 2 {
		return nil, Metrics{}, "", ConfusionMatrix{}, apperrors.NewInvalidInputError(
			fmt.Sprintf("need at least 2 samples, got %d", n), nil)
	}

	model := opts.Model
	if model == nil {
		model = MakeBaselineModel(DefaultModelOptions())
	}
	if opts.TestSize == 0 {
		opts.TestSize = DefaultTestSize
	}

	XTrain, XTest, yTrain, yTest, err := TrainTestSplit(X, y, opts.TestSize, opts.RandomState)
	if err != nil {
		return nil, Metrics{}, "", ConfusionMatrix{}, err
	}

	if err := model.Fit(XTrain, yTrain); err != nil {
		return nil, Metrics{}, "", ConfusionMatrix{}, err
	}

	yPred, err := model.Predict(XTest)
	if err != nil {
		return nil, Metrics{}, "", ConfusionMatrix{}, err
	}

	return model, Evaluate(yTest, yPred), ClassificationReport(yTest, yPred), NewConfusionMatrix(yTest, yPred), nil
}
