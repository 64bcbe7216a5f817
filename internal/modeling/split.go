package modeling

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"

	apperrors "spotifyeda/internal/errors"
)

// TrainTestSplit shuffles rows with a seeded permutation and puts the first
// ceil(testSize*n) of them in the test set.
func TrainTestSplit(X *mat.Dense, y []string, testSize float64, seed int64) (XTrain, XTest *mat.Dense, yTrain, yTest []string, err error) {
	if X == nil {
		return nil, nil, nil, nil, apperrors.NewInvalidInputError("no feature matrix", nil)
	}
	n, _ := X.Dims()
	if n != len(y) {
		return nil, nil, nil, nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("features have %d rows but labels have %d", n, len(y)), nil)
	}
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, nil, nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("test size %v must be between 0 and 1", testSize), nil)
	}

	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return nil, nil, nil, nil, apperrors.NewInvalidInputError(
			fmt.Sprintf("%d samples cannot be split with test size %v", n, testSize), nil)
	}

	perm := rand.New(rand.NewSource(seed)).Perm(n)
	XTest, yTest = takeRows(X, y, perm[:nTest])
	XTrain, yTrain = takeRows(X, y, perm[nTest:])
	return XTrain, XTest, yTrain, yTest, nil
}

func takeRows(X *mat.Dense, y []string, idx []int) (*mat.Dense, []string) {
	_, p := X.Dims()
	out := mat.NewDense(len(idx), p, nil)
	labels := make([]string, len(idx))
	for i, k := range idx {
		out.SetRow(i, X.RawRowView(k))
		labels[i] = y[k]
	}
	return out, labels
}
