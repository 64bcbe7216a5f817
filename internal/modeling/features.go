package modeling

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"spotifyeda/internal/dataprocessing"
	apperrors "spotifyeda/internal/errors"
)

// FeaturesFromDataset builds the feature matrix and label vector. Every
// feature cell must be numeric; labels use the cell's text form. With no
// feature columns given, every int or float column except the label is used.
func FeaturesFromDataset(ds *dataprocessing.Dataset, features []string, label string) (*mat.Dense, []string, error) {
	labelIdx := ds.ColumnIndex(label)
	if labelIdx < 0 {
		return nil, nil, apperrors.NewInvalidInputError(fmt.Sprintf("label column %q not found", label), nil)
	}

	if len(features) == 0 {
		features = NumericColumns(ds, label)
	}
	if len(features) == 0 {
		return nil, nil, apperrors.NewInvalidInputError("no numeric feature columns", nil)
	}
	if ds.Len() == 0 {
		return nil, nil, apperrors.NewInvalidInputError("dataset has no rows", nil)
	}

	idx := make([]int, len(features))
	for j, name := range features {
		idx[j] = ds.ColumnIndex(name)
		if idx[j] < 0 {
			return nil, nil, apperrors.NewInvalidInputError(fmt.Sprintf("feature column %q not found", name), nil)
		}
	}

	X := mat.NewDense(ds.Len(), len(features), nil)
	y := make([]string, ds.Len())
	for i := 0; i < ds.Len(); i++ {
		row := ds.Row(i)
		for j, k := range idx {
			f, ok := row[k].Float()
			if !ok {
				return nil, nil, apperrors.NewInvalidInputError(
					fmt.Sprintf("feature %q is not numeric in row %d", features[j], i), nil).
					WithContext("column", features[j]).
					WithContext("row", i)
			}
			X.Set(i, j, f)
		}
		if row[labelIdx].IsMissing() {
			return nil, nil, apperrors.NewInvalidInputError(fmt.Sprintf("label is missing in row %d", i), nil).
				WithContext("row", i)
		}
		y[i] = row[labelIdx].String()
	}

	return X, y, nil
}

// NumericColumns lists int and float columns in order, skipping exclude
func NumericColumns(ds *dataprocessing.Dataset, exclude ...string) []string {
	skip := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		skip[name] = true
	}

	var out []string
	for _, p := range ds.Profile() {
		if skip[p.Name] {
			continue
		}
		if k := p.Kind(); k == dataprocessing.KindInt || k == dataprocessing.KindFloat {
			out = append(out, p.Name)
		}
	}
	return out
}
