// Package modeling trains and evaluates the baseline track classifier: a
// standard scaler followed by a multinomial, L2-regularized logistic
// regression, fitted with L-BFGS.
//
// Typical use:
//
//	X, y, err := modeling.FeaturesFromDataset(ds, []string{"energy", "tempo"}, "genre")
//	model, metrics, report, cm, err := modeling.TrainAndEvaluate(X, y, modeling.DefaultTrainOptions())
//	err = modeling.SaveModel(model, paths.ModelPath(""))
//
// Models persist as JSON documents and can be restored with LoadModel.
package modeling
