// Package log defines standard attribute keys for training runs.
//
// Keys follow a hierarchical naming convention ("model.name", "data.samples")
// so that log lines from the loader, the optimizer and the CLI can be
// filtered together.
package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator or algorithm.
	// Examples: "GradientDescent", "GDRegressor", "Normalizer"
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	// Examples: "linear", "preprocessing", "dataset", "report"
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is m, the number of training examples.
	SamplesKey = "data.samples"

	// FeaturesKey is n, the number of columns of the design matrix including
	// the bias column.
	FeaturesKey = "data.features"

	// PathKey is the file a dataset was read from or a report written to.
	PathKey = "data.path"
)

// Training progress.
const (
	// LossKey records the cost J(theta).
	LossKey = "metrics.loss"

	// InitialLossKey records the cost after the first iteration.
	InitialLossKey = "metrics.initial_loss"

	// R2ScoreKey records the R² coefficient of determination.
	R2ScoreKey = "metrics.r2_score"

	// IterationKey records the current iteration number (1-based).
	IterationKey = "training.iteration"

	// IterationsKey records the configured number of iterations.
	IterationsKey = "training.iterations"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Hyperparameters.
const (
	// LearningRateKey records alpha.
	LearningRateKey = "hyperparams.learning_rate"

	// NormalizeKey records whether feature normalization was applied.
	NormalizeKey = "hyperparams.normalize"
)

// Standard attribute values.
const (
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationTransform = "transform"
	OperationScore     = "score"
	OperationLoad      = "load"
	OperationReport    = "report"
)
