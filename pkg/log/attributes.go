// Standard attribute keys for machine learning log records. Using these
// keys keeps log output uniform and filterable across components.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the type of model, e.g. "FTRL".
	ModelNameKey = "model.name"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"

	// OperationKey specifies the operation: "fit", "predict", "reset".
	OperationKey = "ml.operation"

	// PhaseKey indicates the lifecycle phase, e.g. "training", "inference".
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	// SamplesKey is the number of rows being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// LabelsKey is the number of classification labels.
	LabelsKey = "data.labels"

	// BinsKey is the size of the hashed bin space.
	BinsKey = "data.bins"
)

// Performance and training progress.
const (
	// DurationMsKey records operation duration in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// EpochKey records the current training epoch.
	EpochKey = "training.epoch"

	// PredsKey is the number of predictions emitted.
	PredsKey = "preds.count"
)

// Standard operation and phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationReset   = "reset"

	PhaseTraining  = "training"
	PhaseInference = "inference"
)
