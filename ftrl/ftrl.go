package ftrl

import (
	"fmt"
	"sync"
	"time"

	"github.com/ezoic/ftrl/core/frame"
	"github.com/ezoic/ftrl/core/model"
	"github.com/ezoic/ftrl/core/parallel"
	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
	"github.com/ezoic/ftrl/pkg/log"
)

// RegKind records the regression type of a trained model.
type RegKind int32

const (
	// RegNone means the model is untrained.
	RegNone RegKind = iota
	// RegBinary is binary classification (one label).
	RegBinary
	// RegMultinomial is one-vs-rest classification over several labels.
	RegMultinomial
)

// String returns the lowercase kind name.
func (k RegKind) String() string {
	switch k {
	case RegBinary:
		return "binary"
	case RegMultinomial:
		return "multinomial"
	}
	return "none"
}

// defaultLabel is registered when no labels are supplied, so there is
// always at least one classifier.
const defaultLabel = "target"

// rowParallelThreshold is the row count below which fit and predict run
// sequentially.
const rowParallelThreshold = 256

// FTRL is an online classifier implementing the FTRL-Proximal algorithm
// with the hashing trick. Feature values are hashed into a fixed bin
// space; one (z, n) accumulator pair per bin and per label holds the
// whole model, and weights are reconstructed from it in closed form.
//
// A single FTRL value supports concurrent Predict calls. Fit may process
// rows in parallel internally but must not overlap with Predict on the
// same value; both take the instance lock accordingly.
type FTRL struct {
	mu    sync.RWMutex
	state *model.StateManager

	params Params
	labels []string

	k kernel

	// training-derived state, reset together with the weight store
	colNames  []string
	colHashes []uint64
	fi        []float64
	reg       RegKind

	logger log.Logger
}

// New creates an FTRL estimator. Hyperparameters come either bundled via
// WithParams or from individual options; mixing both is a usage error.
// Every value is validated at construction.
func New(opts ...Option) (*FTRL, error) {
	b := &builder{params: DefaultParams()}
	for _, opt := range opts {
		opt(b)
	}

	if b.bundled && b.individual {
		return nil, ftrlErrors.NewValueError("ftrl.New",
			"hyperparameters can be given either bundled with WithParams or "+
				"with the individual options, but not both at the same time")
	}
	if err := b.params.validate(); err != nil {
		return nil, err
	}

	labels := b.labels
	if !b.labelsSet {
		labels = nil
	}
	checked, err := checkLabels(labels)
	if err != nil {
		return nil, err
	}

	f := &FTRL{
		state:  model.NewStateManager(),
		params: b.params,
		labels: checked,
		reg:    RegNone,
		logger: log.GetLoggerWithName("ftrl").With(
			log.ModelNameKey, "FTRL",
			log.ComponentKey, "ftrl",
		),
	}
	f.k = newKernel(f.params)
	return f, nil
}

// checkLabels applies the label registry rules: exactly one label is
// invalid, an empty list falls back to the single default label, and
// duplicates are rejected.
func checkLabels(labels []string) ([]string, error) {
	if len(labels) == 1 {
		return nil, ftrlErrors.NewValueError("ftrl.SetLabels",
			"list of labels cannot have one element")
	}
	if len(labels) == 0 {
		return []string{defaultLabel}, nil
	}
	seen := make(map[string]bool, len(labels))
	for _, label := range labels {
		if seen[label] {
			return nil, ftrlErrors.NewValueError("ftrl.SetLabels",
				fmt.Sprintf("duplicate label %q", label))
		}
		seen[label] = true
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out, nil
}

// IsFitted reports whether the model has been trained or loaded.
func (f *FTRL) IsFitted() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.k.trained()
}

// RegressionKind returns the regression type of the current model.
func (f *FTRL) RegressionKind() RegKind {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reg
}

// Fit trains the model on X with the single-column target frame y,
// running NEpochs sequential passes. Rows within a pass are processed in
// parallel; striped per-bin locks guarantee no update is lost. The first
// successful fit freezes the training column count; later fits must use
// the same number of columns and accumulate onto the existing weights
// (call Reset to start over).
func (f *FTRL) Fit(X, y frame.Frame) (err error) {
	defer ftrlErrors.Recover(&err, "FTRL.Fit")

	f.mu.Lock()
	defer f.mu.Unlock()

	const op = "FTRL.Fit"
	if X == nil || y == nil {
		return ftrlErrors.NewValueError(op, "training and target frames are required")
	}
	if X.NumCols() == 0 {
		return ftrlErrors.NewValueError(op, "training frame must have at least one column")
	}
	if X.NumRows() == 0 {
		return ftrlErrors.NewModelError(op, "training frame cannot be empty", ftrlErrors.ErrEmptyData)
	}
	if y.NumCols() != 1 {
		return ftrlErrors.NewDimensionError(op, 1, y.NumCols(), 1)
	}
	if y.NumRows() != X.NumRows() {
		return ftrlErrors.NewDimensionError(op, X.NumRows(), y.NumRows(), 0)
	}
	if len(f.colNames) > 0 && X.NumCols() != len(f.colNames) {
		return ftrlErrors.NewDimensionError(op, len(f.colNames), X.NumCols(), 1)
	}

	targets, err := f.rowTargets(y)
	if err != nil {
		return err
	}

	start := time.Now()
	nrows, ncols := X.NumRows(), X.NumCols()
	f.logger.Info("Training started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, nrows,
		log.FeaturesKey, ncols,
		log.LabelsKey, len(f.labels),
		log.BinsKey, f.params.NBins,
	)

	// lazy allocation on first fit
	f.k.ensure(len(f.labels))
	if f.fi == nil {
		f.fi = make([]float64, ncols)
	}
	if f.colNames == nil {
		f.colNames = frameColNames(X)
		f.colHashes = newHasher(f.colNames, f.params.NBins, false).nameHashes
	}

	h := newHasher(frameColNames(X), f.params.NBins, f.params.Interactions)

	var fiMu sync.Mutex
	var firstEpochMass, lastEpochMass float64
	for epoch := 0; epoch < f.params.NEpochs; epoch++ {
		var epochMass float64
		parallel.ParallelizeWithThreshold(nrows, rowParallelThreshold, func(lo, hi int) {
			local := make([]float64, ncols)
			f.k.fitRows(X, h, targets, lo, hi, local)
			fiMu.Lock()
			for j, d := range local {
				f.fi[j] += d
				epochMass += d
			}
			fiMu.Unlock()
		})
		if epoch == 0 {
			firstEpochMass = epochMass
		}
		lastEpochMass = epochMass
		f.logger.Debug("Epoch finished",
			log.OperationKey, log.OperationFit,
			log.EpochKey, epoch+1,
		)
	}

	// if the final pass moved the weights almost as much as the first,
	// the model has not settled on this data
	if f.params.NEpochs > 1 && lastEpochMass > 0.5*firstEpochMass {
		ftrlErrors.Warn(ftrlErrors.NewConvergenceWarning("FTRL", f.params.NEpochs,
			"weights were still moving in the final epoch; consider more epochs or a larger alpha"))
	}

	if len(f.labels) > 1 {
		f.reg = RegMultinomial
	} else {
		f.reg = RegBinary
	}
	f.state.SetFitted()
	f.state.SetDimensions(ncols, nrows)

	f.logger.Info("Training completed",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.DurationMsKey, time.Since(start).Milliseconds(),
		log.SamplesKey, nrows,
		log.FeaturesKey, ncols,
	)
	return nil
}

// rowTargets derives the per-row true label index. Binary targets take a
// bool or numeric column, nonzero meaning positive; multinomial targets
// must match a registered label. Any violation fails before the model is
// touched.
func (f *FTRL) rowTargets(y frame.Frame) ([]int, error) {
	const op = "FTRL.Fit"
	targets := make([]int, y.NumRows())

	if len(f.labels) == 1 {
		if y.ColType(0) == frame.String {
			return nil, ftrlErrors.NewValueError(op,
				"binary target column must have a bool or numeric type, got string")
		}
		for i := range targets {
			if y.At(i, 0).IsTrue() {
				targets[i] = 0
			} else {
				targets[i] = -1
			}
		}
		return targets, nil
	}

	index := make(map[string]int, len(f.labels))
	for l, label := range f.labels {
		index[label] = l
	}
	for i := range targets {
		cell := y.At(i, 0).String()
		l, ok := index[cell]
		if !ok {
			return nil, ftrlErrors.NewValueError(op,
				fmt.Sprintf("target value %q in row %d is not a registered label", cell, i))
		}
		targets[i] = l
	}
	return targets, nil
}

// Predict returns one probability column per label, one row per input
// row. The input frame must have as many columns as the training frame;
// matching is by hashed column name, so column order does not matter.
// With more than one label, each row is proportionally rescaled to sum
// to 1.
func (f *FTRL) Predict(X frame.Frame) (out *frame.Table, err error) {
	defer ftrlErrors.Recover(&err, "FTRL.Predict")

	f.mu.RLock()
	defer f.mu.RUnlock()

	const op = "Predict"
	if X == nil {
		return nil, ftrlErrors.NewValueError("FTRL.Predict", "frame to make predictions for is required")
	}
	if !f.k.trained() {
		return nil, ftrlErrors.NewNotFittedError("FTRL", op)
	}
	if len(f.colNames) > 0 && X.NumCols() != len(f.colNames) {
		return nil, ftrlErrors.NewDimensionError("FTRL.Predict", len(f.colNames), X.NumCols(), 1)
	}

	nrows := X.NumRows()
	nlabels := len(f.labels)
	h := newHasher(frameColNames(X), f.params.NBins, f.params.Interactions)

	probs := make([]float64, nrows*nlabels)
	parallel.ParallelizeWithThreshold(nrows, rowParallelThreshold, func(lo, hi int) {
		f.k.predictRows(X, h, lo, hi, probs)
	})

	if nlabels > 1 {
		normalizeRows(probs, nrows, nlabels)
	}

	names := make([]string, nlabels)
	copy(names, f.labels)
	cols := make([]frame.Column, nlabels)
	for l := 0; l < nlabels; l++ {
		data := make([]float64, nrows)
		for i := 0; i < nrows; i++ {
			data[i] = probs[i*nlabels+l]
		}
		cols[l] = frame.Floats(data)
	}

	f.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, nrows,
	)
	return frame.NewTable(names, cols)
}

// normalizeRows rescales every row of the flattened (nrows x nlabels)
// probability block to sum to 1. Rows summing to zero are left as is.
func normalizeRows(probs []float64, nrows, nlabels int) {
	for i := 0; i < nrows; i++ {
		row := probs[i*nlabels : (i+1)*nlabels]
		var sum float64
		for _, p := range row {
			sum += p
		}
		if sum <= 0 {
			continue
		}
		for l := range row {
			row[l] /= sum
		}
	}
}

// Reset zeroes the weight store and feature importances and clears the
// regression kind and frozen training shape. Hyperparameters and labels
// are preserved.
func (f *FTRL) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *FTRL) resetLocked() {
	f.k.reset()
	f.fi = nil
	f.colNames = nil
	f.colHashes = nil
	f.reg = RegNone
	f.state.Reset()
	f.logger.Debug("Model reset", log.OperationKey, log.OperationReset)
}

func frameColNames(fr frame.Frame) []string {
	names := make([]string, fr.NumCols())
	for j := range names {
		names[j] = fr.ColName(j)
	}
	return names
}
