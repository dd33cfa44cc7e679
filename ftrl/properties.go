package ftrl

import (
	"fmt"

	"github.com/ezoic/ftrl/core/frame"
	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// Names of the feature importance output columns.
const (
	FeatureNameCol       = "feature_name"
	FeatureImportanceCol = "feature_importance"
)

// Alpha returns the learning rate numerator.
func (f *FTRL) Alpha() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.Alpha
}

// SetAlpha updates the learning rate numerator.
func (f *FTRL) SetAlpha(alpha float64) error {
	return f.updateParams(func(p *Params) { p.Alpha = alpha })
}

// Beta returns the learning rate smoothing term.
func (f *FTRL) Beta() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.Beta
}

// SetBeta updates the learning rate smoothing term.
func (f *FTRL) SetBeta(beta float64) error {
	return f.updateParams(func(p *Params) { p.Beta = beta })
}

// Lambda1 returns the L1 regularization strength.
func (f *FTRL) Lambda1() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.Lambda1
}

// SetLambda1 updates the L1 regularization strength.
func (f *FTRL) SetLambda1(lambda1 float64) error {
	return f.updateParams(func(p *Params) { p.Lambda1 = lambda1 })
}

// Lambda2 returns the L2 regularization strength.
func (f *FTRL) Lambda2() float64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.Lambda2
}

// SetLambda2 updates the L2 regularization strength.
func (f *FTRL) SetLambda2(lambda2 float64) error {
	return f.updateParams(func(p *Params) { p.Lambda2 = lambda2 })
}

// NBins returns the size of the hashed bin space.
func (f *FTRL) NBins() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.NBins
}

// SetNBins updates the bin space size. Fails on a trained model because
// the bin space is the model's shape.
func (f *FTRL) SetNBins(nbins uint64) error {
	return f.updateParams(func(p *Params) { p.NBins = nbins })
}

// NEpochs returns the number of training passes.
func (f *FTRL) NEpochs() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.NEpochs
}

// SetNEpochs updates the number of training passes.
func (f *FTRL) SetNEpochs(nepochs int) error {
	return f.updateParams(func(p *Params) { p.NEpochs = nepochs })
}

// Interactions reports whether second order feature interactions are on.
func (f *FTRL) Interactions() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.Interactions
}

// SetInteractions toggles second order feature interactions.
func (f *FTRL) SetInteractions(interactions bool) error {
	return f.updateParams(func(p *Params) { p.Interactions = interactions })
}

// DoublePrecision reports whether the accumulators are float64.
func (f *FTRL) DoublePrecision() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params.DoublePrecision
}

// SetDoublePrecision switches accumulator precision. Fails on a trained
// model because the stored accumulators are typed.
func (f *FTRL) SetDoublePrecision(doublePrecision bool) error {
	return f.updateParams(func(p *Params) { p.DoublePrecision = doublePrecision })
}

// Params returns a copy of the current hyperparameters.
func (f *FTRL) Params() Params {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.params
}

// SetParams replaces all hyperparameters at once. On a trained model the
// bin count and precision are frozen; every other field may change.
func (f *FTRL) SetParams(p Params) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setParamsLocked(p)
}

func (f *FTRL) updateParams(mutate func(*Params)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.params
	mutate(&p)
	return f.setParamsLocked(p)
}

func (f *FTRL) setParamsLocked(p Params) error {
	if err := p.validate(); err != nil {
		return err
	}
	if f.k.trained() {
		if p.NBins != f.params.NBins {
			return ftrlErrors.NewValueError("FTRL.SetParams",
				"this model has already been trained, so nbins cannot change; "+
					"reset this model or create a new one")
		}
		if p.DoublePrecision != f.params.DoublePrecision {
			return ftrlErrors.NewValueError("FTRL.SetParams",
				"this model has already been trained, so the accumulator precision "+
					"cannot change; reset this model or create a new one")
		}
		f.params = p
		f.k.applyParams(p)
		return nil
	}
	rebuild := p.DoublePrecision != f.params.DoublePrecision
	f.params = p
	if rebuild {
		f.k = newKernel(p)
	} else {
		f.k.applyParams(p)
	}
	return nil
}

// Labels returns the registered classification labels.
func (f *FTRL) Labels() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.labels))
	copy(out, f.labels)
	return out
}

// SetLabels replaces the label registry. A single label is invalid and an
// empty list restores the default binary label. A trained model keeps its
// per-label weight slices, so the label count cannot change until Reset.
func (f *FTRL) SetLabels(labels []string) error {
	checked, err := checkLabels(labels)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.k.trained() && len(checked) != len(f.labels) {
		return ftrlErrors.NewValueError("FTRL.SetLabels",
			fmt.Sprintf("this model has already been trained with %d labels and cannot "+
				"take %d; reset this model or create a new one", len(f.labels), len(checked)))
	}
	f.labels = checked
	return nil
}

// Model exports the weight store as a frame with one z and one n column
// per label, named "z_<label>" and "n_<label>", in the configured
// precision.
func (f *FTRL) Model() (*frame.Table, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if !f.k.trained() {
		return nil, ftrlErrors.NewNotFittedError("FTRL", "Model")
	}
	names, cols := f.k.modelColumns(f.labels)
	return frame.NewTable(names, cols)
}

// SetModel replaces the weight store with the contents of fr, which must
// have nbins rows and one z and one n column per registered label, all in
// the configured precision with non-negative n values. A nil frame resets
// the model. Validation happens before any mutation.
func (f *FTRL) SetModel(fr frame.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if fr == nil {
		f.resetLocked()
		return nil
	}
	if err := f.k.setModel(fr, len(f.labels)); err != nil {
		return err
	}
	if len(f.labels) > 1 {
		f.reg = RegMultinomial
	} else {
		f.reg = RegBinary
	}
	f.state.SetFitted()
	return nil
}

// FeatureImportances returns a two column frame mapping each training
// column name to its accumulated importance, the sum of absolute z
// updates it caused. Interaction updates credit both columns of the pair.
func (f *FTRL) FeatureImportances() (*frame.Table, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.fi == nil {
		return nil, ftrlErrors.NewNotFittedError("FTRL", "FeatureImportances")
	}
	values := make([]float64, len(f.fi))
	copy(values, f.fi)
	names := make([]string, len(f.colNames))
	copy(names, f.colNames)
	return frame.NewTable(
		[]string{FeatureNameCol, FeatureImportanceCol},
		[]frame.Column{frame.Strings(names), frame.Floats(values)},
	)
}

// ColnameHashes returns the hashes of the training column names, in
// training column order. Nil before the first fit.
func (f *FTRL) ColnameHashes() []uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.colHashes == nil {
		return nil
	}
	out := make([]uint64, len(f.colHashes))
	copy(out, f.colHashes)
	return out
}

// ColNames returns the training column names. Nil before the first fit.
func (f *FTRL) ColNames() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.colNames == nil {
		return nil
	}
	out := make([]string, len(f.colNames))
	copy(out, f.colNames)
	return out
}
