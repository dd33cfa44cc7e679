package ftrl

import (
	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

// Params bundles the FTRL-Proximal hyperparameters. The zero value is not
// useful; start from DefaultParams.
type Params struct {
	// Alpha is the numerator of the per-coordinate learning rate. Must be
	// strictly positive.
	Alpha float64

	// Beta is the denominator smoothing term of the per-coordinate
	// learning rate. Must be non-negative.
	Beta float64

	// Lambda1 is the L1 regularization strength. Must be non-negative.
	Lambda1 float64

	// Lambda2 is the L2 regularization strength. Must be non-negative.
	Lambda2 float64

	// NBins is the size of the hashed bin space. Must be strictly
	// positive and cannot change once a model has been trained.
	NBins uint64

	// NEpochs is the number of passes over the training frame.
	NEpochs int

	// Interactions enables second order feature interactions.
	Interactions bool

	// DoublePrecision selects float64 accumulators instead of float32.
	// Cannot change once a model has been trained.
	DoublePrecision bool
}

// DefaultParams returns the default hyperparameters.
func DefaultParams() Params {
	return Params{
		Alpha:           0.005,
		Beta:            1.0,
		Lambda1:         0.0,
		Lambda2:         1.0,
		NBins:           1000000,
		NEpochs:         1,
		Interactions:    false,
		DoublePrecision: false,
	}
}

// validate checks every field with the range rules of the constructor.
func (p Params) validate() error {
	if err := ftrlErrors.CheckFinite(p.Alpha, "alpha"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckPositive(p.Alpha, "alpha"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckNotNegative(p.Beta, "beta"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckNotNegative(p.Lambda1, "lambda1"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckNotNegative(p.Lambda2, "lambda2"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckPositive(p.NBins, "nbins"); err != nil {
		return err
	}
	if err := ftrlErrors.CheckNotNegative(p.NEpochs, "nepochs"); err != nil {
		return err
	}
	return nil
}

// Option configures New.
type Option func(*builder)

// builder accumulates construction options so that the bundled and
// individual parameter paths can be checked for mutual exclusion.
type builder struct {
	params     Params
	bundled    bool
	individual bool
	labels     []string
	labelsSet  bool
}

// WithParams sets every hyperparameter at once. Mutually exclusive with
// the individual parameter options.
func WithParams(p Params) Option {
	return func(b *builder) {
		b.params = p
		b.bundled = true
	}
}

// WithAlpha sets the learning rate numerator.
func WithAlpha(alpha float64) Option {
	return func(b *builder) {
		b.params.Alpha = alpha
		b.individual = true
	}
}

// WithBeta sets the learning rate smoothing term.
func WithBeta(beta float64) Option {
	return func(b *builder) {
		b.params.Beta = beta
		b.individual = true
	}
}

// WithLambda1 sets the L1 regularization strength.
func WithLambda1(lambda1 float64) Option {
	return func(b *builder) {
		b.params.Lambda1 = lambda1
		b.individual = true
	}
}

// WithLambda2 sets the L2 regularization strength.
func WithLambda2(lambda2 float64) Option {
	return func(b *builder) {
		b.params.Lambda2 = lambda2
		b.individual = true
	}
}

// WithNBins sets the size of the hashed bin space.
func WithNBins(nbins uint64) Option {
	return func(b *builder) {
		b.params.NBins = nbins
		b.individual = true
	}
}

// WithNEpochs sets the number of training passes.
func WithNEpochs(nepochs int) Option {
	return func(b *builder) {
		b.params.NEpochs = nepochs
		b.individual = true
	}
}

// WithInteractions enables second order feature interactions.
func WithInteractions(interactions bool) Option {
	return func(b *builder) {
		b.params.Interactions = interactions
		b.individual = true
	}
}

// WithDoublePrecision selects float64 accumulators.
func WithDoublePrecision(doublePrecision bool) Option {
	return func(b *builder) {
		b.params.DoublePrecision = doublePrecision
		b.individual = true
	}
}

// WithLabels sets the classification labels. Not part of Params, so it
// combines freely with either construction path.
func WithLabels(labels []string) Option {
	return func(b *builder) {
		b.labels = labels
		b.labelsSet = true
	}
}
