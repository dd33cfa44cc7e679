package errors_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ezoic/ftrl/core/frame"
	"github.com/ezoic/ftrl/ftrl"
	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

func smallFrames(t *testing.T) (*frame.Table, *frame.Table) {
	t.Helper()
	X, err := frame.NewTable(
		[]string{"age", "city"},
		[]frame.Column{
			frame.Ints([]int64{23, 31, 45}),
			frame.Strings([]string{"oslo", "bergen", "oslo"}),
		},
	)
	if err != nil {
		t.Fatalf("building feature frame: %v", err)
	}
	y, err := frame.NewTable(
		[]string{"clicked"},
		[]frame.Column{frame.Bools([]bool{true, false, true})},
	)
	if err != nil {
		t.Fatalf("building target frame: %v", err)
	}
	return X, y
}

// A dimension error returned by Fit must keep its sentinel and its typed
// detail through caller-side wrapping.
func TestFitDimensionErrorChain(t *testing.T) {
	X, _ := smallFrames(t)
	shortY, err := frame.NewTable(
		[]string{"clicked"},
		[]frame.Column{frame.Bools([]bool{true})},
	)
	if err != nil {
		t.Fatalf("building target frame: %v", err)
	}

	model, err := ftrl.New(ftrl.WithNBins(64))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	fitErr := model.Fit(X, shortY)
	if fitErr == nil {
		t.Fatal("row count mismatch should fail the fit")
	}
	wrapped := fmt.Errorf("training click model: %w", fitErr)

	if !errors.Is(wrapped, ftrlErrors.ErrDimensionMismatch) {
		t.Error("ErrDimensionMismatch not found through the wrapped chain")
	}
	var dimErr *ftrlErrors.DimensionError
	if !errors.As(wrapped, &dimErr) {
		t.Fatalf("expected DimensionError in chain, got %T", fitErr)
	}
	if dimErr.Expected != 3 || dimErr.Got != 1 || dimErr.Axis != 0 {
		t.Errorf("expected rows 3 vs 1, got %d vs %d on axis %d",
			dimErr.Expected, dimErr.Got, dimErr.Axis)
	}
}

// Predicting with an untrained model surfaces NotFittedError and the
// ErrNotFitted sentinel wherever the error ends up in a chain.
func TestPredictNotFittedChain(t *testing.T) {
	X, _ := smallFrames(t)
	model, err := ftrl.New(ftrl.WithNBins(64))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, predErr := model.Predict(X)
	wrapped := fmt.Errorf("scoring batch: %w", predErr)

	if !errors.Is(wrapped, ftrlErrors.ErrNotFitted) {
		t.Error("ErrNotFitted not found through the wrapped chain")
	}
	var nfErr *ftrlErrors.NotFittedError
	if !errors.As(wrapped, &nfErr) {
		t.Fatalf("expected NotFittedError in chain, got %T", predErr)
	}
	if nfErr.ModelName != "FTRL" {
		t.Errorf("expected model name FTRL, got %q", nfErr.ModelName)
	}
}

// Empty training data is reported as a ModelError wrapping the
// ErrEmptyData sentinel, and Unwrap exposes the cause.
func TestFitEmptyDataChain(t *testing.T) {
	err := ftrlErrors.NewModelError("FTRL.Fit", "training frame cannot be empty",
		ftrlErrors.ErrEmptyData)
	wrapped := fmt.Errorf("nightly retrain: %w", err)

	if !errors.Is(wrapped, ftrlErrors.ErrEmptyData) {
		t.Error("ErrEmptyData not found through the wrapped chain")
	}
	var modelErr *ftrlErrors.ModelError
	if !errors.As(wrapped, &modelErr) {
		t.Fatalf("expected ModelError in chain, got %T", err)
	}
	if !errors.Is(modelErr.Unwrap(), ftrlErrors.ErrEmptyData) {
		t.Error("ModelError.Unwrap should expose the empty-data cause")
	}
}

// Construction misuse comes back as a ValueError that errors.As can pull
// out of a wrapped chain.
func TestConstructionValueErrorChain(t *testing.T) {
	_, err := ftrl.New(ftrl.WithParams(ftrl.DefaultParams()), ftrl.WithAlpha(0.1))
	if err == nil {
		t.Fatal("mixing bundled and individual options should fail")
	}
	wrapped := fmt.Errorf("loading config: %w", err)

	var valueErr *ftrlErrors.ValueError
	if !errors.As(wrapped, &valueErr) {
		t.Fatalf("expected ValueError in chain, got %T", err)
	}
}

// Hyperparameter range violations carry the offending field and value
// through wrapping.
func TestHyperparameterValidationChain(t *testing.T) {
	_, err := ftrl.New(ftrl.WithAlpha(-0.5))
	if err == nil {
		t.Fatal("negative alpha should fail construction")
	}
	wrapped := fmt.Errorf("loading config: %w", err)

	var valErr *ftrlErrors.ValidationError
	if !errors.As(wrapped, &valErr) {
		t.Fatalf("expected ValidationError in chain, got %T", err)
	}
	if valErr.Field != "alpha" {
		t.Errorf("expected field alpha, got %q", valErr.Field)
	}
}

// ConvergenceWarning formats the model, iteration count and message, and
// Warn accepts both nil and non-nil values.
func TestConvergenceWarning(t *testing.T) {
	warn := ftrlErrors.NewConvergenceWarning("FTRL", 3, "weights were still moving in the final epoch")
	msg := warn.Error()
	if msg == "" {
		t.Fatal("warning message should not be empty")
	}
	for _, want := range []string{"FTRL", "3", "weights were still moving"} {
		if !strings.Contains(msg, want) {
			t.Errorf("warning %q should mention %q", msg, want)
		}
	}

	ftrlErrors.Warn(nil)
	ftrlErrors.Warn(warn)
}
