package errors_test

import (
	"errors"
	"testing"

	ftrlErrors "github.com/ezoic/ftrl/pkg/errors"
)

func TestCheckPositive(t *testing.T) {
	if err := ftrlErrors.CheckPositive(0.005, "alpha"); err != nil {
		t.Errorf("positive value should pass: %v", err)
	}

	err := ftrlErrors.CheckPositive(0.0, "alpha")
	if err == nil {
		t.Fatal("zero should fail the positivity check")
	}

	var valErr *ftrlErrors.ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if valErr.Field != "alpha" {
		t.Errorf("expected field 'alpha', got %q", valErr.Field)
	}

	if err := ftrlErrors.CheckPositive(uint64(0), "nbins"); err == nil {
		t.Error("nbins=0 should fail the positivity check")
	}
}

func TestCheckNotNegative(t *testing.T) {
	if err := ftrlErrors.CheckNotNegative(0.0, "beta"); err != nil {
		t.Errorf("zero should pass the non-negativity check: %v", err)
	}
	if err := ftrlErrors.CheckNotNegative(-0.1, "lambda1"); err == nil {
		t.Error("negative value should fail the non-negativity check")
	}
}

func TestCheckFinite(t *testing.T) {
	if err := ftrlErrors.CheckFinite(1.5, "alpha"); err != nil {
		t.Errorf("finite value should pass: %v", err)
	}
	nan := 0.0
	nan = nan / nan
	if err := ftrlErrors.CheckFinite(nan, "alpha"); err == nil {
		t.Error("NaN should fail the finiteness check")
	}
}
