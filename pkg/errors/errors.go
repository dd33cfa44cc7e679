// Package errors provides the typed error taxonomy used across the FTRL
// library.
//
// Three families of failures are distinguished:
//
//   - configuration errors: an invalid hyperparameter value or an invalid
//     construction call (ValueError, ValidationError)
//   - shape errors: frame dimensions that do not match what an operation
//     requires (DimensionError)
//   - state errors: using a model before it is trained (NotFittedError)
//
// All error types support Go 1.13+ errors.Is / errors.As chains and are
// built on github.com/cockroachdb/errors so that wrapped errors keep
// stack information.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Sentinel errors for common failure causes. Use errors.Is to test for
// them anywhere in a wrapped chain.
var (
	// ErrEmptyData indicates an empty input frame or vector
	ErrEmptyData = errors.New("empty data")
	// ErrNotFitted indicates an operation that requires a trained model
	ErrNotFitted = errors.New("model is not fitted")
	// ErrDimensionMismatch indicates incompatible shapes
	ErrDimensionMismatch = errors.New("dimension mismatch")
	// ErrInvalidInput indicates malformed input data
	ErrInvalidInput = errors.New("invalid input")
)

// ValueError represents an invalid argument value or an invalid usage of
// an API (for example mixing mutually exclusive construction paths).
type ValueError struct {
	Op      string // operation that rejected the value
	Message string
}

// NewValueError creates a ValueError for the given operation.
func NewValueError(op, message string) *ValueError {
	return &ValueError{Op: op, Message: message}
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// DimensionError represents a mismatch between an expected and an actual
// dimension along a given axis (0 = rows, 1 = columns).
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int
}

// NewDimensionError creates a DimensionError.
func NewDimensionError(op string, expected, got, axis int) *DimensionError {
	return &DimensionError{Op: op, Expected: expected, Got: got, Axis: axis}
}

func (e *DimensionError) Error() string {
	axis := "rows"
	if e.Axis == 1 {
		axis = "columns"
	}
	return fmt.Sprintf("%s: dimension mismatch on %s: expected %d, got %d",
		e.Op, axis, e.Expected, e.Got)
}

// Is reports ErrDimensionMismatch for any DimensionError.
func (e *DimensionError) Is(target error) bool {
	return target == ErrDimensionMismatch
}

// NotFittedError indicates a method was called on an untrained model.
type NotFittedError struct {
	ModelName string
	Method    string
}

// NewNotFittedError creates a NotFittedError.
func NewNotFittedError(modelName, method string) *NotFittedError {
	return &NotFittedError{ModelName: modelName, Method: method}
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("%s.%s: model is not fitted, train or set the model first",
		e.ModelName, e.Method)
}

// Is reports ErrNotFitted for any NotFittedError.
func (e *NotFittedError) Is(target error) bool {
	return target == ErrNotFitted
}

// ValidationError represents a scalar that violates a stated bound, for
// example a negative value passed where a positive one is required.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

// NewValidationError creates a ValidationError for the named field.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got: %v", e.Field, e.Message, e.Value)
}

// ModelError wraps a lower-level cause with the operation that failed.
type ModelError struct {
	Op      string
	Message string
	Err     error
}

// NewModelError creates a ModelError wrapping cause.
func NewModelError(op, message string, cause error) *ModelError {
	return &ModelError{Op: op, Message: message, Err: cause}
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *ModelError) Unwrap() error { return e.Err }

// ConvergenceWarning reports that an iterative algorithm stopped before
// converging. It is an error value but is normally passed to Warn rather
// than returned.
type ConvergenceWarning struct {
	ModelName  string
	Iterations int
	Message    string
}

// NewConvergenceWarning creates a ConvergenceWarning.
func NewConvergenceWarning(modelName string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{ModelName: modelName, Iterations: iterations, Message: message}
}

func (e *ConvergenceWarning) Error() string {
	return fmt.Sprintf("%s did not converge after %d iterations: %s",
		e.ModelName, e.Iterations, e.Message)
}

// Warn logs err as a warning without interrupting the caller.
func Warn(err error) {
	if err == nil {
		return
	}
	log.Warn().Err(err).Msg("warning")
}

// Recover converts a panic into an error assigned to *errp. Intended as
//
//	defer errors.Recover(&err, "FTRL.Fit")
//
// at the top of exported methods that run numeric kernels.
func Recover(errp *error, op string) {
	if r := recover(); r != nil {
		if e, ok := r.(error); ok {
			*errp = NewModelError(op, "panic during operation", e)
			return
		}
		*errp = NewModelError(op, fmt.Sprintf("panic during operation: %v", r), nil)
	}
}
