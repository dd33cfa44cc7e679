package errors

import "math"

// Number covers the scalar types the range-check helpers accept.
type Number interface {
	~int | ~int64 | ~uint64 | ~float32 | ~float64
}

// CheckPositive fails with a ValidationError unless value > 0.
func CheckPositive[T Number](value T, name string) error {
	if value <= 0 {
		return NewValidationError(name, "should be positive", value)
	}
	return nil
}

// CheckNotNegative fails with a ValidationError unless value >= 0.
func CheckNotNegative[T Number](value T, name string) error {
	if value < 0 {
		return NewValidationError(name, "should be greater than or equal to zero", value)
	}
	return nil
}

// CheckFinite fails with a ValidationError when value is NaN or infinite.
func CheckFinite(value float64, name string) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return NewValidationError(name, "should be a finite number", value)
	}
	return nil
}
