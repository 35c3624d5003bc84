// ABOUTME: Embedding vector checks shared by the engine and the gateways
// ABOUTME: A usable vector is non-empty, finite and of the expected dimension
package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyVector is returned for a nil or zero-length vector
var ErrEmptyVector = errors.New("embedding vector is empty")

// ValidateVector checks that a vector can be stored and compared.
// A dimension of 0 or less skips the length check.
func ValidateVector(vector []float64, dimension int) error {
	if len(vector) == 0 {
		return ErrEmptyVector
	}
	if dimension > 0 && len(vector) != dimension {
		return fmt.Errorf("invalid embedding dimension: expected %d, got %d", dimension, len(vector))
	}
	for i, v := range vector {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("embedding value at index %d is not finite", i)
		}
	}
	return nil
}

// Float32ToFloat64 widens a provider vector to the stored representation
func Float32ToFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
