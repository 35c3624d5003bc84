// ABOUTME: Vector similarity used to rank embedded items
// ABOUTME: Cosine similarity with explicit handling of degenerate inputs
package core

import "math"

// CosineSimilarity returns dot(a,b) / (|a|*|b|).
// Empty or unequal-length vectors are a *ValidationError. A zero-magnitude
// vector or a non-finite result yields 0. The result is not clamped; callers
// treat negative values as no match.
func CosineSimilarity(a, b []float64) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, validationErrorf("vector", "cannot compare empty vectors")
	}
	if len(a) != len(b) {
		return 0, validationErrorf("vector", "dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0, nil
	}
	return sim, nil
}
