package derivation

import "math"

// NormalizeVector normalizes a vector to unit length (L2 normalization).
// Returns a new vector; the input is not modified.
// A zero vector is returned as a zero vector of the same length.
func NormalizeVector(v []float32) []float32 {
	if len(v) == 0 {
		return v
	}

	var magnitude float32
	for _, val := range v {
		magnitude += val * val
	}
	magnitude = float32(math.Sqrt(float64(magnitude)))

	result := make([]float32, len(v))
	if magnitude == 0 {
		return result
	}
	for i, val := range v {
		result[i] = val / magnitude
	}
	return result
}

// cosineSimilarity returns the cosine of the angle between a and b.
// Vectors of different lengths are compared over their common prefix.
func cosineSimilarity(a, b []float32) float32 {
	a, b = NormalizeVector(a), NormalizeVector(b)
	var sum float32
	for i := 0; i < min(len(a), len(b)); i++ {
		sum += a[i] * b[i]
	}
	return sum
}
