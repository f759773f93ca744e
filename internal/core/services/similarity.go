package services

import "math"

// CosineSimilarity returns the dot product of a and b divided by the
// product of their L2 norms. It is 0 when either vector is all-zero or
// the lengths differ.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp rounding drift so identical vectors never exceed 1.
	return math.Max(-1, math.Min(1, sim))
}
