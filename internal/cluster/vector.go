package cluster

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, in
// [-1, 1]. Mismatched lengths or zero vectors yield 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// meanVector returns the component-wise mean of the given vectors. The result
// is not re-normalized; cosine similarity is scale-invariant.
func meanVector(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float64, len(vectors[0]))
	for _, v := range vectors {
		for i := range v {
			mean[i] += v[i]
		}
	}
	for i := range mean {
		mean[i] /= float64(len(vectors))
	}
	return mean
}
