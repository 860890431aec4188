package vector

import (
	"math"

	"github.com/viant/vec/search"
)

// Norm returns the Euclidean length of v.
func Norm(v []float32) float32 {
	if len(v) == 0 {
		return 0
	}
	return search.Float32s(v).Magnitude()
}

// Normalize scales v in place to unit length and returns its original norm.
// A zero vector is left unchanged and reported with norm 0.
func Normalize(v []float32) float32 {
	n := Norm(v)
	if n == 0 || math.IsNaN(float64(n)) {
		return n
	}
	for i := range v {
		v[i] /= n
	}
	return n
}
