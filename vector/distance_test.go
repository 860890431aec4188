package vector

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	if n := Normalize(v); math.Abs(float64(n)-5) > 1e-6 {
		t.Fatalf("Normalize returned norm %v, want 5", n)
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Fatalf("Normalize = %v, want [0.6 0.8]", v)
	}
	if n := Norm(v); math.Abs(float64(n)-1) > 1e-6 {
		t.Fatalf("Norm after Normalize = %v, want 1", n)
	}

	zero := []float32{0, 0}
	if n := Normalize(zero); n != 0 || zero[0] != 0 || zero[1] != 0 {
		t.Fatalf("Normalize(zero) = %v (norm %v), want unchanged zero", zero, n)
	}
}
