package flat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"scaled copies", []float32{1, 2}, []float32{10, 20}, 1},
		{"known angle", []float32{1, 0}, []float32{1, 1}, math.Sqrt2 / 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := cosine(tc.a, tc.b, norm(tc.a), norm(tc.b))
			assert.InDelta(t, tc.want, got, 1e-6)
		})
	}
}

func TestCosine_ZeroVector(t *testing.T) {
	zero := []float32{0, 0, 0}
	v := []float32{1, 2, 3}

	assert.Zero(t, cosine(zero, v, norm(zero), norm(v)))
	assert.Zero(t, cosine(v, zero, norm(v), norm(zero)))
	assert.Zero(t, cosine(zero, zero, 0, 0))
}

func TestCosine_SymmetricAndBounded(t *testing.T) {
	a := []float32{0.3, -1.7, 2.2, 0.05}
	b := []float32{-0.9, 0.4, 1.1, -2.0}

	ab := cosine(a, b, norm(a), norm(b))
	ba := cosine(b, a, norm(b), norm(a))
	assert.InDelta(t, ab, ba, 1e-12)
	assert.LessOrEqual(t, math.Abs(ab), 1+1e-9)
}
