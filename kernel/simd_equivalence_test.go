package kernel_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/kernel"
)

// TestSIMDEquivalence gates any SIMD backend before it may be shipped:
// the accelerated Dot/Axpy must match the scalar reference for
// representative sizes, including widths that do not evenly divide the
// platform's lane width.
func TestSIMDEquivalence(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 3, 4, 7, 8, 15, 16, 100, 257} {
		x := randVec(r, n)
		y := randVec(r, n)

		scalarDot, err := kernel.DotWithBackend(kernel.BackendScalar, x, y, nil)
		require.NoError(t, err)
		simdDot, err := kernel.DotWithBackend(kernel.BackendSIMD, x, y, nil)
		require.NoError(t, err)
		require.InDelta(t, scalarDot, simdDot, 1e-9, "n=%d", n)

		yScalar := append([]float64(nil), y...)
		ySIMD := append([]float64(nil), y...)
		require.NoError(t, kernel.AxpyWithBackend(kernel.BackendScalar, 1.5, x, yScalar, nil))
		require.NoError(t, kernel.AxpyWithBackend(kernel.BackendSIMD, 1.5, x, ySIMD, nil))
		for i := range yScalar {
			require.InDelta(t, yScalar[i], ySIMD[i], 1e-9, "n=%d i=%d", n, i)
		}
	}
}

func randVec(r *rand.Rand, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()*2 - 1
	}
	return v
}
