package kernel_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/kernel"
)

func buildFixture(t *testing.T) *kernel.SparseMatrix {
	t.Helper()
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 4}, {Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 3},
		{Row: 2, Col: 2, Value: 2},
	}
	m, err := kernel.BuildCSR(triplets, 3, 3)
	require.NoError(t, err)
	return m
}

// TestMatVecReproducibility checks that repeated matvec calls over the
// same CSR and x are bit-identical.
func TestMatVecReproducibility(t *testing.T) {
	m := buildFixture(t)
	x := []float64{1, 2, 3}
	y1 := make([]float64, 3)
	y2 := make([]float64, 3)
	require.NoError(t, kernel.MatVec(m, x, y1, nil))
	require.NoError(t, kernel.MatVec(m, x, y2, nil))
	require.Equal(t, y1, y2)
	require.Equal(t, []float64{6, 7, 6}, y1)
}

func TestMatVecShapeErrors(t *testing.T) {
	m := buildFixture(t)
	require.Error(t, kernel.MatVec(m, []float64{1, 2}, make([]float64, 3), nil))
	require.Error(t, kernel.MatVec(m, make([]float64, 3), make([]float64, 2), nil))
}

func TestDotAxpyNorm2(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := []float64{9, 8, 7, 6, 5, 4, 3, 2, 1}
	d, err := kernel.Dot(x, y, nil)
	require.NoError(t, err)
	require.InDelta(t, 165.0, d, 1e-9)

	y2 := append([]float64(nil), y...)
	require.NoError(t, kernel.Axpy(2.0, x, y2, nil))
	for i := range y2 {
		require.InDelta(t, y[i]+2*x[i], y2[i], 1e-9)
	}

	require.InDelta(t, math.Sqrt(285), kernel.Norm2(x, nil), 1e-9)
}

func TestDotLengthMismatch(t *testing.T) {
	_, err := kernel.Dot([]float64{1, 2}, []float64{1}, nil)
	require.Error(t, err)
}
