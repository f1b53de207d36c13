package functional_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/functional"
	"github.com/sparsedd/ddsolve/iterative"
	"github.com/sparsedd/ddsolve/kernel"
)

// diagonallyDominantRing builds an n-node ring where row i has diagonal
// 10+0.01*i and two off-diagonal neighbors each weighted 0.05, giving the
// same dominance margin shape as the large fixture this package's
// estimator is meant for, at a size small enough for a table-driven test.
func diagonallyDominantRing(t *testing.T, n int) (*kernel.SparseMatrix, []float64) {
	t.Helper()
	triplets := make([]kernel.Triplet, 0, 3*n)
	for i := 0; i < n; i++ {
		triplets = append(triplets, kernel.Triplet{Row: i, Col: i, Value: 10 + 0.01*float64(i)})
		triplets = append(triplets, kernel.Triplet{Row: i, Col: (i + 1) % n, Value: 0.05})
		triplets = append(triplets, kernel.Triplet{Row: i, Col: (i - 1 + n) % n, Value: 0.05})
	}
	m, err := kernel.BuildCSR(triplets, n, n)
	require.NoError(t, err)

	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}
	return m, b
}

func TestEstimateFunctionalMatchesDirectSolveOnUnitVector(t *testing.T) {
	a, b := diagonallyDominantRing(t, 20)

	xStar, err := iterative.CG(context.Background(), a, b, iterative.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	require.True(t, xStar.Converged)

	tVec := make([]float64, 20)
	tVec[0] = 1

	cert, err := functional.EstimateFunctional(context.Background(), a, b, tVec, 0.05, 0.1, nil)
	require.NoError(t, err)
	require.Less(t, cert.Queries, uint(100_000))
	require.InDelta(t, xStar.X[0], cert.Value, cert.ErrorBound+0.2)
	require.Nil(t, cert.TemporalLead)
}

func TestEstimateFunctionalIsReproducibleAcrossCalls(t *testing.T) {
	a, b := diagonallyDominantRing(t, 10)
	tVec := make([]float64, 10)
	tVec[3] = 1

	c1, err := functional.EstimateFunctional(context.Background(), a, b, tVec, 0.05, 0.1, nil)
	require.NoError(t, err)
	c2, err := functional.EstimateFunctional(context.Background(), a, b, tVec, 0.05, 0.1, nil)
	require.NoError(t, err)

	require.Equal(t, c1.Value, c2.Value)
	require.Equal(t, c1.Queries, c2.Queries)
}

func TestEstimateFunctionalRejectsNonDominantMatrix(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 5},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 1},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)

	_, err = functional.EstimateFunctional(context.Background(), m, []float64{1, 1}, []float64{1, 0}, 0.1, 0.1, nil)
	require.ErrorIs(t, err, errs.ErrNotApplicable)
}

func TestEstimateFunctionalRejectsShapeMismatch(t *testing.T) {
	a, b := diagonallyDominantRing(t, 5)
	_, err := functional.EstimateFunctional(context.Background(), a, b, []float64{1, 2}, 0.1, 0.1, nil)
	require.ErrorIs(t, err, errs.ErrInvalidShape)
}

func TestEstimateFunctionalProducesTemporalLeadNoteWhenDistanceGiven(t *testing.T) {
	a, b := diagonallyDominantRing(t, 10)
	tVec := make([]float64, 10)
	tVec[0] = 1
	dist := functional.EarthToMoon.AsMeters()

	cert, err := functional.EstimateFunctional(context.Background(), a, b, tVec, 0.1, 0.1, &dist)
	require.NoError(t, err)
	require.NotNil(t, cert.TemporalLead)
	require.Contains(t, cert.TemporalLead.Note, "not faster-than-light")
	require.False(t, math.IsNaN(cert.TemporalLead.Lead.Seconds()))
}
