package functional_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/functional"
	"github.com/sparsedd/ddsolve/kernel"
)

func strictlyDominantFixture(t *testing.T) *kernel.SparseMatrix {
	t.Helper()
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 4}, {Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 3},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)
	return m
}

func TestAnalyzeReportsPositiveDeltaOnDominantMatrix(t *testing.T) {
	m := strictlyDominantFixture(t)
	params, err := functional.Analyze(m)
	require.NoError(t, err)
	require.True(t, params.IsRDD)
	require.Greater(t, params.Delta, 0.0)
	require.Greater(t, params.MaxPNormGap, 0.0)
}

func TestAnalyzeDetectsNonDominantMatrix(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 5},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 1},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)

	params, err := functional.Analyze(m)
	require.NoError(t, err)
	require.False(t, params.IsRDD)
	require.LessOrEqual(t, params.Delta, 0.0)
}

func TestAnalyzeFlagsZeroDiagonalAsNonDominant(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 1, Value: 2},
		{Row: 1, Col: 0, Value: 2}, {Row: 1, Col: 1, Value: 5},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)

	params, err := functional.Analyze(m)
	require.NoError(t, err)
	require.False(t, params.IsRDD)
	require.True(t, params.Delta <= 0)
}

func TestAnalyzeRejectsNonSquareMatrix(t *testing.T) {
	triplets := []kernel.Triplet{{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 2}}
	m, err := kernel.BuildCSR(triplets, 1, 2)
	require.NoError(t, err)

	_, err = functional.Analyze(m)
	require.Error(t, err)
}
