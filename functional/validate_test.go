package functional_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/functional"
	"github.com/sparsedd/ddsolve/kernel"
)

func TestValidateBoundsDominanceCheckPassesOnWellConditionedSystem(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 10}, {Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 10},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)

	params, err := functional.Analyze(m)
	require.NoError(t, err)

	result := functional.ValidateBounds(params, 0.1, 2)
	require.Len(t, result.Checks, 4)
	require.True(t, result.Checks[0].Satisfied)
}

func TestValidateBoundsFailsDiagonalDominanceOnIndefiniteSystem(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 1}, {Row: 0, Col: 1, Value: 5},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 1},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)

	params, err := functional.Analyze(m)
	require.NoError(t, err)

	result := functional.ValidateBounds(params, 0.1, 2)
	require.False(t, result.Valid)
	require.False(t, result.Checks[0].Satisfied)
}

func TestQueryComplexityIsZeroWhenNotDominant(t *testing.T) {
	params := functional.DominanceParameters{Delta: -0.5}
	require.Equal(t, uint(0), functional.QueryComplexity(params, 0.1))
}

func TestQueryComplexityGrowsAsEpsilonShrinks(t *testing.T) {
	params := functional.DominanceParameters{Delta: 0.5}
	loose := functional.QueryComplexity(params, 0.1)
	tight := functional.QueryComplexity(params, 0.01)
	require.Greater(t, tight, loose)
}
