package montecarlo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/kernel"
	"github.com/sparsedd/ddsolve/montecarlo"
)

func diagDominantFixture(t *testing.T) (*kernel.SparseMatrix, []float64) {
	t.Helper()
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 4}, {Row: 0, Col: 1, Value: 1},
		{Row: 1, Col: 0, Value: 1}, {Row: 1, Col: 1, Value: 3},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)
	return m, []float64{5, 4}
}

func TestEngineIsDeterministicForAFixedSeed(t *testing.T) {
	a, b := diagDominantFixture(t)
	cfg := montecarlo.Config{MaxSteps: 500, RestartProbability: 0.3, ConvergenceTolerance: 1e-4, Seed: 42}

	e1 := montecarlo.NewEngine(cfg)
	r1, err := e1.Solve(context.Background(), a, b, nil, nil)
	require.NoError(t, err)

	e2 := montecarlo.NewEngine(cfg)
	r2, err := e2.Solve(context.Background(), a, b, nil, nil)
	require.NoError(t, err)

	require.Equal(t, r1.X, r2.X)
}

func TestEngineRejectsShapeMismatch(t *testing.T) {
	a, _ := diagDominantFixture(t)
	e := montecarlo.NewEngine(montecarlo.DefaultConfig())
	_, err := e.Solve(context.Background(), a, []float64{1}, nil, nil)
	require.Error(t, err)
}

func TestEngineVarianceReductionModesRun(t *testing.T) {
	a, b := diagDominantFixture(t)
	modes := []montecarlo.VarianceReduction{
		montecarlo.VarianceNone,
		montecarlo.VarianceAntithetic,
		montecarlo.VarianceImportanceSampling,
		montecarlo.VarianceStratified,
		montecarlo.VarianceQuasiMonteCarlo,
	}
	for _, mode := range modes {
		cfg := montecarlo.Config{MaxSteps: 300, RestartProbability: 0.3, ConvergenceTolerance: 1e-4, Seed: 1, VarianceReduction: mode}
		e := montecarlo.NewEngine(cfg)
		result, err := e.Solve(context.Background(), a, b, nil, nil)
		require.NoError(t, err)
		require.Len(t, result.X, 2)
	}
}
