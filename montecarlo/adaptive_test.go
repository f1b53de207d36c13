package montecarlo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/montecarlo"
)

func TestAdaptiveSamplerObserveShiftsWeight(t *testing.T) {
	s := montecarlo.NewAdaptiveSampler(3)
	before := s.Weight(0)
	s.Observe(0, 10.0)
	require.Greater(t, s.Weight(0), before)
}

func TestAdaptiveSamplerStratifiedCoverage(t *testing.T) {
	s := montecarlo.NewAdaptiveSampler(10)
	s.RebuildStrata(10, 5)
	for stratum := 0; stratum < 5; stratum++ {
		idx := s.StratifiedSampleIndex(stratum, 0.0)
		require.GreaterOrEqual(t, idx, stratum*2)
		require.Less(t, idx, (stratum+1)*2)
	}
}
