package push_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/graphview"
	"github.com/sparsedd/ddsolve/kernel"
	"github.com/sparsedd/ddsolve/push"
)

// pathGraph builds the 5-node uniform-weight path 0->1->2->3->4 used by
// the forward-push path-graph scenario.
func pathGraph(t *testing.T) *graphview.Graph {
	t.Helper()
	triplets := make([]kernel.Triplet, 0, 4)
	for i := 0; i < 4; i++ {
		triplets = append(triplets, kernel.Triplet{Row: i, Col: i + 1, Value: 1.0})
	}
	m, err := kernel.BuildCSR(triplets, 5, 5)
	require.NoError(t, err)
	return graphview.New(m, graphview.DegreeAbs)
}

func TestForwardPushPathGraphMonotoneDecreasing(t *testing.T) {
	g := pathGraph(t)
	cfg := push.Config{Alpha: 0.15, Epsilon: 1e-6, MaxPushes: 100000, QueueThreshold: 1e-10, AdaptiveThreshold: true}

	result, err := push.Forward(context.Background(), g, []int{0}, cfg, nil)
	require.NoError(t, err)

	for i := 1; i < 5; i++ {
		require.Greaterf(t, result.Estimate[i-1], result.Estimate[i], "pi[%d] should exceed pi[%d]", i-1, i)
	}
	require.GreaterOrEqual(t, result.Estimate[4], 0.0)
	require.InDelta(t, 0.0, result.MassConservationError(), 1e-9)
}

func TestForwardPushRejectsOutOfRangeSource(t *testing.T) {
	g := pathGraph(t)
	_, err := push.Forward(context.Background(), g, []int{99}, push.DefaultConfig(), nil)
	require.Error(t, err)
}

func TestForwardPushExtrapolate(t *testing.T) {
	g := pathGraph(t)
	result, err := push.Forward(context.Background(), g, []int{0}, push.DefaultConfig(), nil)
	require.NoError(t, err)

	extrapolated := result.Extrapolate(0.15)
	require.Len(t, extrapolated, 5)
	for i := range extrapolated {
		require.GreaterOrEqual(t, extrapolated[i], result.Estimate[i])
	}
}
