package push_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/push"
)

func TestBackwardPushPathGraphMassConservation(t *testing.T) {
	g := pathGraph(t)
	cfg := push.Config{Alpha: 0.15, Epsilon: 1e-6, MaxPushes: 100000, QueueThreshold: 1e-10, AdaptiveThreshold: true}

	result, err := push.Backward(context.Background(), g, []int{4}, cfg, nil)
	require.NoError(t, err)
	require.InDelta(t, 0.0, result.MassConservationError(), 1e-9)

	// Node 4 is the target: its own backward-reachability weight should
	// be the largest entry.
	for i := 0; i < 4; i++ {
		require.LessOrEqual(t, result.Estimate[i], result.Estimate[4]+1e-9)
	}
}

func TestBackwardPushRejectsOutOfRangeTarget(t *testing.T) {
	g := pathGraph(t)
	_, err := push.Backward(context.Background(), g, []int{-1}, push.DefaultConfig(), nil)
	require.Error(t, err)
}
