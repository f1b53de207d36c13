package push_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/push"
)

func TestBidirectionalCombinesBothDirections(t *testing.T) {
	g := pathGraph(t)
	cfg := push.DefaultConfig()
	cfg.MaxPushes = 10000

	result, err := push.Bidirectional(context.Background(), g, 0, 4, cfg, cfg, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Weight, 0.0)
	require.LessOrEqual(t, result.Weight, 1.0)
	require.GreaterOrEqual(t, result.Value, 0.0)
}

func TestPreferenceHeuristicsAreMutuallyExclusiveAtExtremes(t *testing.T) {
	g := pathGraph(t)
	// Node 0 has out-degree 1 and node 4 has in-degree 1 on this path
	// graph, so neither heuristic fires by a 10x margin.
	require.False(t, push.PreferBackwardOnly(g, 0, 4))
	require.False(t, push.PreferForwardOnly(g, 0, 4))
}
