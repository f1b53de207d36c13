package hybrid

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWeightTableFailZeroesAndMarksDead(t *testing.T) {
	w := newWeightTable(map[string]float64{methodDirect: 0.4, methodRandomWalk: 0.6})
	w.fail(methodDirect)
	require.False(t, w.alive(methodDirect))
	require.Equal(t, 0.0, w.weights[methodDirect])
	require.True(t, w.anyAlive())
}

func TestWeightTableAdaptRenormalizesAndFloors(t *testing.T) {
	w := newWeightTable(map[string]float64{methodDirect: 0.4, methodRandomWalk: 0.3, methodBidirectional: 0.2, methodMultilevel: 0.1})
	w.adapt(map[string]float64{
		methodDirect:        100,
		methodRandomWalk:    1,
		methodBidirectional: 1,
		methodMultilevel:    1,
	})
	var sum float64
	for m := range w.weights {
		sum += w.weights[m]
		require.GreaterOrEqual(t, w.weights[m], minWeightFloor-1e-9)
	}
	require.InDelta(t, 1.0, sum, 1e-6)
}

func TestWeightTableAdaptNeverRevivesAFailedMethod(t *testing.T) {
	w := newWeightTable(map[string]float64{methodDirect: 0.5, methodRandomWalk: 0.5})
	w.fail(methodRandomWalk)
	w.adapt(map[string]float64{methodDirect: 10, methodRandomWalk: 10})
	require.Equal(t, 0.0, w.weights[methodRandomWalk])
}
