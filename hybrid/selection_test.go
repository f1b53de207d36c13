package hybrid

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/functional"
)

func TestSelectPrimaryPrefersDirectForSparseDominantMatrix(t *testing.T) {
	params := functional.DominanceParameters{Delta: 0.5, Sparsity: 0.999}
	cfg := DefaultConfig()
	require.Equal(t, methodDirect, selectPrimary(params, 1000, cfg))
}

func TestSelectPrimaryPrefersBidirectionalWhenNotDominant(t *testing.T) {
	params := functional.DominanceParameters{Delta: -0.1, Sparsity: 0.5}
	cfg := DefaultConfig()
	require.Equal(t, methodBidirectional, selectPrimary(params, 1000, cfg))
}

func TestSelectPrimaryAlwaysDirectForTinySystems(t *testing.T) {
	params := functional.DominanceParameters{Delta: -5, Sparsity: 0.1}
	cfg := DefaultConfig()
	require.Equal(t, methodDirect, selectPrimary(params, 10, cfg))
}

func TestEnabledMethodsRespectsConfigFlags(t *testing.T) {
	cfg := Config{UseDirect: true, UseMultilevel: true}
	methods := enabledMethods(cfg)
	require.Equal(t, []string{methodDirect, methodMultilevel}, methods)
}
