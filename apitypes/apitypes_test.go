package apitypes_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/apitypes"
)

func TestMethodTagsAreDistinct(t *testing.T) {
	tags := []apitypes.Method{
		apitypes.MethodCG, apitypes.MethodJacobi, apitypes.MethodForwardPush,
		apitypes.MethodBackwardPush, apitypes.MethodBidirectional,
		apitypes.MethodRandomWalk, apitypes.MethodMultilevel,
	}
	seen := make(map[apitypes.Method]bool, len(tags))
	for _, tag := range tags {
		require.False(t, seen[tag], "duplicate method tag %q", tag)
		seen[tag] = true
	}
}
