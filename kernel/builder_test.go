package kernel_test

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/kernel"
)

func TestBuildCSRBasic(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 1, Value: 2.0},
		{Row: 1, Col: 0, Value: 3.0},
		{Row: 0, Col: 0, Value: 1.0},
	}
	m, err := kernel.BuildCSR(triplets, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 2, m.Rows())
	require.Equal(t, 2, m.Cols())
	require.Equal(t, 3, m.NNZ())
	require.Equal(t, 1.0, m.At(0, 0))
	require.Equal(t, 2.0, m.At(0, 1))
	require.Equal(t, 3.0, m.At(1, 0))
	require.Equal(t, 0.0, m.At(1, 1))
}

func TestBuildCSRSumsDuplicates(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 1.5},
		{Row: 0, Col: 0, Value: 2.5},
	}
	m, err := kernel.BuildCSR(triplets, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, m.NNZ())
	require.Equal(t, 4.0, m.At(0, 0))
}

func TestBuildCSRDropsNearZero(t *testing.T) {
	triplets := []kernel.Triplet{
		{Row: 0, Col: 0, Value: 1e-13},
		{Row: 0, Col: 1, Value: 1.0},
	}
	m, err := kernel.BuildCSR(triplets, 1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, m.NNZ())
	require.Equal(t, 0.0, m.At(0, 0))
}

func TestBuildCSRInvalidShape(t *testing.T) {
	_, err := kernel.BuildCSR([]kernel.Triplet{{Row: 5, Col: 0, Value: 1}}, 2, 2)
	require.Error(t, err)
	require.True(t, errors.Is(err, errs.ErrInvalidShape))

	_, err = kernel.BuildCSR(nil, 0, 2)
	require.True(t, errors.Is(err, errs.ErrInvalidShape))
}

func TestBuildCSRNonFinite(t *testing.T) {
	_, err := kernel.BuildCSR([]kernel.Triplet{{Row: 0, Col: 0, Value: math.NaN()}}, 1, 1)
	require.True(t, errors.Is(err, errs.ErrNonFinite))

	_, err = kernel.BuildCSR([]kernel.Triplet{{Row: 0, Col: 0, Value: math.Inf(1)}}, 1, 1)
	require.True(t, errors.Is(err, errs.ErrNonFinite))
}

// TestTripletRoundTrip checks that for any triplet
// list without duplicates, iterating the built CSR and sorting yields the
// original list.
func TestTripletRoundTrip(t *testing.T) {
	original := []kernel.Triplet{
		{Row: 2, Col: 1, Value: 4.0},
		{Row: 0, Col: 2, Value: 2.0},
		{Row: 1, Col: 1, Value: 3.0},
		{Row: 0, Col: 0, Value: 1.0},
	}
	m, err := kernel.BuildCSR(original, 3, 3)
	require.NoError(t, err)

	got := m.Triplets()
	sortTriplets(original)
	sortTriplets(got)
	require.Equal(t, original, got)
}

func sortTriplets(ts []kernel.Triplet) {
	sort.Slice(ts, func(i, j int) bool {
		if ts[i].Row != ts[j].Row {
			return ts[i].Row < ts[j].Row
		}
		return ts[i].Col < ts[j].Col
	})
}
