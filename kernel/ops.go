package kernel

import (
	"fmt"
	"math"

	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
)

// blockWidth pins the summation order for Dot and MatVec: over the full
// blocks of 8, term k goes into partial sum k mod 8; the eight partial
// sums are then added in lane order, and the tail past the last full
// block is added left to right, so that two runs over the same inputs are
// bit-identical under IEEE-754 round-to-nearest. Axpy has no reduction.
const blockWidth = 8

// MatVec computes y := A·x using the scalar reference backend. Preconditions:
// len(x) == A.Cols(), len(y) == A.Rows(). counters may be nil.
//
// The row loop accumulates each row in a fixed block-8 order so that
// repeated calls over the same (A, x) are bit-for-bit identical,
// independent of any SIMD backend (see simd.go).
func MatVec(a *SparseMatrix, x, y []float64, counters *diagnostics.Counters) error {
	if len(x) != a.cols {
		return fmt.Errorf("MatVec: len(x)=%d != cols=%d: %w", len(x), a.cols, errs.ErrInvalidShape)
	}
	if len(y) != a.rows {
		return fmt.Errorf("MatVec: len(y)=%d != rows=%d: %w", len(y), a.rows, errs.ErrInvalidShape)
	}

	for i := 0; i < a.rows; i++ {
		cols, vals := a.Row(i)
		y[i] = blockDotColVal(cols, vals, x)
	}

	if counters != nil {
		counters.IncMatVec(a.NNZ(), uint64(a.NNZ())*(8+4)+uint64(a.rows+1)*4)
	}
	return nil
}

// blockDotColVal sums vals[k]*x[cols[k]] in the blockWidth lane order:
// eight strided partial sums, added in lane order, then the tail.
func blockDotColVal(cols []int32, vals []float64, x []float64) float64 {
	n := len(vals)
	var blockSums [blockWidth]float64
	full := n - n%blockWidth
	i := 0
	for ; i < full; i += blockWidth {
		for b := 0; b < blockWidth; b++ {
			blockSums[b] += vals[i+b] * x[cols[i+b]]
		}
	}
	total := 0.0
	for b := 0; b < blockWidth; b++ {
		total += blockSums[b]
	}
	for ; i < n; i++ {
		total += vals[i] * x[cols[i]]
	}
	return total
}

// Dot returns the inner product of x and y. Requires len(x) == len(y).
// Summation order is fixed (block-8) for reproducibility.
func Dot(x, y []float64, counters *diagnostics.Counters) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("Dot: len mismatch %d != %d: %w", len(x), len(y), errs.ErrInvalidShape)
	}
	result := blockDot(x, y)
	if counters != nil {
		counters.IncDot(len(x))
	}
	return result, nil
}

func blockDot(x, y []float64) float64 {
	n := len(x)
	var blockSums [blockWidth]float64
	full := n - n%blockWidth
	i := 0
	for ; i < full; i += blockWidth {
		for b := 0; b < blockWidth; b++ {
			blockSums[b] += x[i+b] * y[i+b]
		}
	}
	total := 0.0
	for b := 0; b < blockWidth; b++ {
		total += blockSums[b]
	}
	for ; i < n; i++ {
		total += x[i] * y[i]
	}
	return total
}

// Axpy computes y := y + alpha*x elementwise, in place. Requires
// len(x) == len(y).
func Axpy(alpha float64, x, y []float64, counters *diagnostics.Counters) error {
	if len(x) != len(y) {
		return fmt.Errorf("Axpy: len mismatch %d != %d: %w", len(x), len(y), errs.ErrInvalidShape)
	}
	for i := range x {
		y[i] += alpha * x[i]
	}
	if counters != nil {
		counters.IncAxpy(len(x))
	}
	return nil
}

// Norm2 returns sqrt(Dot(x, x)).
func Norm2(x []float64, counters *diagnostics.Counters) float64 {
	d, _ := Dot(x, x, counters)
	return math.Sqrt(d)
}
