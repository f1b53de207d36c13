package functional

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/sparsedd/ddsolve/kernel"
)

// DominanceParameters are the structural properties of A the sublinear
// estimator's complexity and applicability depend on, derived once per
// matrix and safe to cache alongside it.
type DominanceParameters struct {
	// Delta is min_i (|A[i,i]| - Σ_{j≠i}|A[i,j]|) / |A[i,i]|, the
	// strict row diagonal-dominance margin. Delta > 0 means A is row
	// diagonally dominant (RDD).
	Delta float64
	// MaxPNormGap is the worst-case ratio of off-diagonal row mass to
	// diagonal magnitude, max_i (Σ_{j≠i}|A[i,j]|) / |A[i,i]| — how far a
	// row sits from the dominance boundary.
	MaxPNormGap float64
	// ConditionEstimate is a cheap diagonal-ratio proxy for the
	// condition number, max|A[i,i]| / min|A[i,i]|, used only to flag
	// gross ill-conditioning (not a substitute for a real estimator).
	ConditionEstimate float64
	// Sparsity is 1 - nnz/(rows*cols).
	Sparsity float64
	// IsRDD holds when every row is strictly diagonally dominant.
	IsRDD bool
	// IsCDD holds when every column is strictly diagonally dominant.
	IsCDD bool
}

// Analyze derives DominanceParameters from a square matrix a.
func Analyze(a *kernel.SparseMatrix) (DominanceParameters, error) {
	diag, err := a.Diagonal()
	if err != nil {
		return DominanceParameters{}, err
	}

	n := a.Rows()
	rowDelta := make([]float64, n)
	rowGap := make([]float64, n)
	minDiag, maxDiag := math.Inf(1), 0.0

	for i := 0; i < n; i++ {
		d := math.Abs(diag[i])
		cols, vals := a.Row(i)
		offSum := absRowSumExcluding(cols, vals, i)
		if d == 0 {
			rowDelta[i] = math.Inf(-1)
			rowGap[i] = math.Inf(1)
			continue
		}
		rowDelta[i] = (d - offSum) / d
		rowGap[i] = offSum / d
		if d < minDiag {
			minDiag = d
		}
		if d > maxDiag {
			maxDiag = d
		}
	}

	colAbsSum := make([]float64, n)
	colDiag := make([]float64, n)
	for i := 0; i < n; i++ {
		cols, vals := a.Row(i)
		for k, c := range cols {
			v := math.Abs(vals[k])
			if int(c) == i {
				colDiag[int(c)] = v
			} else {
				colAbsSum[int(c)] += v
			}
		}
	}
	isCDD := true
	for j := 0; j < n; j++ {
		if colDiag[j] == 0 || colDiag[j] <= colAbsSum[j] {
			isCDD = false
			break
		}
	}

	delta := floats.Min(rowDelta)
	maxGap := floats.Max(rowGap)

	condEstimate := 1.0
	if minDiag > 0 {
		condEstimate = maxDiag / minDiag
	}

	total := n * a.Cols()
	sparsity := 1.0
	if total > 0 {
		sparsity = 1.0 - float64(a.NNZ())/float64(total)
	}

	return DominanceParameters{
		Delta:             delta,
		MaxPNormGap:       maxGap,
		ConditionEstimate: condEstimate,
		Sparsity:          sparsity,
		IsRDD:             delta > 0,
		IsCDD:             isCDD,
	}, nil
}

func absRowSumExcluding(cols []int32, vals []float64, self int) float64 {
	var sum float64
	for k, c := range cols {
		if int(c) == self {
			continue
		}
		v := vals[k]
		if v < 0 {
			v = -v
		}
		sum += v
	}
	return sum
}
