// Package graphview provides a read-only adjacency/CSR duality over a
// kernel.SparseMatrix, plus the WorkQueue and VisitedTracker primitives the
// push solvers share.
//
// Degree basis is configurable: forward and backward push disagree in
// practice over row-sum-of-raw-values versus row-sum-of-absolute-values
// degree definitions. This package exposes both via DegreeBasis and
// defaults to Abs.
package graphview

import (
	"sync"

	"github.com/sparsedd/ddsolve/kernel"
)

// DegreeBasis selects how a node's degree is computed from its row/column
// entries.
type DegreeBasis int

const (
	// DegreeAbs sums |A[i,j]| — the default.
	DegreeAbs DegreeBasis = iota
	// DegreeRaw sums A[i,j] without taking the absolute value.
	DegreeRaw
)

// Graph is a read-only projection over a kernel.SparseMatrix adding
// out-degree, lazily-materialized in-degree, and an optional transpose.
type Graph struct {
	matrix *kernel.SparseMatrix
	basis  DegreeBasis

	outDegree []float64

	mu          sync.Mutex
	inDegree    []float64
	inDegreeSet bool
	transpose   *kernel.SparseMatrix
}

// New builds a Graph view over matrix, eagerly computing out-degrees (row
// sums under the given basis) since every push/walk method needs them
// immediately.
func New(matrix *kernel.SparseMatrix, basis DegreeBasis) *Graph {
	g := &Graph{matrix: matrix, basis: basis}
	g.outDegree = make([]float64, matrix.Rows())
	for i := 0; i < matrix.Rows(); i++ {
		_, vals := matrix.Row(i)
		g.outDegree[i] = sumBasis(vals, basis)
	}
	return g
}

func sumBasis(vals []float64, basis DegreeBasis) float64 {
	var sum float64
	for _, v := range vals {
		if basis == DegreeAbs && v < 0 {
			sum -= v
		} else {
			sum += v
		}
	}
	return sum
}

// Matrix returns the underlying SparseMatrix.
func (g *Graph) Matrix() *kernel.SparseMatrix { return g.matrix }

// NumNodes returns the number of rows (== columns for a square graph).
func (g *Graph) NumNodes() int { return g.matrix.Rows() }

// OutDegree returns the row-sum degree of node i under the configured
// basis. Complexity O(1) — precomputed at New.
func (g *Graph) OutDegree(i int) float64 { return g.outDegree[i] }

// InDegree returns the column-sum degree of node j, lazily materializing
// the transpose on first call.
func (g *Graph) InDegree(j int) float64 {
	g.ensureTranspose()
	return g.inDegree[j]
}

// Transpose returns the transposed CSR, materialized once per Graph and
// cached for the remainder of its lifetime.
func (g *Graph) Transpose() *kernel.SparseMatrix {
	g.ensureTranspose()
	return g.transpose
}

func (g *Graph) ensureTranspose() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inDegreeSet {
		return
	}
	g.transpose = transposeCSR(g.matrix)
	g.inDegree = make([]float64, g.transpose.Rows())
	for i := 0; i < g.transpose.Rows(); i++ {
		_, vals := g.transpose.Row(i)
		g.inDegree[i] = sumBasis(vals, g.basis)
	}
	g.inDegreeSet = true
}

// transposeCSR builds A^T from A by swapping (row, col) on every stored
// entry and handing the result to BuildCSR, which already does its own
// sort-and-compress into CSR form.
func transposeCSR(a *kernel.SparseMatrix) *kernel.SparseMatrix {
	rows, cols := a.Rows(), a.Cols()
	triplets := make([]kernel.Triplet, 0, a.NNZ())
	for i := 0; i < rows; i++ {
		ci, vals := a.Row(i)
		for k, c := range ci {
			triplets = append(triplets, kernel.Triplet{Row: int(c), Col: i, Value: vals[k]})
		}
	}
	// BuildCSR performs the sort+compress; duplicates cannot arise here
	// since (row,col) pairs are unique in the source matrix.
	t, _ := kernel.BuildCSR(triplets, cols, rows)
	return t
}
