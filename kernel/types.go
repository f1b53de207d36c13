// Package kernel implements the sparse matrix storage (CSR) and the four
// pure vector/matrix primitives — matvec, dot, axpy, norm2 — that every
// solver package builds on.
//
// All kernel operations are pure with respect to their output buffer: no
// hidden global state, and any operation counts are folded into a caller
// supplied *diagnostics.Counters rather than a package-level accumulator.
//
// Style follows matrix/impl_linear_algebra.go: named operation tags,
// central validators, and a scalar reference path against which the
// accelerated Dot and Axpy backend is checked to within 1e-9; the two are
// not bit-identical, since the accelerated path uses fused multiply-add
// and its own lane order (see simd.go).
package kernel

import "github.com/sparsedd/ddsolve/errs"

// DenseVector is a contiguous float64 buffer of length n. Ownership is
// exclusive to the caller during a solve; the same buffer may be reused
// across solves.
type DenseVector = []float64

// Triplet is one (row, col, value) entry used to build a SparseMatrix.
type Triplet struct {
	Row, Col int
	Value    float64
}

// zeroThreshold is the magnitude below which a triplet value is dropped
// during CSR compression; no explicit near-zero entries are ever stored.
const zeroThreshold = 1e-12

// SparseMatrix is an immutable Compressed Sparse Row matrix.
//
// Invariants (enforced at Build, never re-checked after):
//   - RowPtr has length Rows+1, is monotonic non-decreasing, RowPtr[0]==0,
//     RowPtr[Rows]==len(Values).
//   - within each row, ColIndex entries are strictly increasing.
//   - ColIndex[k] < Cols for every k.
//   - no explicit zero is stored (|v| < 1e-12 dropped at build).
type SparseMatrix struct {
	rows, cols int
	rowPtr     []int32
	colIndex   []int32
	values     []float64
}

// Rows returns the number of rows.
func (m *SparseMatrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *SparseMatrix) Cols() int { return m.cols }

// NNZ returns the number of stored (non-dropped) entries.
func (m *SparseMatrix) NNZ() int { return len(m.values) }

// RowPtr exposes the row_ptr array (read-only use expected; callers must
// not mutate the returned slice).
func (m *SparseMatrix) RowPtr() []int32 { return m.rowPtr }

// ColIndex exposes the col_index array (read-only use expected).
func (m *SparseMatrix) ColIndex() []int32 { return m.colIndex }

// Values exposes the values array (read-only use expected).
func (m *SparseMatrix) Values() []float64 { return m.values }

// Row returns the column indices and values of a single row, as slices
// into the matrix's backing arrays (no copy). Callers must not mutate.
func (m *SparseMatrix) Row(i int) ([]int32, []float64) {
	start, end := m.rowPtr[i], m.rowPtr[i+1]
	return m.colIndex[start:end], m.values[start:end]
}

// At returns A[i][j], or 0 if the entry is not stored. Complexity O(log
// deg(i)) via binary search over the row's sorted column indices.
func (m *SparseMatrix) At(i, j int) float64 {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0
	}
	cols, vals := m.Row(i)
	lo, hi := 0, len(cols)
	for lo < hi {
		mid := (lo + hi) / 2
		if int(cols[mid]) < j {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(cols) && int(cols[lo]) == j {
		return vals[lo]
	}
	return 0
}

// Diagonal returns D_ii for a square matrix, or errs.ErrInvalidShape if the
// matrix is not square.
func (m *SparseMatrix) Diagonal() ([]float64, error) {
	if m.rows != m.cols {
		return nil, errs.ErrInvalidShape
	}
	d := make([]float64, m.rows)
	for i := 0; i < m.rows; i++ {
		d[i] = m.At(i, i)
	}
	return d, nil
}

// CloneEmpty returns a SparseMatrix with the same shape and no entries,
// mirroring core/methods_clone.go's CloneEmpty — used by callers that want
// a fresh matrix with identical dimensions but no shared storage.
func (m *SparseMatrix) CloneEmpty() *SparseMatrix {
	return &SparseMatrix{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: make([]int32, m.rows+1),
	}
}

// Stats mirrors core.Graph.Stats(): a cheap read-only snapshot useful for
// diagnostics and admission checks.
type Stats struct {
	Rows, Cols, NNZ int
	Density         float64
}

// Stats returns an O(1) snapshot of the matrix's shape and density.
func (m *SparseMatrix) Stats() Stats {
	total := float64(m.rows) * float64(m.cols)
	density := 0.0
	if total > 0 {
		density = float64(len(m.values)) / total
	}
	return Stats{Rows: m.rows, Cols: m.cols, NNZ: len(m.values), Density: density}
}
