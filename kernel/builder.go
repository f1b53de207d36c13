package kernel

import (
	"fmt"
	"math"
	"sort"

	"github.com/sparsedd/ddsolve/errs"
)

// BuildCSR constructs an immutable SparseMatrix from a triplet list.
//
// Contract:
//   - fails with errs.ErrInvalidShape if any triplet index is out of range,
//     or if rows <= 0 or cols <= 0.
//   - fails with errs.ErrNonFinite on NaN/Inf in any triplet value.
//   - duplicate (row, col) entries are summed.
//   - values with |v| < 1e-12 after summation are dropped (no explicit
//     zeros stored).
//
// Implementation: a stable sort on (row, col) followed by a run-length
// compression pass.
func BuildCSR(triplets []Triplet, rows, cols int) (*SparseMatrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("BuildCSR: rows=%d cols=%d: %w", rows, cols, errs.ErrInvalidShape)
	}

	ordered := make([]Triplet, len(triplets))
	copy(ordered, triplets)

	for _, t := range ordered {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, fmt.Errorf("BuildCSR: triplet (%d,%d) out of %dx%d: %w", t.Row, t.Col, rows, cols, errs.ErrInvalidShape)
		}
		if math.IsNaN(t.Value) || math.IsInf(t.Value, 0) {
			return nil, fmt.Errorf("BuildCSR: non-finite value at (%d,%d): %w", t.Row, t.Col, errs.ErrNonFinite)
		}
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Row != ordered[j].Row {
			return ordered[i].Row < ordered[j].Row
		}
		return ordered[i].Col < ordered[j].Col
	})

	rowPtr := make([]int32, rows+1)
	colIndex := make([]int32, 0, len(ordered))
	values := make([]float64, 0, len(ordered))

	i := 0
	for row := 0; row < rows; row++ {
		for i < len(ordered) && ordered[i].Row == row {
			col := ordered[i].Col
			sum := ordered[i].Value
			i++
			for i < len(ordered) && ordered[i].Row == row && ordered[i].Col == col {
				sum += ordered[i].Value
				i++
			}
			if math.Abs(sum) >= zeroThreshold {
				colIndex = append(colIndex, int32(col))
				values = append(values, sum)
			}
		}
		rowPtr[row+1] = int32(len(values))
	}

	return &SparseMatrix{
		rows:     rows,
		cols:     cols,
		rowPtr:   rowPtr,
		colIndex: colIndex,
		values:   values,
	}, nil
}

// Triplets returns the matrix's entries as a triplet list in row-major,
// column-ascending order — the inverse of BuildCSR, used by the
// triplet→CSR round-trip property test.
func (m *SparseMatrix) Triplets() []Triplet {
	out := make([]Triplet, 0, len(m.values))
	for row := 0; row < m.rows; row++ {
		cols, vals := m.Row(row)
		for k, c := range cols {
			out = append(out, Triplet{Row: row, Col: int(c), Value: vals[k]})
		}
	}
	return out
}
