package hybrid

import (
	"context"
	"fmt"

	"github.com/sparsedd/ddsolve/apitypes"
	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/kernel"
)

// twoGridVCycle is a minimal two-grid method: pairwise-aggregate the
// fine unknowns into half as many coarse ones, Jacobi-smooth on the fine
// grid, solve the coarse correction matrix-free (the coarse operator is
// never materialized — R(A(Px)) is computed through the fine matvec),
// prolongate the correction back, and post-smooth. This is a deliberately
// narrow reading of "multilevel": nothing elsewhere in this module
// specifies a coarsening/aggregation or interpolation scheme, so the
// simplest standard aggregation AMG building block (piecewise-constant
// restriction/prolongation) is used rather than inventing a speculative
// one.
func twoGridVCycle(ctx context.Context, a *kernel.SparseMatrix, b []float64, cfg Config, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	n := a.Rows()
	diag, err := a.Diagonal()
	if err != nil {
		return apitypes.SolverResult{}, err
	}
	for _, d := range diag {
		if d == 0 {
			return apitypes.SolverResult{}, fmt.Errorf("multilevel: %w", errs.ErrSingularDiagonal)
		}
	}

	x := make([]float64, n)
	bnorm := kernel.Norm2(b, counters)
	if bnorm == 0 {
		bnorm = 1
	}

	const preSweeps, postSweeps, coarseSweeps = 2, 2, 8
	const smoothOmega, coarseOmega = 0.8, 0.6

	cycles := cfg.MaxIterations / (preSweeps + postSweeps + coarseSweeps + 1)
	if cycles < 1 {
		cycles = 1
	}

	var residNorm float64
	converged := false
	done := cycles
	for cycle := 0; cycle < cycles; cycle++ {
		if err := checkSafepoint(ctx); err != nil {
			return apitypes.SolverResult{X: x, ResidualNorm: residNorm / bnorm, Iterations: uint(cycle), Method: apitypes.MethodMultilevel, Diagnostics: counters}, err
		}

		jacobiSweep(a, diag, x, b, preSweeps, smoothOmega, counters)

		r := fineResidual(a, x, b, counters)
		rc := restrict(r)
		ec := make([]float64, len(rc))
		coarseRichardson(a, ec, rc, coarseSweeps, coarseOmega, counters)
		prolongAddInto(x, ec)

		jacobiSweep(a, diag, x, b, postSweeps, smoothOmega, counters)

		r = fineResidual(a, x, b, counters)
		residNorm = kernel.Norm2(r, counters)
		if hist != nil {
			hist.Record(cycle, residNorm/bnorm, counters.Elapsed())
		}
		if residNorm/bnorm <= cfg.Tolerance {
			converged = true
			done = cycle + 1
			break
		}
	}

	return apitypes.SolverResult{
		X:            x,
		ResidualNorm: residNorm / bnorm,
		Iterations:   uint(done),
		Converged:    converged,
		Method:       apitypes.MethodMultilevel,
		Diagnostics:  counters,
	}, nil
}

func jacobiSweep(a *kernel.SparseMatrix, diag, x, b []float64, sweeps int, omega float64, counters *diagnostics.Counters) {
	n := len(x)
	ax := make([]float64, n)
	for s := 0; s < sweeps; s++ {
		_ = kernel.MatVec(a, x, ax, counters)
		for i := 0; i < n; i++ {
			x[i] += omega * (b[i] - ax[i]) / diag[i]
		}
	}
}

func fineResidual(a *kernel.SparseMatrix, x, b []float64, counters *diagnostics.Counters) []float64 {
	ax := make([]float64, len(b))
	_ = kernel.MatVec(a, x, ax, counters)
	r := make([]float64, len(b))
	for i := range r {
		r[i] = b[i] - ax[i]
	}
	return r
}

// restrict halves the fine residual by pairwise averaging: rc[i] =
// 0.5*(r[2i] + r[2i+1]), the last coarse entry taking the lone leftover
// fine entry on an odd-sized grid.
func restrict(r []float64) []float64 {
	m := (len(r) + 1) / 2
	rc := make([]float64, m)
	for i := 0; i < m; i++ {
		lo := 2 * i
		if lo+1 < len(r) {
			rc[i] = 0.5 * (r[lo] + r[lo+1])
		} else {
			rc[i] = r[lo]
		}
	}
	return rc
}

// prolongAddInto injects each coarse correction into both fine unknowns
// it aggregates, x[2i] += ec[i], x[2i+1] += ec[i] — the transpose pairing
// of restrict's averaging, up to the constant factor absorbed into
// coarseOmega.
func prolongAddInto(x, ec []float64) {
	for i, v := range ec {
		lo := 2 * i
		x[lo] += v
		if lo+1 < len(x) {
			x[lo+1] += v
		}
	}
}

// coarseRichardson solves the coarse correction matrix-free: the coarse
// operator R(A(P·)) is never materialized as a matrix, each Richardson
// step applies it by prolonging the current coarse iterate, running it
// through the fine matvec, and restricting the result back down.
func coarseRichardson(a *kernel.SparseMatrix, ec, rc []float64, sweeps int, omega float64, counters *diagnostics.Counters) {
	n := a.Rows()
	fine := make([]float64, n)
	for s := 0; s < sweeps; s++ {
		for i := range fine {
			fine[i] = 0
		}
		prolongAddInto(fine, ec)
		ax := make([]float64, n)
		_ = kernel.MatVec(a, fine, ax, counters)
		axc := restrict(ax)
		for i := range ec {
			ec[i] += omega * (rc[i] - axc[i])
		}
	}
}
