package iterative

import (
	"context"
	"fmt"
	"math"

	"github.com/sparsedd/ddsolve/apitypes"
	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/kernel"
)

// Jacobi solves A x = b by the classical Jacobi relaxation, equivalent to
// truncating the Neumann series x* = sum_k (I - D^-1 A)^k D^-1 b at
// cfg.MaxIterations terms. Starts from x0=0.
//
// Contract:
//   - A must be square with a non-zero diagonal; a zero diagonal entry
//     returns errs.ErrSingularDiagonal.
//   - Guaranteed to converge (any starting point) when A is strictly
//     diagonally dominant; outside that regime convergence is not
//     guaranteed and is reported via converged=false, not an error.
func Jacobi(ctx context.Context, a *kernel.SparseMatrix, b []float64, cfg Config, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	cfg = cfg.withDefaults()
	n := a.Rows()
	if a.Cols() != n || len(b) != n {
		return apitypes.SolverResult{}, fmt.Errorf("Jacobi: shape mismatch rows=%d cols=%d len(b)=%d: %w", a.Rows(), a.Cols(), len(b), errs.ErrInvalidShape)
	}
	if counters == nil {
		counters = diagnostics.NewCounters()
	}

	diag, err := a.Diagonal()
	if err != nil {
		return apitypes.SolverResult{}, err
	}
	dinv := make([]float64, n)
	for i, d := range diag {
		if d == 0 {
			return apitypes.SolverResult{}, fmt.Errorf("Jacobi: zero diagonal at row %d: %w", i, errs.ErrSingularDiagonal)
		}
		dinv[i] = 1.0 / d
	}

	bnorm := kernel.Norm2(b, counters)
	if bnorm == 0 {
		bnorm = 1
	}

	x := make([]float64, n)
	ax := make([]float64, n)
	r := make([]float64, n)

	result := apitypes.SolverResult{X: x, Method: apitypes.MethodJacobi, Diagnostics: counters}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := checkSafepoint(ctx); err != nil {
			result.ResidualNorm = residualNorm(a, x, b, ax, r, counters) / bnorm
			result.Iterations = uint(iter)
			counters.Stop()
			return result, err
		}

		if err := kernel.MatVec(a, x, ax, counters); err != nil {
			return result, err
		}
		for i := range r {
			r[i] = b[i] - ax[i]
		}
		residNorm := kernel.Norm2(r, counters)
		if hist != nil {
			hist.Record(iter, residNorm/bnorm, counters.Elapsed())
		}
		if residNorm/bnorm <= cfg.Tolerance {
			result.ResidualNorm = residNorm / bnorm
			result.Iterations = uint(iter)
			result.Converged = true
			counters.Stop()
			return result, nil
		}

		for i := range x {
			x[i] += dinv[i] * r[i]
		}
	}

	result.ResidualNorm = residualNorm(a, x, b, ax, r, counters) / bnorm
	result.Iterations = uint(cfg.MaxIterations)
	counters.Stop()
	return result, nil
}

func residualNorm(a *kernel.SparseMatrix, x, b, ax, r []float64, counters *diagnostics.Counters) float64 {
	_ = kernel.MatVec(a, x, ax, counters)
	for i := range r {
		r[i] = b[i] - ax[i]
	}
	return kernel.Norm2(r, counters)
}

// NeumannTerms returns the number of series terms needed for a
// relative error below epsilon given a contraction factor rho = ‖I -
// D^-1 A‖ < 1, i.e. K = ceil(log(epsilon) / log(rho)). Returns
// errs.ErrNotApplicable if rho >= 1 (the series does not converge).
func NeumannTerms(rho, epsilon float64) (int, error) {
	if rho <= 0 {
		return 1, nil
	}
	if rho >= 1 {
		return 0, fmt.Errorf("NeumannTerms: rho=%g >= 1, series diverges: %w", rho, errs.ErrNotApplicable)
	}
	k := math.Log(epsilon) / math.Log(rho)
	return int(math.Ceil(k)), nil
}
