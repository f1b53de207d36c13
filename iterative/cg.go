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

// breakdownEps is the magnitude below which dot(p, Ap) is treated as
// numerical breakdown rather than a legitimate tiny denominator.
const breakdownEps = 1e-16

// CG solves A x = b for symmetric positive-definite A via the standard
// preconditioner-free Conjugate Gradient recurrence, starting from x0=0.
//
// Contract:
//   - A must be square; len(b) == A.Rows().
//   - Returns errs.ErrBreakdown if dot(p, Ap) underflows to ~0 before
//     convergence (A is not actually SPD, or p has collapsed).
//   - Returns errs.ErrCancelled / errs.ErrTimedOut if ctx is done at an
//     iteration boundary; the best-so-far x and residual are still
//     attached to the returned SolverResult.
//
// Convergence: the loop invariant residual r = b - Ax shrinks monotonically
// in exact arithmetic for true SPD systems; converged=true iff
// ‖r‖/‖b‖ <= cfg.Tolerance within cfg.MaxIterations.
func CG(ctx context.Context, a *kernel.SparseMatrix, b []float64, cfg Config, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	cfg = cfg.withDefaults()
	n := a.Rows()
	if a.Cols() != n || len(b) != n {
		return apitypes.SolverResult{}, fmt.Errorf("CG: shape mismatch rows=%d cols=%d len(b)=%d: %w", a.Rows(), a.Cols(), len(b), errs.ErrInvalidShape)
	}
	if counters == nil {
		counters = diagnostics.NewCounters()
	}

	bnorm := kernel.Norm2(b, counters)
	if bnorm == 0 {
		bnorm = 1 // avoid dividing by zero when b is the zero vector
	}

	x := make([]float64, n)
	r := make([]float64, n)
	copy(r, b) // r = b - A*0 = b

	p := make([]float64, n)
	copy(p, r)

	rsold, _ := kernel.Dot(r, r, counters)
	ap := make([]float64, n)

	result := apitypes.SolverResult{X: x, Method: apitypes.MethodCG, Diagnostics: counters}

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		if err := checkSafepoint(ctx); err != nil {
			result.ResidualNorm = math.Sqrt(rsold) / bnorm
			result.Iterations = uint(iter)
			counters.Stop()
			return result, err
		}

		if err := kernel.MatVec(a, p, ap, counters); err != nil {
			return result, err
		}
		denom, _ := kernel.Dot(p, ap, counters)
		if math.Abs(denom) < breakdownEps {
			result.ResidualNorm = math.Sqrt(rsold) / bnorm
			result.Iterations = uint(iter)
			counters.Stop()
			return result, fmt.Errorf("CG: breakdown at iteration %d, dot(p,Ap)=%g: %w", iter, denom, errs.ErrBreakdown)
		}
		alpha := rsold / denom

		_ = kernel.Axpy(alpha, p, x, counters)
		_ = kernel.Axpy(-alpha, ap, r, counters)

		rsnew, _ := kernel.Dot(r, r, counters)
		residNorm := math.Sqrt(rsnew)
		if hist != nil {
			hist.Record(iter, residNorm/bnorm, counters.Elapsed())
		}

		if residNorm/bnorm <= cfg.Tolerance {
			result.ResidualNorm = residNorm / bnorm
			result.Iterations = uint(iter + 1)
			result.Converged = true
			counters.Stop()
			return result, nil
		}

		beta := rsnew / rsold
		for i := range p {
			p[i] = r[i] + beta*p[i]
		}
		rsold = rsnew
	}

	final, _ := kernel.Dot(r, r, counters)
	result.ResidualNorm = math.Sqrt(final) / bnorm
	result.Iterations = uint(cfg.MaxIterations)
	counters.Stop()
	return result, nil
}

// checkSafepoint returns errs.ErrTimedOut if ctx's deadline has elapsed,
// errs.ErrCancelled if it was otherwise cancelled, or nil if ctx is still
// live. Called once per iteration boundary, never inside a kernel call.
func checkSafepoint(ctx context.Context) error {
	select {
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return errs.ErrTimedOut
		}
		return errs.ErrCancelled
	default:
		return nil
	}
}
