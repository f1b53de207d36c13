// Package errs defines the sentinel error set shared across the solver
// packages (kernel, graphview, iterative, push, montecarlo, hybrid,
// functional). All algorithms return these sentinels via errors.Is, never
// panic, for caller-triggered conditions — see each sentinel's doc comment
// for the recovery policy it implies.
package errs

import "errors"

var (
	// ErrInvalidShape indicates a dimension mismatch or an out-of-range
	// triplet index. Fatal to the call; never recovered by HybridDriver.
	ErrInvalidShape = errors.New("ddsolve: invalid shape")

	// ErrNonFinite indicates a NaN or Inf value in input or during
	// computation. Fatal; never recovered.
	ErrNonFinite = errors.New("ddsolve: non-finite value")

	// ErrSingularDiagonal indicates a zero diagonal entry where a method
	// requires D⁻¹. HybridDriver demotes the offending method and retries.
	ErrSingularDiagonal = errors.New("ddsolve: singular diagonal")

	// ErrBreakdown indicates numerical breakdown, e.g. dot(p,Ap) ≈ 0 in CG.
	// Same demotion policy as ErrSingularDiagonal.
	ErrBreakdown = errors.New("ddsolve: numerical breakdown")

	// ErrDiverged indicates the residual grew over the monitoring window.
	// Demotes the method.
	ErrDiverged = errors.New("ddsolve: diverged")

	// ErrNotApplicable indicates functional-mode preconditions were not
	// met (delta <= 0 or max_p_norm_gap too large for epsilon).
	ErrNotApplicable = errors.New("ddsolve: functional estimate not applicable")

	// ErrCancelled indicates cooperative cancellation took effect at a
	// safepoint. Best-so-far x and residual are attached to the result.
	ErrCancelled = errors.New("ddsolve: cancelled")

	// ErrTimedOut indicates the caller-supplied deadline elapsed at a
	// safepoint. Best-so-far x and residual are attached to the result.
	ErrTimedOut = errors.New("ddsolve: timed out")

	// ErrBudgetExceeded indicates a push/walk cap was hit without
	// convergence. Best-so-far result is returned.
	ErrBudgetExceeded = errors.New("ddsolve: budget exceeded")
)

// Recoverable reports whether the driver may demote the failing method and
// continue with the rest, rather than surfacing the error to the caller.
// InvalidShape and NonFinite are input-integrity errors and are never
// recoverable; everything else is method-local.
func Recoverable(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidShape), errors.Is(err, ErrNonFinite):
		return false
	default:
		return true
	}
}
