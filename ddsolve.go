// Package ddsolve is the caller-facing surface over this module's
// sparse diagonally-dominant linear system solvers: build a matrix from
// triplets, solve it with the adaptive hybrid driver, or estimate a
// single linear functional of the solution without computing the whole
// vector.
//
// Subpackages (kernel, graphview, iterative, push, montecarlo,
// functional, hybrid) are usable directly for callers who want one
// specific solver; this file only wires the common path together.
package ddsolve

import (
	"context"

	"github.com/sparsedd/ddsolve/functional"
	"github.com/sparsedd/ddsolve/hybrid"
	"github.com/sparsedd/ddsolve/kernel"
)

// FromTriplets builds an immutable sparse matrix from (row, col, value)
// entries, summing duplicates and dropping near-zero values. See
// kernel.BuildCSR for the exact contract.
func FromTriplets(triplets []kernel.Triplet, rows, cols int) (*kernel.SparseMatrix, error) {
	return kernel.BuildCSR(triplets, rows, cols)
}

// Solve runs the adaptive hybrid driver against A x = b with cfg.
// hybrid.New fills unset numeric fields and MethodWeights from
// DefaultConfig but takes the Use* flags as given, so a zero Config
// enables no method and Solve returns an error wrapping
// errs.ErrInvalidShape; start from hybrid.DefaultConfig instead.
func Solve(ctx context.Context, a *kernel.SparseMatrix, b []float64, cfg hybrid.Config) (hybrid.Result, error) {
	return hybrid.New(cfg).Solve(ctx, a, b)
}

// EstimateFunctional estimates tᵀx* without computing x* in full; see
// functional.EstimateFunctional for the exact contract, including the
// NotApplicable refusal path and the optional temporal-lead accounting
// when distanceM is given.
func EstimateFunctional(ctx context.Context, a *kernel.SparseMatrix, b, t []float64, epsilon, failureProb float64, distanceM *float64) (functional.Certificate, error) {
	return functional.EstimateFunctional(ctx, a, b, t, epsilon, failureProb, distanceM)
}
