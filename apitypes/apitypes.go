// Package apitypes defines the shared result vocabulary used by every
// solver package (iterative, push, montecarlo, hybrid) and by the root
// facade — the Method tag enum and SolverResult, kept in their own
// package so the solver packages can return a common type without
// importing each other.
package apitypes

import "github.com/sparsedd/ddsolve/diagnostics"

// Method tags which algorithm produced a SolverResult — a finite enum
// plus hybrid's own dispatch table, rather than a heap-typed interface
// per solver.
type Method string

const (
	MethodCG            Method = "cg"
	MethodJacobi        Method = "jacobi"
	MethodForwardPush   Method = "forward_push"
	MethodBackwardPush  Method = "backward_push"
	MethodBidirectional Method = "bidirectional"
	MethodRandomWalk    Method = "random_walk"
	MethodMultilevel    Method = "multilevel"
)

// SolverResult is the common return shape: the solution vector, residual
// norm, iteration count, convergence flag, the method that produced it,
// and that method's private diagnostics.
type SolverResult struct {
	X            []float64
	ResidualNorm float64
	Iterations   uint
	Converged    bool
	Method       Method
	Diagnostics  *diagnostics.Counters
}
