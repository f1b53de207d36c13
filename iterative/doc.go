// Package iterative implements the two "local, cheap, always-try-first"
// linear solvers: Conjugate Gradient for symmetric positive-definite
// systems and a Jacobi / Neumann-series truncation for diagonally
// dominant ones. Both operate entirely through kernel's pure matvec/dot/
// axpy primitives and report progress through a caller-supplied
// diagnostics.Counters and diagnostics.History.
package iterative
