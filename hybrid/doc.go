// Package hybrid implements the adaptive driver that picks among the
// direct (CG, then Jacobi, then a single-source forward-push fallback),
// random-walk, bidirectional-push and multilevel solvers, re-weights them
// across repeated Solve calls, and arbitrates a parallel race between
// them when asked to.
//
// No method here is smarter than the ones in iterative, push and
// montecarlo; this package only decides which of them to run, for how
// long, and what to do when one breaks down.
package hybrid
