package hybrid

import "github.com/sparsedd/ddsolve/apitypes"

// Result is a HybridDriver solve outcome: the winning sub-solver's
// SolverResult plus the bookkeeping that explains how the driver got
// there.
type Result struct {
	apitypes.SolverResult
	// MethodsAttempted lists every bucket the driver actually ran, in
	// the order it ran them (sequential mode) or launched them
	// (parallel mode).
	MethodsAttempted []string
	// FailedMethods lists buckets that returned a recoverable error (see
	// errs.Recoverable) and were zeroed out.
	FailedMethods []string
	// FinalWeights is the weight table's state when the solve ended.
	FinalWeights map[string]float64
}
