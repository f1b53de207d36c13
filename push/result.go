package push

// Result is the common shape forward and backward push return: the
// accumulated estimate, the remaining (unpushed) residual, how many
// pushes and distinct nodes were touched, and the final residual norm.
//
// Forward push on a DegreeAbs graph conserves mass at every step:
// Σestimate + Σresidual == 1 (modulo floating round-off), since each
// node's out-shares |w|/outdeg sum to 1 and a node with no out-edges keeps
// its remainder. Backward push gives each predecessor p the share
// |A[p,v]|/outdeg(p) of v's remainder; those shares sum to 1 only on some
// graphs (a path, for one), so the backward total is conserved only there.
type Result struct {
	Estimate     []float64
	Residual     []float64
	PushCount    int
	NodesVisited int
	ResidualNorm float64
}

// Extrapolate returns estimate[i] + alpha*residual[i] — a residual-aware
// final-value correction that assumes the remaining residual mass would,
// if pushed to exhaustion, distribute itself the same way the alpha
// restart fraction already has.
func (r Result) Extrapolate(alpha float64) []float64 {
	out := make([]float64, len(r.Estimate))
	for i := range out {
		out[i] = r.Estimate[i] + alpha*r.Residual[i]
	}
	return out
}

// MassConservationError returns |Σestimate + Σresidual - 1|, the
// invariant every push step is supposed to preserve exactly up to
// floating round-off.
func (r Result) MassConservationError() float64 {
	var sum float64
	for _, v := range r.Estimate {
		sum += v
	}
	for _, v := range r.Residual {
		sum += v
	}
	if sum >= 1 {
		return sum - 1
	}
	return 1 - sum
}
