package functional

import (
	"fmt"
	"math"
)

// ValidationCheck is one named pass/fail check in a ValidateBounds run.
type ValidationCheck struct {
	Name      string
	Condition string
	Satisfied bool
	Impact    string
}

// ValidationResult is the four-check narrative behind an estimator's
// applicability decision: diagonal dominance, p-norm gap, condition
// estimate, and query-complexity bound.
type ValidationResult struct {
	Valid           bool
	Checks          []ValidationCheck
	ComplexityBound string
}

// ValidateBounds runs the four structural checks an estimate's
// sublinear applicability depends on, for a system of size n and target
// precision epsilon. It is informational: callers use it to explain a
// NotApplicable failure, not to gate the estimate itself (that gate is
// the delta/max_p_norm_gap check in EstimateFunctional).
func ValidateBounds(params DominanceParameters, epsilon float64, n int) ValidationResult {
	var checks []ValidationCheck

	checks = append(checks, ValidationCheck{
		Name:      "Diagonal Dominance",
		Condition: fmt.Sprintf("delta = %.6g > 0", params.Delta),
		Satisfied: params.Delta > 0,
		Impact:    impactOr(params.Delta > 0, "enables a convergent Neumann series", "no convergence guarantee"),
	})

	gapOK := params.MaxPNormGap < 1/epsilon
	checks = append(checks, ValidationCheck{
		Name:      "Maximum P-norm Gap",
		Condition: fmt.Sprintf("gap = %.6g < 1/epsilon = %.6g", params.MaxPNormGap, 1/epsilon),
		Satisfied: gapOK,
		Impact:    impactOr(gapOK, "sublinear queries suffice", "may require Omega(n) queries"),
	})

	condOK := params.ConditionEstimate < 1e6
	checks = append(checks, ValidationCheck{
		Name:      "Condition Number",
		Condition: fmt.Sprintf("condition_estimate = %.3e < 1e6", params.ConditionEstimate),
		Satisfied: condOK,
		Impact:    impactOr(condOK, "stable numerical computation", "potential numerical instability"),
	})

	sqrtN := math.Sqrt(float64(n))
	queries := QueryComplexity(params, epsilon)
	queryOK := float64(queries) < 2*sqrtN
	checks = append(checks, ValidationCheck{
		Name:      "Query Complexity",
		Condition: fmt.Sprintf("queries = %d < 2*sqrt(n) = %.0f", queries, 2*sqrtN),
		Satisfied: queryOK,
		Impact:    impactOr(queryOK, "true sublinear performance", "approaching the sqrt(n) lower bound"),
	})

	valid := true
	for _, c := range checks {
		valid = valid && c.Satisfied
	}

	return ValidationResult{
		Valid:           valid,
		Checks:          checks,
		ComplexityBound: "O(log n * poly(1/epsilon, 1/delta, S_max))",
	}
}

// QueryComplexity estimates the number of queries EstimateFunctional
// would need for the given parameters and precision — the same poly(1/ε,
// 1/δ, S_max) bound used to size the Hoeffding sample count.
func QueryComplexity(params DominanceParameters, epsilon float64) uint {
	if params.Delta <= 0 {
		return 0
	}
	return hoeffdingSampleCount(params, epsilon, 0.05)
}

// lowerBoundDiagnostic names the theoretical lower bound a NotApplicable
// failure falls back to, quoting whichever of Omega(sqrt(n)) or
// Omega(1/delta) actually explains the failure.
func lowerBoundDiagnostic(params DominanceParameters, epsilon float64) string {
	if params.Delta <= 0 {
		return fmt.Sprintf("delta = %.6g <= 0: no diagonal-dominance margin, falls back to the worst-case Omega(sqrt(n)) query lower bound", params.Delta)
	}
	return fmt.Sprintf("max_p_norm_gap = %.6g >= 1/epsilon = %.6g: falls back to the Omega(1/delta) query lower bound", params.MaxPNormGap, 1/epsilon)
}

func impactOr(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
