package push

import (
	"context"

	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/graphview"
)

// qualityEps keeps the quality-weighted blend finite when a push's
// residual has fully drained to zero.
const qualityEps = 1e-12

// BidirectionalResult is the outcome of combining a forward push from s
// with a backward push from t for a single (s,t) query.
type BidirectionalResult struct {
	Forward  Result
	Backward Result
	// Weight is the forward/backward blend weight used to combine them,
	// in [0,1]: 1 means forward-only, 0 means backward-only.
	Weight float64
	// Value is the combined (s,t) estimate.
	Value float64
}

// Bidirectional runs forward push from s and backward push from t, then
// combines them with a quality-weighted blend:
//
//	quality   = 1 / (residual_norm + eps)
//	weight    = fwdQuality / (fwdQuality + bwdQuality)
//	value     = weight*forward.Estimate[t] + (1-weight)*backward.Estimate[s]
//
// When out-degree(s) is much larger than in-degree(t) a backward-only
// push is cheaper and more accurate; the reverse favors forward-only.
// Choosing between pure-forward, pure-backward, and the blended
// combination is the caller's job (see hybrid's method selection); this
// function always computes the full blend and lets the caller read
// Weight to decide how much of each side actually mattered.
func Bidirectional(ctx context.Context, g *graphview.Graph, s, t int, cfgF, cfgB Config, counters *diagnostics.Counters) (BidirectionalResult, error) {
	fwd, err := Forward(ctx, g, []int{s}, cfgF, counters)
	if err != nil {
		return BidirectionalResult{}, err
	}
	bwd, err := Backward(ctx, g, []int{t}, cfgB, counters)
	if err != nil {
		return BidirectionalResult{}, err
	}

	fwdQuality := 1.0 / (fwd.ResidualNorm + qualityEps)
	bwdQuality := 1.0 / (bwd.ResidualNorm + qualityEps)
	weight := fwdQuality / (fwdQuality + bwdQuality)

	value := weight*fwd.Estimate[t] + (1-weight)*bwd.Estimate[s]

	return BidirectionalResult{
		Forward:  fwd,
		Backward: bwd,
		Weight:   weight,
		Value:    value,
	}, nil
}

// PreferBackwardOnly reports whether out_deg(s) so dominates in_deg(t)
// that a backward-only push from t is the cheaper, more accurate choice
// — the heuristic spec names for adaptively skipping the forward half of
// a bidirectional query.
func PreferBackwardOnly(g *graphview.Graph, s, t int) bool {
	return g.OutDegree(s) > 10*maxOne(g.InDegree(t))
}

// PreferForwardOnly is PreferBackwardOnly's mirror: in_deg(t) dominating
// out_deg(s) favors a forward-only push from s.
func PreferForwardOnly(g *graphview.Graph, s, t int) bool {
	return g.InDegree(t) > 10*maxOne(g.OutDegree(s))
}

func maxOne(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
