package hybrid

import (
	"github.com/sparsedd/ddsolve/functional"
	"github.com/sparsedd/ddsolve/kernel"
)

// selectPrimary applies the entry-point heuristics to pick the method
// bucket HybridDriver tries first in sequential mode:
//
//  1. sparsity > 0.99 and delta > 0: prefer the direct bucket (forward
//     push / CG both live there).
//  2. delta <= 0 or the condition estimate is large: prefer random-walk
//     or bidirectional.
//  3. rows < 100: always direct (CG) — overhead dominates tiny systems.
func selectPrimary(params functional.DominanceParameters, rows int, cfg Config) string {
	if rows < 100 && cfg.UseDirect {
		return methodDirect
	}
	if params.Sparsity > 0.99 && params.Delta > 0 && cfg.UseDirect {
		return methodDirect
	}
	if params.Delta <= 0 || params.ConditionEstimate > 1e6 {
		if cfg.UseBidirectional {
			return methodBidirectional
		}
		if cfg.UseRandomWalk {
			return methodRandomWalk
		}
	}
	if cfg.UseDirect {
		return methodDirect
	}
	if cfg.UseRandomWalk {
		return methodRandomWalk
	}
	if cfg.UseBidirectional {
		return methodBidirectional
	}
	return methodMultilevel
}

// enabledMethods lists the buckets Config turns on, in the fixed order
// direct, random_walk, bidirectional, multilevel — the order parallel
// mode launches sub-solvers in.
func enabledMethods(cfg Config) []string {
	var methods []string
	if cfg.UseDirect {
		methods = append(methods, methodDirect)
	}
	if cfg.UseRandomWalk {
		methods = append(methods, methodRandomWalk)
	}
	if cfg.UseBidirectional {
		methods = append(methods, methodBidirectional)
	}
	if cfg.UseMultilevel {
		methods = append(methods, methodMultilevel)
	}
	return methods
}

func analyzeOrZero(a *kernel.SparseMatrix) functional.DominanceParameters {
	params, err := functional.Analyze(a)
	if err != nil {
		return functional.DominanceParameters{}
	}
	return params
}
