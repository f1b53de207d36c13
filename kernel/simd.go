package kernel

import (
	"fmt"

	"github.com/ajroetker/go-highway/hwy"

	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
)

// Backend selects which implementation Dot and Axpy dispatch to. MatVec has
// no SIMD path: its inner loop gathers x[col_index[k]] at scattered
// indices, which go-highway's portable Vec type cannot express without a
// hardware gather instruction, so it always uses the scalar block-8
// reference from ops.go.
type Backend int

const (
	// BackendScalar is the reference implementation (default).
	BackendScalar Backend = iota
	// BackendSIMD dispatches Dot/Axpy through go-highway's portable lanes
	// (hwy.Load/Mul/FMA/ReduceSum), with width 4 or 8 selected at runtime
	// by hwy's own CPU-capability detection.
	BackendSIMD
)

// DotWithBackend computes the same value as Dot but may use the SIMD
// backend. SIMD variants are an optimization gated behind an equivalence
// test (simd_equivalence_test.go) against the scalar reference; this
// function is never the canonical definition of Dot.
func DotWithBackend(backend Backend, x, y []float64, counters *diagnostics.Counters) (float64, error) {
	if len(x) != len(y) {
		return 0, fmt.Errorf("DotWithBackend: len mismatch %d != %d: %w", len(x), len(y), errs.ErrInvalidShape)
	}
	var result float64
	switch backend {
	case BackendSIMD:
		result = simdDot(x, y)
	default:
		result = blockDot(x, y)
	}
	if counters != nil {
		counters.IncDot(len(x))
	}
	return result, nil
}

// simdDot sums x[i]*y[i] lane-wise using go-highway's FMA + ReduceSum,
// processing MaxLanes[float64]() elements per iteration and falling back
// to scalar accumulation for the tail.
func simdDot(x, y []float64) float64 {
	lanes := hwy.MaxLanes[float64]()
	n := len(x)
	acc := hwy.Zero[float64]()
	i := 0
	for ; i+lanes <= n; i += lanes {
		vx := hwy.Load(x[i : i+lanes])
		vy := hwy.Load(y[i : i+lanes])
		acc = hwy.FMA(vx, vy, acc)
	}
	total := hwy.ReduceSum(acc)
	for ; i < n; i++ {
		total += x[i] * y[i]
	}
	return total
}

// AxpyWithBackend computes y := y + alpha*x, optionally through the SIMD
// backend.
func AxpyWithBackend(backend Backend, alpha float64, x, y []float64, counters *diagnostics.Counters) error {
	if len(x) != len(y) {
		return fmt.Errorf("AxpyWithBackend: len mismatch %d != %d: %w", len(x), len(y), errs.ErrInvalidShape)
	}
	switch backend {
	case BackendSIMD:
		simdAxpy(alpha, x, y)
	default:
		for i := range x {
			y[i] += alpha * x[i]
		}
	}
	if counters != nil {
		counters.IncAxpy(len(x))
	}
	return nil
}

func simdAxpy(alpha float64, x, y []float64) {
	lanes := hwy.MaxLanes[float64]()
	n := len(x)
	va := hwy.Set(alpha)
	i := 0
	for ; i+lanes <= n; i += lanes {
		vx := hwy.Load(x[i : i+lanes])
		vy := hwy.Load(y[i : i+lanes])
		result := hwy.FMA(va, vx, vy)
		result.Store(y[i : i+lanes])
	}
	for ; i < n; i++ {
		y[i] += alpha * x[i]
	}
}
