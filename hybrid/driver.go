package hybrid

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sparsedd/ddsolve/apitypes"
	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/graphview"
	"github.com/sparsedd/ddsolve/iterative"
	"github.com/sparsedd/ddsolve/kernel"
	"github.com/sparsedd/ddsolve/montecarlo"
	"github.com/sparsedd/ddsolve/push"
)

// HybridDriver owns one Config and adapts method weights across the
// lifetime of repeated Solve calls against matrices of similar shape; a
// fresh HybridDriver with fresh weights is just as correct, adaptation is
// purely an efficiency concern. Safe for concurrent Solve calls: each
// call holds mu for its own weight read/adapt step.
type HybridDriver struct {
	cfg     Config
	mu      sync.Mutex
	weights *weightTable
	// callsSinceAdapt counts completed sequential Solve calls since the
	// weight table was last re-adapted; every sub-solver here runs to
	// its own completion rather than yielding iteration-by-iteration, so
	// AdaptationInterval is honored at the granularity of whole Solve
	// calls rather than inner iterations.
	callsSinceAdapt int
}

// New returns a HybridDriver with cfg, filling unset fields from
// DefaultConfig.
func New(cfg Config) *HybridDriver {
	cfg = cfg.withDefaults()
	return &HybridDriver{cfg: cfg, weights: newWeightTable(cfg.MethodWeights)}
}

// Solve picks a primary method from A's DominanceParameters and runs it
// first, then the other enabled buckets in the fixed order direct,
// random_walk, bidirectional, multilevel, skipping any bucket already
// zeroed by a failure and stopping at the first converged result. A
// recoverable error (see errs.Recoverable) demotes the method and moves
// on; a result that did not converge moves on without demotion; any other
// error is returned at once. In Config.Parallel mode every enabled
// bucket instead races concurrently and the first to converge wins.
func (d *HybridDriver) Solve(ctx context.Context, a *kernel.SparseMatrix, b []float64) (Result, error) {
	n := a.Rows()
	if a.Cols() != n || len(b) != n {
		return Result{}, fmt.Errorf("hybrid.Solve: shape mismatch rows=%d cols=%d len(b)=%d: %w", a.Rows(), a.Cols(), len(b), errs.ErrInvalidShape)
	}

	methods := enabledMethods(d.cfg)
	if len(methods) == 0 {
		return Result{}, fmt.Errorf("hybrid.Solve: no method enabled: %w", errs.ErrInvalidShape)
	}

	if d.cfg.Parallel {
		return d.solveParallel(ctx, a, b, methods)
	}
	return d.solveSequential(ctx, a, b, methods)
}

func (d *HybridDriver) solveSequential(ctx context.Context, a *kernel.SparseMatrix, b []float64, methods []string) (Result, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	params := analyzeOrZero(a)
	primary := selectPrimary(params, a.Rows(), d.cfg)
	order := orderedFrom(primary, methods)

	weights := d.weights
	var attempted, failed []string
	var best apitypes.SolverResult
	haveBest := false
	efficiency := make(map[string]float64, len(order))

	for _, method := range order {
		if !weights.alive(method) {
			continue
		}
		attempted = append(attempted, method)
		logMethodSelected(ctx, method, a.Rows())

		counters := diagnostics.NewCounters()
		hist := diagnostics.NewHistory(historyCapFromMB(d.cfg.MemoryLimitMB))

		res, err := d.run(ctx, method, a, b, counters, hist)
		if err != nil && !errs.Recoverable(err) {
			return Result{}, err
		}
		if err != nil {
			weights.fail(method)
			failed = append(failed, method)
			logMethodDemoted(ctx, method, err)
			if res.X != nil && (!haveBest || res.ResidualNorm < best.ResidualNorm) {
				best, haveBest = res, true
			}
			continue
		}

		efficiency[method] = efficiencyScore(res, counters)
		best, haveBest = res, true
		if res.Converged {
			break
		}
	}

	d.callsSinceAdapt++
	if d.callsSinceAdapt >= d.cfg.AdaptationInterval {
		weights.adapt(efficiency)
		d.callsSinceAdapt = 0
	}

	if !haveBest {
		return Result{}, fmt.Errorf("hybrid.Solve: every enabled method failed: %w", errs.ErrDiverged)
	}

	return Result{
		SolverResult:     best,
		MethodsAttempted: attempted,
		FailedMethods:    failed,
		FinalWeights:     weights.snapshot(),
	}, nil
}

// solveParallel launches every enabled method as an independent
// sub-solver sharing a watchdog context; the first to report
// converged && residual<=tolerance wins and the rest are asked to stop
// cooperatively at their next safepoint.
func (d *HybridDriver) solveParallel(ctx context.Context, a *kernel.SparseMatrix, b []float64, methods []string) (Result, error) {
	watchdogCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		method string
		res    apitypes.SolverResult
		err    error
	}
	results := make(chan outcome, len(methods))

	g, gctx := errgroup.WithContext(watchdogCtx)
	for _, method := range methods {
		method := method
		logMethodSelected(ctx, method, a.Rows())
		g.Go(func() error {
			counters := diagnostics.NewCounters()
			hist := diagnostics.NewHistory(historyCapFromMB(d.cfg.MemoryLimitMB))
			res, err := d.run(gctx, method, a, b, counters, hist)
			results <- outcome{method: method, res: res, err: err}
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(results)
	}()

	var attempted, failed []string
	var best apitypes.SolverResult
	haveBest := false

	// watchdog bounds the whole wait: without it, one sub-solver ignoring
	// gctx's cancellation would wedge this loop forever waiting for
	// results to close, since close only happens after every g.Go
	// goroutine has returned.
	watchdog := time.After(watchdogTimeout)

	for {
		select {
		case o, ok := <-results:
			if !ok {
				return d.parallelResult(best, haveBest, attempted, failed)
			}
			attempted = append(attempted, o.method)
			switch {
			case o.err != nil && !errs.Recoverable(o.err):
				logMethodDemoted(ctx, o.method, o.err)
				cancel()
			case o.err != nil:
				d.mu.Lock()
				d.weights.fail(o.method)
				d.mu.Unlock()
				failed = append(failed, o.method)
				logMethodDemoted(ctx, o.method, o.err)
			case o.res.Converged && o.res.ResidualNorm <= d.cfg.Tolerance:
				cancel() // ask the rest to stop at their next safepoint
				return Result{
					SolverResult:     o.res,
					MethodsAttempted: attempted,
					FailedMethods:    failed,
					FinalWeights:     d.weightsSnapshot(),
				}, nil
			default:
				if !haveBest || o.res.ResidualNorm < best.ResidualNorm {
					best, haveBest = o.res, true
				}
			}

		case <-watchdog:
			cancel() // give up on whatever sub-solver is ignoring cancellation
			return d.parallelResult(best, haveBest, attempted, failed)
		}
	}
}

func (d *HybridDriver) parallelResult(best apitypes.SolverResult, haveBest bool, attempted, failed []string) (Result, error) {
	if !haveBest {
		return Result{}, fmt.Errorf("hybrid.Solve (parallel): every enabled method failed: %w", errs.ErrDiverged)
	}
	return Result{
		SolverResult:     best,
		MethodsAttempted: attempted,
		FailedMethods:    failed,
		FinalWeights:     d.weightsSnapshot(),
	}, nil
}

// weightsSnapshot reads the driver's weight table under mu. Parallel mode
// never adapts weights itself — arbitration there is by race outcome, not
// by the sequential efficiency-scoring path — but it still reports the
// table's current state for caller visibility.
func (d *HybridDriver) weightsSnapshot() map[string]float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.weights.snapshot()
}

func (d *HybridDriver) run(ctx context.Context, method string, a *kernel.SparseMatrix, b []float64, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	switch method {
	case methodDirect:
		return d.runDirect(ctx, a, b, counters, hist)
	case methodRandomWalk:
		eng := montecarlo.NewEngine(montecarlo.Config{
			MaxSteps:             d.cfg.MaxIterations,
			RestartProbability:   0.15,
			ConvergenceTolerance: d.cfg.Tolerance,
		})
		return eng.Solve(ctx, a, b, counters, hist)
	case methodBidirectional:
		return d.runBidirectional(ctx, a, b, counters)
	case methodMultilevel:
		return twoGridVCycle(ctx, a, b, d.cfg, counters, hist)
	default:
		return apitypes.SolverResult{}, fmt.Errorf("hybrid: unknown method %q: %w", method, errs.ErrInvalidShape)
	}
}

// runDirect tries CG first (the cheapest method for an SPD-looking
// system), falls back to Jacobi on breakdown, and as a last resort — only
// when b has exactly one significant nonzero, the regime push solvers are
// grounded for — falls back to a single forward-push pass scaled by that
// entry's magnitude.
func (d *HybridDriver) runDirect(ctx context.Context, a *kernel.SparseMatrix, b []float64, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	icfg := iterative.Config{Tolerance: d.cfg.Tolerance, MaxIterations: d.cfg.MaxIterations, HistoryCap: historyCapFromMB(d.cfg.MemoryLimitMB)}

	res, err := iterative.CG(ctx, a, b, icfg, counters, hist)
	if err == nil {
		return res, nil
	}
	if !errs.Recoverable(err) {
		return res, err
	}

	jres, jerr := iterative.Jacobi(ctx, a, b, icfg, counters, hist)
	if jerr == nil {
		return jres, nil
	}
	if !errs.Recoverable(jerr) {
		return jres, jerr
	}

	if src, mag, ok := singleSignificantEntry(b); ok {
		return d.runForwardPushSingleSource(ctx, a, src, mag, counters)
	}
	return jres, jerr
}

// efficiencyScore rates a method that returned without error, converged
// or not, for weight adaptation: lower residual and less elapsed time both
// push the score up.
func efficiencyScore(res apitypes.SolverResult, counters *diagnostics.Counters) float64 {
	secs := counters.Elapsed().Seconds()
	if secs <= 0 {
		secs = 1e-9
	}
	accuracy := 1.0 / (1.0 + res.ResidualNorm)
	return accuracy / secs
}

func singleSignificantEntry(b []float64) (index int, magnitude float64, ok bool) {
	found := -1
	for i, v := range b {
		if math.Abs(v) > 1e-12 {
			if found >= 0 {
				return 0, 0, false
			}
			found = i
		}
	}
	if found < 0 {
		return 0, 0, false
	}
	return found, b[found], true
}

func (d *HybridDriver) runForwardPushSingleSource(ctx context.Context, a *kernel.SparseMatrix, source int, magnitude float64, counters *diagnostics.Counters) (apitypes.SolverResult, error) {
	g := graphview.New(a, graphview.DegreeAbs)
	pr, err := push.Forward(ctx, g, []int{source}, push.DefaultConfig(), counters)
	if err != nil {
		return apitypes.SolverResult{}, err
	}
	x := pr.Extrapolate(push.DefaultConfig().Alpha)
	for i := range x {
		x[i] *= magnitude
	}
	b := make([]float64, a.Rows())
	b[source] = magnitude
	return finishResult(a, x, b, apitypes.MethodForwardPush, 1, counters)
}

// runBidirectional generalizes push.Bidirectional from a single (s,t)
// pair to a full vector: one forward pass from b's dominant entry, one
// backward pass targeting every index b actually touches, combined
// elementwise with the same quality-weighted blend push.Bidirectional
// uses for a single pair.
func (d *HybridDriver) runBidirectional(ctx context.Context, a *kernel.SparseMatrix, b []float64, counters *diagnostics.Counters) (apitypes.SolverResult, error) {
	g := graphview.New(a, graphview.DegreeAbs)
	n := a.Rows()

	source := dominantIndex(b)
	targets := nonzeroIndices(b)
	if len(targets) == 0 {
		targets = []int{source}
	}

	cfg := push.DefaultConfig()
	fwd, err := push.Forward(ctx, g, []int{source}, cfg, counters)
	if err != nil {
		return apitypes.SolverResult{}, err
	}
	bwd, err := push.Backward(ctx, g, targets, cfg, counters)
	if err != nil {
		return apitypes.SolverResult{}, err
	}

	const qualityEps = 1e-12
	fwdQuality := 1.0 / (fwd.ResidualNorm + qualityEps)
	bwdQuality := 1.0 / (bwd.ResidualNorm + qualityEps)
	weight := fwdQuality / (fwdQuality + bwdQuality)

	scale := l1Norm(b)
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = scale * (weight*fwd.Estimate[i] + (1-weight)*bwd.Estimate[i])
	}

	return finishResult(a, x, b, apitypes.MethodBidirectional, uint(fwd.PushCount+bwd.PushCount), counters)
}

func finishResult(a *kernel.SparseMatrix, x, b []float64, method apitypes.Method, iterations uint, counters *diagnostics.Counters) (apitypes.SolverResult, error) {
	ax := make([]float64, a.Rows())
	_ = kernel.MatVec(a, x, ax, counters)
	resid := make([]float64, len(b))
	for i := range resid {
		resid[i] = b[i] - ax[i]
	}
	residNorm := kernel.Norm2(resid, counters)
	bnorm := kernel.Norm2(b, counters)
	if bnorm == 0 {
		bnorm = 1
	}
	return apitypes.SolverResult{
		X:            x,
		ResidualNorm: residNorm / bnorm,
		Iterations:   iterations,
		Converged:    residNorm/bnorm <= 1e-2,
		Method:       method,
		Diagnostics:  counters,
	}, nil
}

func dominantIndex(b []float64) int {
	best, bestVal := 0, -1.0
	for i, v := range b {
		if math.Abs(v) > bestVal {
			best, bestVal = i, math.Abs(v)
		}
	}
	return best
}

func nonzeroIndices(b []float64) []int {
	var out []int
	for i, v := range b {
		if math.Abs(v) > 1e-12 {
			out = append(out, i)
		}
	}
	return out
}

func l1Norm(b []float64) float64 {
	var sum float64
	for _, v := range b {
		sum += math.Abs(v)
	}
	if sum == 0 {
		return 1
	}
	return sum
}

func orderedFrom(primary string, methods []string) []string {
	out := make([]string, 0, len(methods))
	out = append(out, primary)
	for _, m := range methods {
		if m != primary {
			out = append(out, m)
		}
	}
	// primary might not be in methods if its bucket was disabled by Config.
	if !contains(methods, primary) {
		return methods
	}
	return out
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// watchdogTimeout bounds the total time solveParallel will wait on its
// results channel, purely so a sub-solver that ignores cancellation
// cannot wedge the caller forever; cooperative solvers all check ctx
// well within this window.
const watchdogTimeout = 30 * time.Second
