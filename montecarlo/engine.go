package montecarlo

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/sparsedd/ddsolve/apitypes"
	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/kernel"
)

// Engine holds the private, per-solve random stream and convergence
// bookkeeping for one Monte Carlo run. Never shared across goroutines —
// HybridDriver gives each parallel sub-solver its own Engine.
type Engine struct {
	cfg         Config
	rng         *rand.Rand
	haltonIndex int
	sampler     *AdaptiveSampler
	// strataCursor cycles through RebuildStrata's strata across
	// successive chooseNextVertex calls under VarianceStratified, so
	// repeated draws from the same vertex cover its neighbors
	// systematically instead of leaving coverage to chance.
	strataCursor int
}

// NewEngine returns an Engine seeded from cfg.Seed. Two engines built
// with the same Config produce identical walk sequences.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	return &Engine{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		haltonIndex: 1,
	}
}

// Solve estimates x in A x = b by averaging random walks from every
// vertex, one walk per vertex per outer iteration, up to cfg.MaxSteps
// iterations. Convergence is checked every 100 iterations against the L2
// change of the running estimates since the previous check (not their
// sample spread); ctx is checked at the same
// cadence (the "after each batch of 100 walks" suspension point).
func (e *Engine) Solve(ctx context.Context, a *kernel.SparseMatrix, b []float64, counters *diagnostics.Counters, hist *diagnostics.History) (apitypes.SolverResult, error) {
	n := a.Rows()
	if a.Cols() != n || len(b) != n {
		return apitypes.SolverResult{}, fmt.Errorf("montecarlo.Solve: shape mismatch rows=%d cols=%d len(b)=%d: %w", a.Rows(), a.Cols(), len(b), errs.ErrInvalidShape)
	}
	if counters == nil {
		counters = diagnostics.NewCounters()
	}
	if usesSampler(e.cfg.VarianceReduction) && e.sampler == nil {
		e.sampler = NewAdaptiveSampler(n)
	}

	solution := make([]float64, n)
	counts := make([]float64, n)
	prevSolution := make([]float64, n)

	result := apitypes.SolverResult{X: solution, Method: apitypes.MethodRandomWalk, Diagnostics: counters}

	for iter := 0; iter < e.cfg.MaxSteps; iter++ {
		for start := 0; start < n; start++ {
			estimate, err := e.walkEstimate(a, b, start)
			if err != nil {
				return result, err
			}
			counts[start]++
			solution[start] += (estimate - solution[start]) / counts[start]
			counters.IncWalks(1)
		}

		if iter%100 == 0 && iter > 0 {
			select {
			case <-ctx.Done():
				result.Iterations = uint(iter)
				result.ResidualNorm = deltaNorm(solution, prevSolution)
				counters.Stop()
				return result, contextErr(ctx)
			default:
			}

			delta := deltaNorm(solution, prevSolution)
			if hist != nil {
				hist.Record(iter, delta, counters.Elapsed())
			}
			if delta < e.cfg.ConvergenceTolerance {
				result.Converged = true
				result.Iterations = uint(iter)
				result.ResidualNorm = delta
				counters.Stop()
				return result, nil
			}
			copy(prevSolution, solution)
		}
	}

	result.Iterations = uint(e.cfg.MaxSteps)
	result.ResidualNorm = deltaNorm(solution, prevSolution)
	counters.Stop()
	return result, nil
}

// walkEstimate performs one random walk from start, returning its
// (possibly variance-reduced) contribution to x[start]. Antithetic
// pairing happens here, at the walk level; importance sampling and
// stratified neighbor coverage instead happen inside singleWalk's calls
// to chooseNextVertex, so they need no separate branch here.
func (e *Engine) walkEstimate(a *kernel.SparseMatrix, b []float64, start int) (float64, error) {
	base, err := e.singleWalk(a, b, start)
	if err != nil {
		return 0, err
	}
	if e.cfg.VarianceReduction == VarianceAntithetic {
		twin, err := e.antitheticWalk(a, b, start)
		if err != nil {
			return 0, err
		}
		return (base + twin) / 2, nil
	}
	return base, nil
}

func (e *Engine) singleWalk(a *kernel.SparseMatrix, b []float64, start int) (float64, error) {
	return e.walk(a, b, start, e.uniform)
}

// antitheticWalk runs a second walk from start using 1-u for every draw,
// where each u is a fresh uniform rather than one of singleWalk's draws,
// so the twin path is independent of the first.
func (e *Engine) antitheticWalk(a *kernel.SparseMatrix, b []float64, start int) (float64, error) {
	return e.walk(a, b, start, func() float64 { return 1 - e.uniform() })
}

func (e *Engine) walk(a *kernel.SparseMatrix, b []float64, start int, draw func() float64) (float64, error) {
	current := start
	pathSum := 0.0
	pathWeight := 1.0

	for step := 0; step < e.cfg.MaxSteps; step++ {
		pathSum += pathWeight * b[current]

		if draw() < e.cfg.RestartProbability {
			break
		}

		next, pathMultiplier, ok := e.chooseNextVertex(a, current, draw)
		if !ok {
			break
		}
		pathWeight *= pathMultiplier / (1 - e.cfg.RestartProbability)
		current = next

		if e.sampler != nil {
			e.sampler.Observe(current, pathSum)
		}
	}
	return pathSum, nil
}

// chooseNextVertex samples a neighbor of current under the engine's
// active variance-reduction mode and returns the path-weight multiplier
// the caller folds into pathWeight. Under VarianceNone/Antithetic/
// QuasiMonteCarlo the draw is proportional to |A[current,·]| and the
// multiplier is that probability directly. Under VarianceImportanceSampling
// and VarianceStratified the draw instead comes from a different proposal
// distribution (the sampler's learned EMA weights, or a systematic
// neighbor-stratum cursor), and the multiplier is corrected by the
// importance ratio trueProb/proposalProb so the estimator stays the same
// one being computed regardless of which distribution actually drove
// the draw.
func (e *Engine) chooseNextVertex(a *kernel.SparseMatrix, current int, draw func() float64) (next int, pathMultiplier float64, ok bool) {
	cols, vals := a.Row(current)
	if len(cols) == 0 {
		return 0, 0, false
	}

	trueWeights := make([]float64, len(cols))
	total := 0.0
	for k, v := range vals {
		w := math.Abs(v)
		trueWeights[k] = w
		total += w
	}
	if total == 0 {
		return 0, 0, false
	}

	idx, proposalProb := e.drawNeighbor(cols, trueWeights, total, draw)
	trueProb := trueWeights[idx] / total
	if proposalProb <= 0 {
		proposalProb = trueProb
	}
	return int(cols[idx]), trueProb * (trueProb / proposalProb), true
}

// drawNeighbor picks an index into cols under the active variance-
// reduction mode, returning the probability that index was drawn with
// (for chooseNextVertex's importance-ratio correction). Falls back to
// plain proportional-to-|A| sampling whenever no sampler is attached.
func (e *Engine) drawNeighbor(cols []int32, trueWeights []float64, total float64, draw func() float64) (idx int, proposalProb float64) {
	switch {
	case e.cfg.VarianceReduction == VarianceImportanceSampling && e.sampler != nil:
		proposal := make([]float64, len(cols))
		var proposalTotal float64
		for k, c := range cols {
			w := trueWeights[k] * e.sampler.Weight(int(c))
			proposal[k] = w
			proposalTotal += w
		}
		if proposalTotal > 0 {
			idx = weightedDraw(proposal, proposalTotal, draw())
			return idx, proposal[idx] / proposalTotal
		}

	case e.cfg.VarianceReduction == VarianceStratified && e.sampler != nil:
		e.sampler.RebuildStrata(len(cols), numStrataFor(len(cols)))
		e.strataCursor++
		idx = e.sampler.StratifiedSampleIndex(e.strataCursor, draw())
		return idx, 1.0 / float64(len(cols))
	}

	idx = weightedDraw(trueWeights, total, draw())
	return idx, trueWeights[idx] / total
}

// weightedDraw returns the smallest index whose cumulative weight meets
// u*total, the standard inverse-CDF draw used by every sampling mode
// here over whatever weight vector that mode supplies.
func weightedDraw(weights []float64, total float64, u float64) int {
	target := u * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target <= cumulative {
			return i
		}
	}
	return len(weights) - 1
}

// numStrataFor mirrors the sqrt(domainSize)-strata heuristic
// VarianceStratified is documented to use, applied here per-vertex to
// that vertex's neighbor count rather than to the whole matrix.
func numStrataFor(domainSize int) int {
	n := int(math.Sqrt(float64(domainSize)))
	if n < 1 {
		n = 1
	}
	return n
}

// usesSampler reports whether mode needs an AdaptiveSampler attached to
// the Engine (importance sampling reads its EMA weights; stratified
// sampling reads its strata, keyed by the same struct).
func usesSampler(mode VarianceReduction) bool {
	return mode == VarianceImportanceSampling || mode == VarianceStratified
}

// uniform draws the engine's next sample in [0,1): either from the
// engine's private PRNG, or — under VarianceQuasiMonteCarlo — from the
// base-2 Halton sequence, deterministically advancing the shared index.
func (e *Engine) uniform() float64 {
	if e.cfg.VarianceReduction == VarianceQuasiMonteCarlo {
		v := haltonSequence(e.haltonIndex, 2)
		e.haltonIndex++
		return v
	}
	return e.rng.Float64()
}

func deltaNorm(a, b []float64) float64 {
	var ss float64
	for i := range a {
		d := a[i] - b[i]
		ss += d * d
	}
	return math.Sqrt(ss)
}

func contextErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errs.ErrTimedOut
	}
	return errs.ErrCancelled
}
