package push

import (
	"context"
	"math"

	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/graphview"
)

// Forward runs forward push from one or more sources with uniform
// 1/len(sources) initial mass. At each step it pops the highest-priority
// node from the work queue, folds alpha*residual into the estimate,
// distributes the remainder to out-neighbors proportional to edge
// weight, and re-enqueues any touched neighbor whose new residual clears
// the adaptive threshold. Terminates when the queue empties, MaxPushes is
// hit, or ctx is cancelled between pushes.
func Forward(ctx context.Context, g *graphview.Graph, sources []int, cfg Config, counters *diagnostics.Counters) (Result, error) {
	cfg = cfg.withDefaults()
	n := g.NumNodes()
	for _, s := range sources {
		if s < 0 || s >= n {
			return Result{}, errs.ErrInvalidShape
		}
	}
	if counters == nil {
		counters = diagnostics.NewCounters()
	}

	estimate := make([]float64, n)
	residual := make([]float64, n)
	massPerSource := 1.0 / float64(len(sources))
	for _, s := range sources {
		residual[s] += massPerSource
	}

	queue := graphview.NewWorkQueue(n, cfg.QueueThreshold)
	visited := graphview.NewVisitedTracker(n)
	pushCount := 0

	for _, s := range sources {
		deg := math.Max(g.OutDegree(s), 1.0)
		queue.PushIfThreshold(s, residual[s]/deg)
	}

	for !queue.IsEmpty() && pushCount < cfg.MaxPushes {
		select {
		case <-ctx.Done():
			return buildResult(estimate, residual, pushCount, visited), contextErr(ctx)
		default:
		}

		node, _, ok := queue.Pop()
		if !ok {
			break
		}
		deg := math.Max(g.OutDegree(node), 1.0)
		if residual[node] < cfg.Epsilon*deg {
			continue
		}

		pushForwardNode(g, node, estimate, residual, queue, cfg.Alpha)
		visited.MarkVisited(node)
		pushCount++
		counters.IncPush()

		if cfg.AdaptiveThreshold && pushCount%1000 == 0 {
			queue.AdjustThreshold(10000, 100)
		}
	}

	return buildResult(estimate, residual, pushCount, visited), nil
}

// pushForwardNode folds alpha*residual[node] into the estimate and
// distributes the remainder across out-neighbors proportional to edge
// weight, re-queuing any neighbor whose priority now clears the
// threshold. A node with no out-edges keeps its remaining mass in its own
// residual so it is never lost; its own push does not re-queue it.
func pushForwardNode(g *graphview.Graph, node int, estimate, residual []float64, queue *graphview.WorkQueue, alpha float64) {
	if residual[node] <= 0 {
		return
	}
	estimate[node] += alpha * residual[node]
	remaining := (1 - alpha) * residual[node]
	residual[node] = 0

	deg := g.OutDegree(node)
	cols, vals := g.Matrix().Row(node)
	if deg > 0 && len(cols) > 0 {
		for k, c := range cols {
			w := vals[k]
			if w < 0 {
				w = -w
			}
			mass := remaining * w / deg
			residual[c] += mass
			neighborDeg := math.Max(g.OutDegree(int(c)), 1.0)
			queue.PushIfThreshold(int(c), residual[c]/neighborDeg)
		}
		return
	}
	residual[node] += remaining
}

func buildResult(estimate, residual []float64, pushCount int, visited *graphview.VisitedTracker) Result {
	var ss float64
	for _, v := range residual {
		ss += v * v
	}
	return Result{
		Estimate:     estimate,
		Residual:     residual,
		PushCount:    pushCount,
		NodesVisited: visited.NumVisited(),
		ResidualNorm: math.Sqrt(ss),
	}
}

func contextErr(ctx context.Context) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errs.ErrTimedOut
	}
	return errs.ErrCancelled
}
