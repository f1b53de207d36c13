package push

import (
	"context"
	"math"

	"github.com/sparsedd/ddsolve/diagnostics"
	"github.com/sparsedd/ddsolve/errs"
	"github.com/sparsedd/ddsolve/graphview"
)

// Backward is forward push's dual: mass starts at one or more targets and
// flows against edge direction, each pushed node distributing its
// remaining residual to in-neighbors weighted by the predecessor's
// outgoing transition probability (edge weight / predecessor out-degree).
// Same termination and bookkeeping as Forward.
func Backward(ctx context.Context, g *graphview.Graph, targets []int, cfg Config, counters *diagnostics.Counters) (Result, error) {
	cfg = cfg.withDefaults()
	n := g.NumNodes()
	for _, t := range targets {
		if t < 0 || t >= n {
			return Result{}, errs.ErrInvalidShape
		}
	}
	if counters == nil {
		counters = diagnostics.NewCounters()
	}

	estimate := make([]float64, n)
	residual := make([]float64, n)
	massPerTarget := 1.0 / float64(len(targets))
	for _, t := range targets {
		residual[t] += massPerTarget
	}

	queue := graphview.NewWorkQueue(n, cfg.QueueThreshold)
	visited := graphview.NewVisitedTracker(n)
	pushCount := 0

	for _, t := range targets {
		deg := math.Max(g.InDegree(t), 1.0)
		queue.PushIfThreshold(t, residual[t]/deg)
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
		deg := math.Max(g.InDegree(node), 1.0)
		if residual[node] < cfg.Epsilon*deg {
			continue
		}

		pushBackwardNode(g, node, estimate, residual, queue, cfg.Alpha)
		visited.MarkVisited(node)
		pushCount++
		counters.IncPush()

		if cfg.AdaptiveThreshold && pushCount%1000 == 0 {
			queue.AdjustThreshold(10000, 100)
		}
	}

	return buildResult(estimate, residual, pushCount, visited), nil
}

// pushBackwardNode distributes node's remaining residual to predecessors
// (rows of the transpose), each weighted by its own transition
// probability into node: weight / predecessor's out-degree.
func pushBackwardNode(g *graphview.Graph, node int, estimate, residual []float64, queue *graphview.WorkQueue, alpha float64) {
	if residual[node] <= 0 {
		return
	}
	estimate[node] += alpha * residual[node]
	remaining := (1 - alpha) * residual[node]
	residual[node] = 0

	inDeg := g.InDegree(node)
	preds, vals := g.Transpose().Row(node)
	if inDeg > 0 && len(preds) > 0 {
		for k, p := range preds {
			w := vals[k]
			if w < 0 {
				w = -w
			}
			predOutDeg := math.Max(g.OutDegree(int(p)), 1.0)
			transitionProb := w / predOutDeg
			mass := remaining * transitionProb
			residual[p] += mass

			predInDeg := math.Max(g.InDegree(int(p)), 1.0)
			queue.PushIfThreshold(int(p), residual[p]/predInDeg)
		}
		return
	}
	residual[node] += remaining
}
