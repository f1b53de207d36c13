package hybrid

// weightTable tracks each method bucket's current share and whether it
// has been permanently zeroed by a failure.
type weightTable struct {
	weights map[string]float64
	failed  map[string]bool
}

func newWeightTable(initial map[string]float64) *weightTable {
	w := make(map[string]float64, len(initial))
	for k, v := range initial {
		w[k] = v
	}
	return &weightTable{weights: w, failed: make(map[string]bool)}
}

// fail zeroes a method's weight permanently; the driver continues with
// whatever remains.
func (w *weightTable) fail(method string) {
	w.failed[method] = true
	w.weights[method] = 0
}

func (w *weightTable) alive(method string) bool { return !w.failed[method] }

func (w *weightTable) anyAlive() bool {
	for m := range w.weights {
		if !w.failed[m] {
			return true
		}
	}
	return false
}

// adapt recomputes weights from the efficiencyScore recorded for each
// method in the last sequential Solve call (1/(1+relative residual) per
// second of that method's wall time; it does not measure how much the
// residual changed over the interval). Every still-alive method gets
// minWeightFloor plus its share of the remaining mass in proportion to
// its score, and the weights are renormalized to sum to 1, so adaptation
// alone can never starve a method out — only an explicit fail() can.
func (w *weightTable) adapt(efficiency map[string]float64) {
	var total float64
	for m, score := range efficiency {
		if w.failed[m] || score < 0 {
			continue
		}
		total += score
	}
	if total <= 0 {
		return
	}

	aliveCount := 0
	for m := range w.weights {
		if w.alive(m) {
			aliveCount++
		}
	}
	if aliveCount == 0 {
		return
	}

	next := make(map[string]float64, len(w.weights))
	var sum float64
	for m := range w.weights {
		if w.failed[m] {
			next[m] = 0
			continue
		}
		score := efficiency[m]
		if score < 0 {
			score = 0
		}
		spare := 1 - float64(aliveCount)*minWeightFloor
		if spare < 0 {
			spare = 0
		}
		share := minWeightFloor + spare*score/total
		next[m] = share
		sum += share
	}
	if sum > 0 {
		for m := range next {
			if !w.failed[m] {
				next[m] /= sum
			}
		}
	}
	w.weights = next
}

func (w *weightTable) snapshot() map[string]float64 {
	out := make(map[string]float64, len(w.weights))
	for k, v := range w.weights {
		out[k] = v
	}
	return out
}
