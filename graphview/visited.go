package graphview

// VisitedTracker tracks which nodes have been touched during the current
// query using a per-node timestamp and a global epoch counter, so that
// starting a new query is an O(1) logical clear instead of re-zeroing the
// whole timestamp array.
type VisitedTracker struct {
	timestamps []uint32
	epoch      uint32
	order      []int
}

// NewVisitedTracker returns a tracker for n nodes, epoch starting at 1 so
// that a zero timestamp always reads as "never visited".
func NewVisitedTracker(n int) *VisitedTracker {
	return &VisitedTracker{
		timestamps: make([]uint32, n),
		epoch:      1,
	}
}

// MarkVisited marks node visited in the current epoch, returning true if
// this is the first time in this epoch.
func (v *VisitedTracker) MarkVisited(node int) bool {
	if v.timestamps[node] == v.epoch {
		return false
	}
	v.timestamps[node] = v.epoch
	v.order = append(v.order, node)
	return true
}

// IsVisited reports whether node has been marked in the current epoch.
func (v *VisitedTracker) IsVisited(node int) bool {
	return v.timestamps[node] == v.epoch
}

// NumVisited returns how many distinct nodes were visited this epoch.
func (v *VisitedTracker) NumVisited() int { return len(v.order) }

// VisitedNodes returns the nodes visited this epoch, in visit order.
func (v *VisitedTracker) VisitedNodes() []int { return v.order }

// Reset starts a new query: bumps the epoch (an O(1) logical clear) and
// drops the visit-order log. On uint32 overflow it falls back to a full
// physical clear so stale epoch values from wrapped-around counters never
// alias as "visited".
func (v *VisitedTracker) Reset() {
	v.order = v.order[:0]
	if v.epoch == ^uint32(0) {
		for i := range v.timestamps {
			v.timestamps[i] = 0
		}
		v.epoch = 1
		return
	}
	v.epoch++
}
