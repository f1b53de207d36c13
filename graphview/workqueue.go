package graphview

import "container/heap"

// workItem is one entry in the WorkQueue's max-heap, keyed by priority.
type workItem struct {
	node     int
	priority float64
}

// priorityHeap is a max-heap of workItem ordered by priority descending,
// a standard container/heap.Interface inverted for largest-priority-first.
// WorkQueue never pushes a node that is already queued, so an entry keeps
// the priority it was pushed with until it is popped.
type priorityHeap []workItem

func (h priorityHeap) Len() int            { return len(h) }
func (h priorityHeap) Less(i, j int) bool  { return h[i].priority > h[j].priority }
func (h priorityHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *priorityHeap) Push(x interface{}) { *h = append(*h, x.(workItem)) }
func (h *priorityHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// WorkQueue is a max-heap keyed by priority = residual[v]/max(degree[v],1),
// with a parallel membership bitset to avoid duplicate enqueues.
//
// Threshold is adaptive: AdjustThreshold scales it up by 10% when the
// queue size exceeds a high-water mark, down by 10% when under a low-water
// mark, clamped at >= 1e-12.
type WorkQueue struct {
	heap      priorityHeap
	inQueue   []bool
	threshold float64
}

// minThreshold is the clamp floor for adaptive threshold adjustment.
const minThreshold = 1e-12

// NewWorkQueue returns an empty WorkQueue over n nodes with the given
// initial threshold.
func NewWorkQueue(n int, threshold float64) *WorkQueue {
	return &WorkQueue{
		heap:      make(priorityHeap, 0),
		inQueue:   make([]bool, n),
		threshold: threshold,
	}
}

// PushIfThreshold enqueues node with the given priority if priority meets
// the current threshold and the node is not already queued.
func (q *WorkQueue) PushIfThreshold(node int, priority float64) {
	if priority < q.threshold || q.inQueue[node] {
		return
	}
	heap.Push(&q.heap, workItem{node: node, priority: priority})
	q.inQueue[node] = true
}

// Pop removes and returns the node with the largest priority, or ok=false
// if the queue is empty.
func (q *WorkQueue) Pop() (node int, priority float64, ok bool) {
	if q.heap.Len() == 0 {
		return 0, 0, false
	}
	item := heap.Pop(&q.heap).(workItem)
	q.inQueue[item.node] = false
	return item.node, item.priority, true
}

// IsEmpty reports whether the queue has no pending items.
func (q *WorkQueue) IsEmpty() bool { return q.heap.Len() == 0 }

// Len returns the current queue size.
func (q *WorkQueue) Len() int { return q.heap.Len() }

// Threshold returns the current adaptive threshold.
func (q *WorkQueue) Threshold() float64 { return q.threshold }

// AdjustThreshold grows the threshold by 10% above highWater, shrinks it
// by 10% below lowWater, clamped at minThreshold.
func (q *WorkQueue) AdjustThreshold(highWater, lowWater int) {
	size := q.heap.Len()
	switch {
	case size > highWater:
		q.threshold *= 1.1
	case size < lowWater && q.threshold > minThreshold:
		q.threshold *= 0.9
		if q.threshold < minThreshold {
			q.threshold = minThreshold
		}
	}
}
