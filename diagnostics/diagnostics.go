// Package diagnostics provides per-solve counters and convergence history.
//
// Every solve owns exactly one *Counters instance; there is no process-wide
// mutable state. A HybridDriver running several sub-solvers gives each
// sub-solver its own Counters; it does not call Merge, so a driver Result
// carries only the counters of the sub-solver whose result it returns.
//
// Plain structs, monotonic counters, derived values computed on read
// rather than cached.
package diagnostics

import "time"

// Counters accumulates monotonic operation counts and byte/flop totals for
// a single solve. All Inc* methods are safe to call only from the owning
// solver's goroutine; HybridDriver gives each parallel sub-solver a
// private instance.
type Counters struct {
	MatVecCount     uint64
	DotCount        uint64
	AxpyCount       uint64
	Flops           uint64
	BytesProcessed  uint64
	PushCount       uint64
	WalksCompleted  uint64
	start           time.Time
	elapsed         time.Duration
}

// NewCounters returns a zeroed Counters with its clock started.
func NewCounters() *Counters {
	return &Counters{start: time.Now()}
}

// IncMatVec records one matvec call touching nnz multiply-adds and the
// given number of bytes (values + col_index + row_ptr reads).
func (c *Counters) IncMatVec(nnz int, bytes uint64) {
	c.MatVecCount++
	c.Flops += uint64(2 * nnz) // one multiply + one add per nonzero
	c.BytesProcessed += bytes
}

// IncDot records one dot call over n elements.
func (c *Counters) IncDot(n int) {
	c.DotCount++
	c.Flops += uint64(2 * n)
	c.BytesProcessed += uint64(2 * n * 8)
}

// IncAxpy records one axpy call over n elements.
func (c *Counters) IncAxpy(n int) {
	c.AxpyCount++
	c.Flops += uint64(2 * n)
	c.BytesProcessed += uint64(2 * n * 8)
}

// IncPush records one push-graph relaxation step.
func (c *Counters) IncPush() {
	c.PushCount++
}

// IncWalks records n completed random walks.
func (c *Counters) IncWalks(n uint64) {
	c.WalksCompleted += n
}

// Stop freezes the elapsed wall-clock time used by GFLOPS/Bandwidth. Safe
// to call once at the end of a solve; subsequent calls are no-ops.
func (c *Counters) Stop() {
	if c.elapsed == 0 {
		c.elapsed = time.Since(c.start)
	}
}

// Elapsed returns the wall-clock duration since NewCounters, frozen by Stop.
func (c *Counters) Elapsed() time.Duration {
	if c.elapsed != 0 {
		return c.elapsed
	}
	return time.Since(c.start)
}

// GFLOPS returns Flops / seconds / 1e9, derived on read rather than cached.
func (c *Counters) GFLOPS() float64 {
	secs := c.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(c.Flops) / secs / 1e9
}

// BandwidthGBs returns BytesProcessed / seconds / 1e9.
func (c *Counters) BandwidthGBs() float64 {
	secs := c.Elapsed().Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(c.BytesProcessed) / secs / 1e9
}

// Merge folds another sub-solver's counters into c. HybridDriver does not
// call it; it is available to callers that aggregate counters themselves.
func (c *Counters) Merge(other *Counters) {
	if other == nil {
		return
	}
	c.MatVecCount += other.MatVecCount
	c.DotCount += other.DotCount
	c.AxpyCount += other.AxpyCount
	c.Flops += other.Flops
	c.BytesProcessed += other.BytesProcessed
	c.PushCount += other.PushCount
	c.WalksCompleted += other.WalksCompleted
}

// AsMap renders the counters and derived values as a plain map suitable
// for encoding/json, for callers that want an optional diagnostics dump.
// Stdlib-only: this is a pure boundary serialization concern with no
// third-party library in the retrieved pack that does it more
// idiomatically than encoding/json.
func (c *Counters) AsMap() map[string]interface{} {
	return map[string]interface{}{
		"matvec_count":    c.MatVecCount,
		"dot_count":       c.DotCount,
		"axpy_count":      c.AxpyCount,
		"flops":           c.Flops,
		"bytes_processed": c.BytesProcessed,
		"push_count":      c.PushCount,
		"walks_completed": c.WalksCompleted,
		"gflops":          c.GFLOPS(),
		"bandwidth_gbs":   c.BandwidthGBs(),
	}
}

// Sample is one entry of convergence history: iteration index, residual
// norm, and elapsed time since the solve started.
type Sample struct {
	Iter        int
	ResidualNorm float64
	ElapsedNS    int64
}

// History records (iter, residual_norm, elapsed_ns) at each iteration,
// capped by MaxSamples via uniform decimation once the limit is reached.
type History struct {
	MaxSamples int
	samples    []Sample
	seen       int
}

// NewHistory returns a History capped at maxSamples entries. A maxSamples
// <= 0 means unbounded (used by small test fixtures; production callers
// should derive maxSamples from Config.MemoryLimitMB).
func NewHistory(maxSamples int) *History {
	return &History{MaxSamples: maxSamples}
}

// Record appends a sample, decimating the existing history by half once
// MaxSamples is exceeded — a simple, deterministic uniform-decimation
// policy: keep every other sample and continue.
func (h *History) Record(iter int, residualNorm float64, elapsed time.Duration) {
	h.seen++
	if h.MaxSamples > 0 && len(h.samples) >= h.MaxSamples {
		h.decimate()
	}
	h.samples = append(h.samples, Sample{Iter: iter, ResidualNorm: residualNorm, ElapsedNS: elapsed.Nanoseconds()})
}

func (h *History) decimate() {
	kept := h.samples[:0]
	for i, s := range h.samples {
		if i%2 == 0 {
			kept = append(kept, s)
		}
	}
	h.samples = kept
}

// Samples returns the recorded (possibly decimated) history in order.
func (h *History) Samples() []Sample {
	return h.samples
}
