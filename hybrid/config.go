package hybrid

// methodDirect, methodRandomWalk, methodBidirectional and methodMultilevel
// are the four weight buckets HybridDriver adapts over. methodDirect
// covers CG, Jacobi and forward push — the "local, cheap" family — as one
// bucket because they compete for the same role (first thing tried on a
// dominant, sparse system) and the driver only ever needs to reason about
// which bucket is earning its share, not which solver inside it ran.
const (
	methodDirect        = "direct"
	methodRandomWalk    = "random_walk"
	methodBidirectional = "bidirectional"
	methodMultilevel    = "multilevel"
)

// Config controls HybridDriver's method selection, weight adaptation and
// parallel arbitration.
type Config struct {
	UseDirect        bool
	UseRandomWalk    bool
	UseBidirectional bool
	UseMultilevel    bool

	MaxIterations int
	Tolerance     float64

	// MethodWeights maps a bucket name (methodDirect, methodRandomWalk,
	// methodBidirectional, methodMultilevel) to its current share in
	// [0,1]; the four entries sum to 1. Left nil, DefaultConfig's initial
	// 0.4/0.3/0.2/0.1 split is used.
	MethodWeights map[string]float64

	// AdaptationInterval is how many completed sequential Solve calls
	// pass between efficiency-score weight re-normalizations; it does not
	// count solver iterations, and parallel mode never adapts.
	AdaptationInterval int

	// MemoryLimitMB bounds each sub-solver's diagnostics.History; see
	// historyCapFromMB.
	MemoryLimitMB int

	// Parallel, if true, races every enabled method as an independent
	// sub-solver and takes the first to report converged within
	// tolerance.
	Parallel bool
}

// DefaultConfig returns the driver defaults: all methods but multilevel
// enabled, 1000 iterations, 1e-6 tolerance, the 0.4/0.3/0.2/0.1 initial
// weight split, re-adaptation every 50 sequential Solve calls, a 1GB history budget,
// sequential (not raced) method selection.
func DefaultConfig() Config {
	return Config{
		UseDirect:        true,
		UseRandomWalk:    true,
		UseBidirectional: true,
		UseMultilevel:    false,
		MaxIterations:    1000,
		Tolerance:        1e-6,
		MethodWeights: map[string]float64{
			methodDirect:        0.4,
			methodRandomWalk:    0.3,
			methodBidirectional: 0.2,
			methodMultilevel:    0.1,
		},
		AdaptationInterval: 50,
		MemoryLimitMB:      1024,
		Parallel:           false,
	}
}

// minWeightFloor is the per-method weight floor weight adaptation never
// crosses, so no enabled method is ever starved to zero by adaptation
// alone (only an explicit failure zeroes a method's weight).
const minWeightFloor = 0.05

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.MaxIterations <= 0 {
		c.MaxIterations = d.MaxIterations
	}
	if c.Tolerance <= 0 {
		c.Tolerance = d.Tolerance
	}
	if c.MethodWeights == nil {
		c.MethodWeights = d.MethodWeights
	}
	if c.AdaptationInterval <= 0 {
		c.AdaptationInterval = d.AdaptationInterval
	}
	if c.MemoryLimitMB <= 0 {
		c.MemoryLimitMB = d.MemoryLimitMB
	}
	return c
}

// historyCapFromMB turns a memory budget into a diagnostics.History
// sample cap, assuming ~32 bytes per recorded sample; a generous, not
// exact, conversion — the history decimates long before it would ever
// approach the real budget.
func historyCapFromMB(mb int) int {
	const bytesPerSample = 32
	n := mb * 1024 * 1024 / bytesPerSample
	if n < 64 {
		n = 64
	}
	return n
}
